package services

import (
	"context"
	"errors"
	"testing"

	"go-marketplace/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartServiceAddMirrorsToStore(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := primitive.NewObjectID()
	product := env.addProduct(primitive.NewObjectID(), "shirt", 10)

	items, err := env.cart.Add(ctx, buyer, product.ID.Hex(), "M", 0) // qty defaults to 1
	require.NoError(t, err)
	require.Equal(t, 1, items.Count())

	stored, err := env.carts.Get(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, items, stored)
}

func TestCartServiceMirrorFailureKeepsNothing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := primitive.NewObjectID()
	product := env.addProduct(primitive.NewObjectID(), "shirt", 10)

	_, err := env.cart.Add(ctx, buyer, product.ID.Hex(), "M", 2)
	require.NoError(t, err)

	env.carts.SaveErr = errors.New("store unavailable")
	_, err = env.cart.Add(ctx, buyer, product.ID.Hex(), "M", 3)
	require.Error(t, err)

	// either both copies change or neither is kept
	env.carts.SaveErr = nil
	stored, err := env.cart.Get(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, 2, stored[product.ID.Hex()]["M"])
}

func TestCartServiceReconcileServerAuthoritative(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := primitive.NewObjectID()

	_, err := env.cart.Add(ctx, buyer, "aaaaaaaaaaaaaaaaaaaaaaaa", "M", 2)
	require.NoError(t, err)

	local := models.NewCartData()
	require.NoError(t, local.Add("bbbbbbbbbbbbbbbbbbbbbbbb", "L", 5))

	merged, err := env.cart.Reconcile(ctx, buyer, local)
	require.NoError(t, err)
	require.Equal(t, 2, merged["aaaaaaaaaaaaaaaaaaaaaaaa"]["M"])
	require.NotContains(t, merged, "bbbbbbbbbbbbbbbbbbbbbbbb")
}

func TestCartServiceReconcileAdoptsLocalWhenServerEmpty(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := primitive.NewObjectID()

	local := models.NewCartData()
	require.NoError(t, local.Add("bbbbbbbbbbbbbbbbbbbbbbbb", "L", 5))

	merged, err := env.cart.Reconcile(ctx, buyer, local)
	require.NoError(t, err)
	require.Equal(t, 5, merged["bbbbbbbbbbbbbbbbbbbbbbbb"]["L"])

	// adopted cart was persisted as the new server copy
	stored, err := env.carts.Get(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, merged, stored)
}

func TestCartServiceAmountSkipsStaleLines(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := primitive.NewObjectID()
	vendor := primitive.NewObjectID()
	live := env.addProduct(vendor, "shirt", 10)

	_, err := env.cart.Add(ctx, buyer, live.ID.Hex(), "M", 2)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, buyer, primitive.NewObjectID().Hex(), "L", 1) // never in catalog
	require.NoError(t, err)

	amount, err := env.cart.Amount(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, 20.0, amount)
}
