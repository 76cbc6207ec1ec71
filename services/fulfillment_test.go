package services

import (
	"context"
	"testing"

	"go-marketplace/errs"
	"go-marketplace/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// placeSharedOrder puts an order with one line for each vendor through
// checkout and returns its id.
func placeSharedOrder(t *testing.T, env *testEnv, vendorA, vendorB primitive.ObjectID) primitive.ObjectID {
	t.Helper()
	ctx := context.Background()
	buyer := env.newBuyer("ada@example.com")
	p1 := env.addProduct(vendorA, "shirt", 10)
	p2 := env.addProduct(vendorB, "hat", 25)

	_, err := env.cart.Add(ctx, buyer, p1.ID.Hex(), "M", 2)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, buyer, p2.ID.Hex(), "L", 1)
	require.NoError(t, err)

	result, err := env.checkout.PlaceOrder(ctx, buyer, testAddress(), models.PaymentCOD)
	require.NoError(t, err)
	return result.Order.ID
}

func TestListForVendorProjectsOwnLinesOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()
	orderID := placeSharedOrder(t, env, vendorA, vendorB)

	viewsA, err := env.fulfillment.ListForVendor(ctx, vendorA)
	require.NoError(t, err)
	require.Len(t, viewsA, 1)
	require.Equal(t, orderID, viewsA[0].ID)
	require.Len(t, viewsA[0].Lines, 1)
	require.Equal(t, "shirt", viewsA[0].Lines[0].Name)
	require.Equal(t, 2, viewsA[0].Lines[0].Quantity)

	viewsB, err := env.fulfillment.ListForVendor(ctx, vendorB)
	require.NoError(t, err)
	require.Len(t, viewsB, 1)
	require.Equal(t, orderID, viewsB[0].ID)
	require.Len(t, viewsB[0].Lines, 1)
	require.Equal(t, "hat", viewsB[0].Lines[0].Name)

	// a vendor with no lines sees nothing
	viewsC, err := env.fulfillment.ListForVendor(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	require.Empty(t, viewsC)
}

func TestSetStatusRequiresOwnedLine(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()
	orderID := placeSharedOrder(t, env, vendorA, vendorB)

	stranger := primitive.NewObjectID()
	err := env.fulfillment.SetStatus(ctx, stranger, orderID, models.StatusShipped)
	require.ErrorIs(t, err, errs.ErrForbidden)

	// no mutation happened
	order, err := env.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPlaced, order.Status)
}

func TestSetStatusUnknownOrder(t *testing.T) {
	env := newTestEnv()
	err := env.fulfillment.SetStatus(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), models.StatusShipped)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSetStatusFreelySettable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()
	orderID := placeSharedOrder(t, env, vendorA, vendorB)

	// any target status may be set directly, including going back
	require.NoError(t, env.fulfillment.SetStatus(ctx, vendorA, orderID, models.StatusOutForDelivery))
	require.NoError(t, env.fulfillment.SetStatus(ctx, vendorA, orderID, models.StatusPacking))

	order, err := env.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPacking, order.Status)
}

func TestSetStatusSharedAcrossVendors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()
	orderID := placeSharedOrder(t, env, vendorA, vendorB)

	// vendor B advances the single shared status field
	require.NoError(t, env.fulfillment.SetStatus(ctx, vendorB, orderID, models.StatusShipped))

	// vendor A sees the same status on their projection
	viewsA, err := env.fulfillment.ListForVendor(ctx, vendorA)
	require.NoError(t, err)
	require.Equal(t, models.StatusShipped, viewsA[0].Status)
}

func TestDeliveredIsTerminal(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()
	orderID := placeSharedOrder(t, env, vendorA, vendorB)

	require.NoError(t, env.fulfillment.SetStatus(ctx, vendorA, orderID, models.StatusDelivered))

	err := env.fulfillment.SetStatus(ctx, vendorB, orderID, models.StatusPacking)
	require.ErrorIs(t, err, errs.ErrOrderDelivered)

	// setting Delivered again is harmless
	require.NoError(t, env.fulfillment.SetStatus(ctx, vendorB, orderID, models.StatusDelivered))
}
