package services

import (
	"context"
	"errors"
	"testing"

	"go-marketplace/errs"
	"go-marketplace/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPlaceOrderCOD(t *testing.T) {
	// cart {p1:{M:2}, p2:{L:1}}, p1.price=10, p2.price=25, fee=10 -> 55
	env := newTestEnv()
	ctx := context.Background()
	buyer := env.newBuyer("ada@example.com")
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()
	p1 := env.addProduct(vendorA, "shirt", 10)
	p2 := env.addProduct(vendorB, "hat", 25)

	_, err := env.cart.Add(ctx, buyer, p1.ID.Hex(), "M", 2)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, buyer, p2.ID.Hex(), "L", 1)
	require.NoError(t, err)

	result, err := env.checkout.PlaceOrder(ctx, buyer, testAddress(), models.PaymentCOD)
	require.NoError(t, err)
	require.Empty(t, result.RedirectURL)
	require.Empty(t, result.Pruned)

	order := result.Order
	require.Equal(t, 55.0, order.Amount)
	require.False(t, order.Paid)
	require.Equal(t, models.StatusPlaced, order.Status)
	require.Len(t, order.Lines, 2)

	// lines snapshot vendor attribution, price, name and image
	require.Equal(t, vendorA, order.Lines[0].VendorID)
	require.Equal(t, "shirt", order.Lines[0].Name)
	require.Equal(t, p1.MainImage(), order.Lines[0].Image)
	require.Equal(t, 2, order.Lines[0].Quantity)
	require.Equal(t, vendorB, order.Lines[1].VendorID)

	// cart is cleared only after the order is persisted
	cart, err := env.cart.Get(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, 0, cart.Count())
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	env := newTestEnv()
	buyer := env.newBuyer("ada@example.com")

	_, err := env.checkout.PlaceOrder(context.Background(), buyer, testAddress(), models.PaymentCOD)
	require.ErrorIs(t, err, errs.ErrEmptyCart)
}

func TestPlaceOrderRejectsMissingAddressField(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := env.newBuyer("ada@example.com")
	p1 := env.addProduct(primitive.NewObjectID(), "shirt", 10)
	_, err := env.cart.Add(ctx, buyer, p1.ID.Hex(), "M", 1)
	require.NoError(t, err)

	addr := testAddress()
	addr.Phone = ""
	_, err = env.checkout.PlaceOrder(ctx, buyer, addr, models.PaymentCOD)
	require.Error(t, err)
	require.True(t, errs.IsValidation(err))
	require.Contains(t, err.Error(), "address.phone")

	// hard precondition failures persist nothing
	orders, err := env.orders.FindByBuyer(ctx, buyer)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestPlaceOrderPrunesStaleLines(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := env.newBuyer("ada@example.com")
	live := env.addProduct(primitive.NewObjectID(), "shirt", 10)
	stale := env.addProduct(primitive.NewObjectID(), "gone", 99)

	_, err := env.cart.Add(ctx, buyer, live.ID.Hex(), "M", 2)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, buyer, stale.ID.Hex(), "L", 1)
	require.NoError(t, err)
	require.NoError(t, env.products.Delete(ctx, stale.ID, stale.VendorID))

	result, err := env.checkout.PlaceOrder(ctx, buyer, testAddress(), models.PaymentCOD)
	require.NoError(t, err)

	// stale line dropped and reported, not summed
	require.Len(t, result.Order.Lines, 1)
	require.Equal(t, 30.0, result.Order.Amount)
	require.Len(t, result.Pruned, 1)
	require.Equal(t, stale.ID.Hex(), result.Pruned[0].ProductID)
}

func TestPlaceOrderAllStaleFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := env.newBuyer("ada@example.com")
	stale := env.addProduct(primitive.NewObjectID(), "gone", 99)
	_, err := env.cart.Add(ctx, buyer, stale.ID.Hex(), "M", 1)
	require.NoError(t, err)
	require.NoError(t, env.products.Delete(ctx, stale.ID, stale.VendorID))

	_, err = env.checkout.PlaceOrder(ctx, buyer, testAddress(), models.PaymentCOD)
	require.ErrorIs(t, err, errs.ErrNoValidItems)
}

func TestPlaceOrderPersistThenClear(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := env.newBuyer("ada@example.com")
	p1 := env.addProduct(primitive.NewObjectID(), "shirt", 10)
	_, err := env.cart.Add(ctx, buyer, p1.ID.Hex(), "M", 2)
	require.NoError(t, err)

	env.carts.ClearErr = errors.New("store unavailable")
	result, err := env.checkout.PlaceOrder(ctx, buyer, testAddress(), models.PaymentCOD)
	require.ErrorIs(t, err, errs.ErrCartNotCleared)
	require.NotNil(t, result)
	require.True(t, result.CartNotCleared)

	// the order stands with its full line set even though the clear failed
	persisted, err := env.orders.FindByID(ctx, result.Order.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Lines, 1)
	require.Equal(t, 30.0, persisted.Amount)

	// the cart was not emptied
	cart, err := env.cart.Get(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, 2, cart.Count())
}

func TestPlaceOrderStripeReturnsRedirect(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := env.newBuyer("ada@example.com")
	p1 := env.addProduct(primitive.NewObjectID(), "shirt", 10)
	_, err := env.cart.Add(ctx, buyer, p1.ID.Hex(), "M", 2)
	require.NoError(t, err)

	result, err := env.checkout.PlaceOrder(ctx, buyer, testAddress(), models.PaymentStripe)
	require.NoError(t, err)
	require.NotEmpty(t, result.RedirectURL)
	require.False(t, result.Order.Paid)

	// the session is bound to the order's fixed amount
	require.Equal(t, result.Order.ID.Hex(), env.gateway.lastRequest.OrderID)
	require.Equal(t, 30.0, env.gateway.lastRequest.Amount)

	// cart cleared on adapter success, even though payment is unresolved
	cart, err := env.cart.Get(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, 0, cart.Count())
}

func TestPlaceOrderGatewayFailureLeavesOrderRecoverable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := env.newBuyer("ada@example.com")
	p1 := env.addProduct(primitive.NewObjectID(), "shirt", 10)
	_, err := env.cart.Add(ctx, buyer, p1.ID.Hex(), "M", 2)
	require.NoError(t, err)

	env.gateway.createErr = errors.New("gateway down")
	_, err = env.checkout.PlaceOrder(ctx, buyer, testAddress(), models.PaymentStripe)
	var gatewayErr *errs.GatewayError
	require.ErrorAs(t, err, &gatewayErr)

	// order persisted and unpaid, cart untouched: recoverable, not rolled back
	orders, err := env.orders.FindByBuyer(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.False(t, orders[0].Paid)

	cart, err := env.cart.Get(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, 2, cart.Count())
}

func TestOrderAmountStableAfterPriceEdit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	buyer := env.newBuyer("ada@example.com")
	vendor := primitive.NewObjectID()
	p1 := env.addProduct(vendor, "shirt", 10)
	_, err := env.cart.Add(ctx, buyer, p1.ID.Hex(), "M", 2)
	require.NoError(t, err)

	result, err := env.checkout.PlaceOrder(ctx, buyer, testAddress(), models.PaymentCOD)
	require.NoError(t, err)
	require.Equal(t, 30.0, result.Order.Amount)

	// edit the catalog price after the fact
	p1.Price = 1000
	_, err = env.products.Insert(ctx, &p1)
	require.NoError(t, err)

	refetched, err := env.orders.FindByID(ctx, result.Order.ID)
	require.NoError(t, err)
	require.Equal(t, 30.0, refetched.Amount)
	require.Equal(t, 10.0, refetched.Lines[0].Price)
}
