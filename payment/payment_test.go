package payment

import (
	"context"
	"errors"
	"testing"

	"go-marketplace/errs"
	"go-marketplace/models"
	"go-marketplace/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubGateway struct {
	createCalls int
	statusCalls int
	paid        bool
	statusErr   error
}

func (g *stubGateway) CreateSession(_ context.Context, req SessionRequest) (*Session, error) {
	g.createCalls++
	return &Session{Ref: "sess_1", RedirectURL: "https://gateway.example/pay/" + req.OrderID}, nil
}

func (g *stubGateway) SessionPaid(_ context.Context, _ string) (bool, error) {
	g.statusCalls++
	return g.paid, g.statusErr
}

func newTestOrder(t *testing.T, orders *repository.MemoryOrderRepository, method models.PaymentMethod) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID: primitive.NewObjectID(),
		Lines: []models.OrderLine{
			{ProductID: primitive.NewObjectID(), VendorID: primitive.NewObjectID(), Name: "shirt", Price: 10, Size: "M", Quantity: 2},
		},
		Amount:        30,
		Status:        models.StatusPlaced,
		PaymentMethod: method,
	}
	_, err := orders.Insert(context.Background(), order)
	require.NoError(t, err)
	return order
}

func newTestService(gateway Gateway) (*Service, *repository.MemoryOrderRepository) {
	orders := repository.NewMemoryOrderRepository()
	users := repository.NewMemoryUserRepository()
	return NewService(orders, users, gateway, nil, zerolog.Nop()), orders
}

func TestInitiateCODCompletesImmediately(t *testing.T) {
	gateway := &stubGateway{}
	service, orders := newTestService(gateway)
	order := newTestOrder(t, orders, models.PaymentCOD)

	result, err := service.Initiate(context.Background(), order)
	require.NoError(t, err)
	require.True(t, result.Completed)
	require.Empty(t, result.RedirectURL)
	require.Zero(t, gateway.createCalls)
}

func TestInitiateStripeReturnsRedirect(t *testing.T) {
	gateway := &stubGateway{}
	service, orders := newTestService(gateway)
	order := newTestOrder(t, orders, models.PaymentStripe)

	result, err := service.Initiate(context.Background(), order)
	require.NoError(t, err)
	require.False(t, result.Completed)
	require.Equal(t, "https://gateway.example/pay/"+order.ID.Hex(), result.RedirectURL)
}

func TestInitiateWithoutGateway(t *testing.T) {
	service, orders := newTestService(nil)
	order := newTestOrder(t, orders, models.PaymentStripe)

	_, err := service.Initiate(context.Background(), order)
	var gatewayErr *errs.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
}

func TestVerifySettledSessionMarksPaid(t *testing.T) {
	gateway := &stubGateway{paid: true}
	service, orders := newTestService(gateway)
	order := newTestOrder(t, orders, models.PaymentStripe)

	paid, err := service.Verify(context.Background(), "sess_1", order.ID)
	require.NoError(t, err)
	require.True(t, paid)

	stored, err := orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, stored.Paid)
	require.Equal(t, 30.0, stored.Amount)
}

func TestVerifyIsIdempotent(t *testing.T) {
	gateway := &stubGateway{paid: true}
	service, orders := newTestService(gateway)
	order := newTestOrder(t, orders, models.PaymentStripe)

	paid, err := service.Verify(context.Background(), "sess_1", order.ID)
	require.NoError(t, err)
	require.True(t, paid)

	// the second call succeeds without touching the gateway again
	paid, err = service.Verify(context.Background(), "sess_1", order.ID)
	require.NoError(t, err)
	require.True(t, paid)
	require.Equal(t, 1, gateway.statusCalls)

	stored, err := orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 30.0, stored.Amount)
}

func TestVerifyUnsettledSession(t *testing.T) {
	gateway := &stubGateway{paid: false}
	service, orders := newTestService(gateway)
	order := newTestOrder(t, orders, models.PaymentStripe)

	paid, err := service.Verify(context.Background(), "sess_1", order.ID)
	require.NoError(t, err)
	require.False(t, paid)

	stored, err := orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.False(t, stored.Paid)
}

func TestVerifyUnknownOrder(t *testing.T) {
	gateway := &stubGateway{paid: true}
	service, _ := newTestService(gateway)

	_, err := service.Verify(context.Background(), "sess_1", primitive.NewObjectID())
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Zero(t, gateway.statusCalls)
}

func TestVerifyGatewayFailure(t *testing.T) {
	gateway := &stubGateway{statusErr: errors.New("gateway down")}
	service, orders := newTestService(gateway)
	order := newTestOrder(t, orders, models.PaymentStripe)

	_, err := service.Verify(context.Background(), "sess_1", order.ID)
	var gatewayErr *errs.GatewayError
	require.ErrorAs(t, err, &gatewayErr)

	// unresolved, not rolled back
	stored, err := orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.False(t, stored.Paid)
}

func TestVerifyEmptySessionRef(t *testing.T) {
	gateway := &stubGateway{paid: true}
	service, orders := newTestService(gateway)
	order := newTestOrder(t, orders, models.PaymentStripe)

	_, err := service.Verify(context.Background(), "", order.ID)
	require.True(t, errs.IsValidation(err))
}
