package services

import (
	"context"
	"fmt"

	"go-marketplace/models"
	"go-marketplace/payment"
	"go-marketplace/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeGateway records calls and settles sessions on demand.
type fakeGateway struct {
	createCalls int
	statusCalls int
	paid        bool
	createErr   error
	lastRequest payment.SessionRequest
}

func (g *fakeGateway) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	g.createCalls++
	g.lastRequest = req
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &payment.Session{
		Ref:         fmt.Sprintf("sess_%d", g.createCalls),
		RedirectURL: "https://gateway.example/pay/" + req.OrderID,
	}, nil
}

func (g *fakeGateway) SessionPaid(_ context.Context, _ string) (bool, error) {
	g.statusCalls++
	return g.paid, nil
}

// testEnv wires the engine services over in-memory stores.
type testEnv struct {
	carts    *repository.MemoryCartRepository
	products *repository.MemoryProductRepository
	orders   *repository.MemoryOrderRepository
	users    *repository.MemoryUserRepository
	gateway  *fakeGateway

	cart        *CartService
	checkout    *CheckoutService
	fulfillment *FulfillmentService
	dashboard   *DashboardService
	payments    *payment.Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		carts:    repository.NewMemoryCartRepository(),
		products: repository.NewMemoryProductRepository(),
		orders:   repository.NewMemoryOrderRepository(),
		users:    repository.NewMemoryUserRepository(),
		gateway:  &fakeGateway{},
	}
	log := zerolog.Nop()
	env.payments = payment.NewService(env.orders, env.users, env.gateway, nil, log)
	env.cart = NewCartService(env.carts, env.products, log)
	env.checkout = NewCheckoutService(env.carts, env.products, env.orders, env.users, env.payments, nil, 10, log)
	env.fulfillment = NewFulfillmentService(env.orders, log)
	env.dashboard = NewDashboardService(env.products, env.orders)
	return env
}

func (e *testEnv) addProduct(vendorID primitive.ObjectID, name string, price float64) models.Product {
	product := models.Product{
		VendorID: vendorID,
		Name:     name,
		Price:    price,
		Images:   []string{"https://img.example/" + name + ".jpg"},
		Sizes:    []string{"S", "M", "L"},
	}
	_, _ = e.products.Insert(context.Background(), &product)
	return product
}

func (e *testEnv) newBuyer(email string) primitive.ObjectID {
	user := models.User{ID: primitive.NewObjectID(), Name: "Test Buyer", Email: email}
	e.users.Put(user)
	return user.ID
}

func testAddress() models.Address {
	return models.Address{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Street:    "1 Analytical Way",
		City:      "London",
		State:     "LDN",
		Country:   "UK",
		ZipCode:   "E1 6AN",
		Phone:     "5550100",
	}
}
