package repository

import (
	"context"
	"sort"
	"sync"

	"go-marketplace/errs"
	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory implementations of the store ports, used by the engine's unit
// tests. Error fields inject failures for the persist-then-clear and
// mirror-rollback cases.

// MemoryCartRepository is an in-memory CartRepository.
type MemoryCartRepository struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]models.CartData

	SaveErr  error
	ClearErr error
}

// NewMemoryCartRepository creates an empty MemoryCartRepository.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: make(map[primitive.ObjectID]models.CartData)}
}

func (r *MemoryCartRepository) Get(_ context.Context, userID primitive.ObjectID) (models.CartData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.carts[userID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return items.Clone(), nil
}

func (r *MemoryCartRepository) Save(_ context.Context, userID primitive.ObjectID, items models.CartData) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = items.Clone()
	return nil
}

func (r *MemoryCartRepository) Clear(_ context.Context, userID primitive.ObjectID) error {
	if r.ClearErr != nil {
		return r.ClearErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = models.NewCartData()
	return nil
}

// MemoryProductRepository is an in-memory ProductRepository.
type MemoryProductRepository struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

// NewMemoryProductRepository creates an empty MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[primitive.ObjectID]models.Product)}
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &product, nil
}

func (r *MemoryProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

func (r *MemoryProductRepository) FindByVendor(_ context.Context, vendorID primitive.ObjectID) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.VendorID == vendorID }), nil
}

func (r *MemoryProductRepository) filter(keep func(models.Product) bool) []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, product := range r.products {
		if keep(product) {
			out = append(out, product)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (r *MemoryProductRepository) CountByVendor(_ context.Context, vendorID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, product := range r.products {
		if product.VendorID == vendorID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryProductRepository) Insert(_ context.Context, product *models.Product) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products[product.ID] = *product
	return product.ID, nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id, vendorID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok || product.VendorID != vendorID {
		return errs.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// MemoryOrderRepository is an in-memory OrderRepository.
type MemoryOrderRepository struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order
	seq    []primitive.ObjectID

	InsertErr error
}

// NewMemoryOrderRepository creates an empty MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[primitive.ObjectID]models.Order)}
}

func (r *MemoryOrderRepository) Insert(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	if r.InsertErr != nil {
		return primitive.NilObjectID, r.InsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders[order.ID] = cloneOrder(*order)
	r.seq = append(r.seq, order.ID)
	return order.ID, nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	out := cloneOrder(order)
	return &out, nil
}

func (r *MemoryOrderRepository) FindByBuyer(_ context.Context, buyerID primitive.ObjectID) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.UserID == buyerID }), nil
}

func (r *MemoryOrderRepository) FindByVendor(_ context.Context, vendorID primitive.ObjectID) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.HasVendor(vendorID) }), nil
}

func (r *MemoryOrderRepository) filter(keep func(models.Order) bool) []models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	// newest first, mirroring the mongo sort
	for i := len(r.seq) - 1; i >= 0; i-- {
		order := r.orders[r.seq[i]]
		if keep(order) {
			out = append(out, cloneOrder(order))
		}
	}
	return out
}

func (r *MemoryOrderRepository) SetStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return errs.ErrNotFound
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

func (r *MemoryOrderRepository) SetPaid(_ context.Context, id primitive.ObjectID, paid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return errs.ErrNotFound
	}
	order.Paid = paid
	r.orders[id] = order
	return nil
}

func cloneOrder(order models.Order) models.Order {
	lines := make([]models.OrderLine, len(order.Lines))
	copy(lines, order.Lines)
	order.Lines = lines
	return order
}

// MemoryUserRepository is an in-memory UserRepository.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]models.User)}
}

// Put stores a user record.
func (r *MemoryUserRepository) Put(user models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &user, nil
}
