package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-marketplace/errs"
	"go-marketplace/models"
	"go-marketplace/payment"
	"go-marketplace/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderMailer sends the order confirmation receipt. May be nil.
type OrderMailer interface {
	SendOrderConfirmation(email string, order models.Order) error
}

// PlaceOrderResult carries the persisted order plus checkout advisories.
// Pruned lists cart lines dropped because their product no longer resolves,
// so the caller can trim its cached cart. CartNotCleared means the order
// stands but the cart clear failed; the caller retries the clear, never the
// checkout.
type PlaceOrderResult struct {
	Order          *models.Order
	RedirectURL    string
	Pruned         []models.CartLine
	CartNotCleared bool
}

// CheckoutService is the Checkout Orchestrator: it turns a mutable cart and
// mutable catalog rows into an immutable order, attributing every line to
// its vendor at this instant.
type CheckoutService struct {
	carts       repository.CartRepository
	products    repository.ProductRepository
	orders      repository.OrderRepository
	users       repository.UserRepository
	payments    *payment.Service
	mailer      OrderMailer
	deliveryFee float64
	log         zerolog.Logger
}

// NewCheckoutService creates a CheckoutService. mailer may be nil.
func NewCheckoutService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	payments *payment.Service,
	mailer OrderMailer,
	deliveryFee float64,
	log zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		products:    products,
		orders:      orders,
		users:       users,
		payments:    payments,
		mailer:      mailer,
		deliveryFee: deliveryFee,
		log:         log,
	}
}

// assembledLine pairs a cart line with the catalog row it resolved to.
type assembledLine struct {
	cartLine models.CartLine
	product  *models.Product
}

// PlaceOrder runs checkout for the shopper's server-held cart.
//
// Two distinct failure policies apply, in two explicit passes: hard
// preconditions (empty cart, bad address) abort before anything persists,
// while stale product references are filtered out line by line and reported
// as a prune advisory. Only an all-stale cart aborts, with ErrNoValidItems.
//
// The order is persisted before the cart is cleared. If the clear fails the
// order still stands and the result says so via CartNotCleared.
func (s *CheckoutService) PlaceOrder(ctx context.Context, buyerID primitive.ObjectID, address models.Address, method models.PaymentMethod) (*PlaceOrderResult, error) {
	// pass 1: hard preconditions, nothing persisted on failure
	cart, err := s.loadCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if cart.Count() == 0 {
		return nil, errs.ErrEmptyCart
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	// pass 2: resolve each line against the current catalog, pruning stale
	// references instead of aborting
	var kept []assembledLine
	var pruned []models.CartLine
	for _, line := range cart.Lines() {
		productID, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			s.log.Warn().Str("product_id", line.ProductID).Msg("pruning malformed cart line")
			pruned = append(pruned, line)
			continue
		}
		product, err := s.products.FindByID(ctx, productID)
		if errors.Is(err, errs.ErrNotFound) {
			s.log.Warn().Str("product_id", line.ProductID).Msg("pruning stale cart line")
			pruned = append(pruned, line)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve product: %w", err)
		}
		kept = append(kept, assembledLine{cartLine: line, product: product})
	}
	if len(kept) == 0 {
		return nil, errs.ErrNoValidItems
	}

	// attribute each surviving line to its owning vendor and snapshot the
	// catalog fields the order must keep forever
	lines := make([]models.OrderLine, 0, len(kept))
	subtotal := 0.0
	for _, item := range kept {
		vendorID, err := s.resolveVendor(item.product)
		if err != nil {
			return nil, err
		}
		line := models.OrderLine{
			ProductID: item.product.ID,
			VendorID:  vendorID,
			Name:      item.product.Name,
			Image:     item.product.MainImage(),
			Price:     item.product.Price,
			Size:      item.cartLine.Size,
			Quantity:  item.cartLine.Quantity,
		}
		lines = append(lines, line)
		subtotal += line.Subtotal()
	}

	order := &models.Order{
		UserID:        buyerID,
		Lines:         lines,
		Amount:        subtotal + s.deliveryFee,
		Address:       address,
		Status:        models.StatusPlaced,
		PaymentMethod: method,
		Paid:          false,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	dispatch, err := s.payments.Initiate(ctx, order)
	if err != nil {
		// the order stays persisted and unpaid; verify reconciles it later
		return nil, err
	}

	result := &PlaceOrderResult{Order: order, RedirectURL: dispatch.RedirectURL, Pruned: pruned}
	if err := s.carts.Clear(ctx, buyerID); err != nil {
		s.log.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("cart clear failed after order persisted")
		result.CartNotCleared = true
		return result, fmt.Errorf("%w: %v", errs.ErrCartNotCleared, err)
	}

	if dispatch.Completed {
		s.sendConfirmation(ctx, *order)
	}
	return result, nil
}

// resolveVendor is the vendor attribution resolver: it reads the owning
// vendor off the catalog row at line-assembly time. A product with no owner
// aborts the whole checkout so no order is ever missing an attribution.
func (s *CheckoutService) resolveVendor(product *models.Product) (primitive.ObjectID, error) {
	if product.VendorID.IsZero() {
		return primitive.NilObjectID, fmt.Errorf("product %s has no vendor: %w", product.ID.Hex(), errs.ErrNotFound)
	}
	return product.VendorID, nil
}

func (s *CheckoutService) loadCart(ctx context.Context, buyerID primitive.ObjectID) (models.CartData, error) {
	cart, err := s.carts.Get(ctx, buyerID)
	if errors.Is(err, errs.ErrNotFound) {
		return models.NewCartData(), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CheckoutService) sendConfirmation(ctx context.Context, order models.Order) {
	if s.mailer == nil {
		return
	}
	buyer, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", order.ID.Hex()).Msg("buyer lookup failed, skipping confirmation email")
		return
	}
	go func(email string) {
		if err := s.mailer.SendOrderConfirmation(email, order); err != nil {
			s.log.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("order confirmation email failed")
		}
	}(buyer.Email)
}
