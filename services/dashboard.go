package services

import (
	"context"

	"go-marketplace/models"
	"go-marketplace/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardStats are a vendor's read-only projections over shared order
// records.
type DashboardStats struct {
	TotalProducts int64   `json:"total_products"`
	TotalOrders   int     `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	PendingOrders int     `json:"pending_orders"`
}

// DashboardService is the Vendor Revenue Aggregator.
type DashboardService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(products repository.ProductRepository, orders repository.OrderRepository) *DashboardService {
	return &DashboardService{products: products, orders: orders}
}

// Stats derives the vendor's dashboard numbers. Revenue counts only the
// vendor's own lines within each shared order. Pending is a per-order
// predicate on the shared status field, so another vendor advancing the
// order to Delivered removes it from this vendor's pending count too.
func (s *DashboardService) Stats(ctx context.Context, vendorID primitive.ObjectID) (*DashboardStats, error) {
	productCount, err := s.products.CountByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalProducts: productCount, TotalOrders: len(orders)}
	for _, order := range orders {
		stats.TotalRevenue += order.VendorRevenue(vendorID)
		if order.Status != models.StatusDelivered {
			stats.PendingOrders++
		}
	}
	return stats, nil
}
