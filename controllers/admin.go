// controllers/admin.go
package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-marketplace/models"
	"go-marketplace/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminController is the vendor-facing surface: order projections, the
// shared status field, and dashboard stats.
type AdminController struct {
	Fulfillment *services.FulfillmentService
	Dashboard   *services.DashboardService
}

// NewAdminController creates a new AdminController
func NewAdminController(fulfillment *services.FulfillmentService, dashboard *services.DashboardService) *AdminController {
	return &AdminController{Fulfillment: fulfillment, Dashboard: dashboard}
}

// GetOrders returns the vendor's projection of every order carrying at
// least one of their lines. Other vendors' lines never appear.
func (ac *AdminController) GetOrders(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	orders, err := ac.Fulfillment.ListForVendor(ctx, vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// UpdateStatus sets the shared order status on behalf of a vendor
func (ac *AdminController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	orderID, err := primitive.ObjectIDFromHex(input.OrderID)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}
	status, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := ac.Fulfillment.SetStatus(ctx, vendorID, orderID, status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order Status Updated Successfully"})
}

// GetDashboard returns the vendor's derived stats
func (ac *AdminController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	stats, err := ac.Dashboard.Stats(ctx, vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}
