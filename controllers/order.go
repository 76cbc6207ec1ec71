// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-marketplace/errs"
	"go-marketplace/models"
	"go-marketplace/payment"
	"go-marketplace/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderController handles checkout, payment verification and the buyer's
// order history.
type OrderController struct {
	Checkout    *services.CheckoutService
	Fulfillment *services.FulfillmentService
	Payments    *payment.Service
}

// NewOrderController creates a new OrderController
func NewOrderController(checkout *services.CheckoutService, fulfillment *services.FulfillmentService, payments *payment.Service) *OrderController {
	return &OrderController{Checkout: checkout, Fulfillment: fulfillment, Payments: payments}
}

// PlaceOrder runs checkout for the shopper's cart. COD responds with the
// order id; the gateway branch responds with a redirect URL instead.
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Address       models.Address `json:"address"`
		PaymentMethod string         `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	method, err := models.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	result, err := oc.Checkout.PlaceOrder(ctx, buyerID, input.Address, method)
	if err != nil && !errors.Is(err, errs.ErrCartNotCleared) {
		writeError(w, err)
		return
	}

	// a failed cart clear still placed the order; the response says so and
	// the caller retries the clear rather than checking out again
	response := map[string]interface{}{
		"order_id": result.Order.ID,
		"amount":   result.Order.Amount,
		"message":  "Order Placed Successfully",
	}
	if result.RedirectURL != "" {
		response["redirect_url"] = result.RedirectURL
	}
	if len(result.Pruned) > 0 {
		response["pruned_items"] = result.Pruned
	}
	if result.CartNotCleared {
		response["cart_not_cleared"] = true
	}
	writeJSON(w, http.StatusCreated, response)
}

// VerifyPayment checks the gateway session after the shopper returns and
// marks the order paid when settled. Safe to call repeatedly.
func (oc *OrderController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorID(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		SessionID string `json:"session_id"`
		OrderID   string `json:"order_id"`
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

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	paid, err := oc.Payments.Verify(ctx, input.SessionID, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"paid": paid})
}

// GetOrders retrieves the buyer's orders, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	orders, err := oc.Fulfillment.ListForBuyer(ctx, buyerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}
