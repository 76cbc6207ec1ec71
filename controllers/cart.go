package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-marketplace/models"
	"go-marketplace/services"
)

// CartController handles cart-related requests
type CartController struct {
	Service *services.CartService
}

// NewCartController creates a new CartController
func NewCartController(service *services.CartService) *CartController {
	return &CartController{Service: service}
}

type cartMutation struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// AddToCart adds a product size to the shopper's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input cartMutation
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := cc.Service.Add(ctx, userID, input.ProductID, input.Size, input.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": items.Count(),
	})
}

// UpdateCart sets the quantity for a product size; zero or less removes it
func (cc *CartController) UpdateCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input cartMutation
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := cc.Service.SetQuantity(ctx, userID, input.ProductID, input.Size, input.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": items.Count(),
	})
}

// GetCart retrieves the server-held cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := cc.Service.Get(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": items.Count(),
	})
}

// GetCartAmount sums current catalog prices over the cart
func (cc *CartController) GetCartAmount(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	amount, err := cc.Service.Amount(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"amount": amount})
}

// SyncCart reconciles a client-cached cart with the server copy; the server
// copy wins whenever it holds anything
func (cc *CartController) SyncCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Items models.CartData `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := cc.Service.Reconcile(ctx, userID, input.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": items.Count(),
	})
}
