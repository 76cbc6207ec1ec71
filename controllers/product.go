package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-marketplace/models"
	"go-marketplace/repository"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductController handles catalog reads and the vendor's own listings.
type ProductController struct {
	Products repository.ProductRepository
}

// NewProductController creates a new ProductController
func NewProductController(products repository.ProductRepository) *ProductController {
	return &ProductController{Products: products}
}

// GetProducts retrieves all products
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	products, err := pc.Products.FindAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	product, err := pc.Products.FindByID(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateProduct adds a product owned by the acting vendor
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	product.ID = primitive.NilObjectID
	product.VendorID = vendorID
	product.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	id, err := pc.Products.Insert(ctx, &product)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"product_id": id})
}

// GetVendorProducts lists the acting vendor's own products
func (pc *ProductController) GetVendorProducts(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	products, err := pc.Products.FindByVendor(ctx, vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// DeleteProduct removes one of the acting vendor's products
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := actorID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := pc.Products.Delete(ctx, id, vendorID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}
