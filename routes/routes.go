// routes/routes.go
package routes

import (
	"go-marketplace/controllers"
	"go-marketplace/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController, adminController *controllers.AdminController) {
	// Public catalog routes
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Shopper routes
	shopper := router.PathPrefix("/").Subrouter()
	shopper.Use(middleware.AuthMiddleware)
	shopper.HandleFunc("/cart/add", cartController.AddToCart).Methods("POST")
	shopper.HandleFunc("/cart/update", cartController.UpdateCart).Methods("POST")
	shopper.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	shopper.HandleFunc("/cart/amount", cartController.GetCartAmount).Methods("GET")
	shopper.HandleFunc("/cart/sync", cartController.SyncCart).Methods("POST")
	shopper.HandleFunc("/orders", orderController.PlaceOrder).Methods("POST")
	shopper.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	shopper.HandleFunc("/orders/verify", orderController.VerifyPayment).Methods("POST")

	// Vendor routes
	vendor := router.PathPrefix("/vendor").Subrouter()
	vendor.Use(middleware.AuthMiddleware)
	vendor.Use(middleware.VendorMiddleware)
	vendor.HandleFunc("/products", productController.CreateProduct).Methods("POST")
	vendor.HandleFunc("/products", productController.GetVendorProducts).Methods("GET")
	vendor.HandleFunc("/products/{id}", productController.DeleteProduct).Methods("DELETE")
	vendor.HandleFunc("/orders", adminController.GetOrders).Methods("GET")
	vendor.HandleFunc("/orders/status", adminController.UpdateStatus).Methods("POST")
	vendor.HandleFunc("/dashboard", adminController.GetDashboard).Methods("GET")
}
