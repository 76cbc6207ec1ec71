package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-marketplace/errs"
	"go-marketplace/middleware"
	"go-marketplace/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actorID pulls the verified actor id off the request context.
func actorID(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the engine's error taxonomy onto HTTP statuses. Every
// rejection carries its stable reason string.
func writeError(w http.ResponseWriter, err error) {
	var gatewayErr *errs.GatewayError
	switch {
	case errs.IsValidation(err),
		errors.Is(err, errs.ErrEmptyCart),
		errors.Is(err, errs.ErrNoValidItems),
		errors.Is(err, errs.ErrOrderDelivered):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errs.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, errs.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &gatewayErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
