package repository

import (
	"context"
	"errors"
	"fmt"

	"go-marketplace/errs"
	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository stores orders in the "orders" collection.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

func (r *MongoOrderRepository) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert order: %w", err)
	}
	id := result.InsertedID.(primitive.ObjectID)
	order.ID = id
	return id, nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByBuyer(ctx context.Context, buyerID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"user_id": buyerID})
}

func (r *MongoOrderRepository) FindByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"items.vendor_id": vendorID})
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("orders cursor: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	return r.set(ctx, id, bson.M{"status": status})
}

func (r *MongoOrderRepository) SetPaid(ctx context.Context, id primitive.ObjectID, paid bool) error {
	return r.set(ctx, id, bson.M{"payment": paid})
}

func (r *MongoOrderRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
