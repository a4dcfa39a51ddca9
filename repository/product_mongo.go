package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sportsstore/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository keeps products in the `products` collection with
// integer ids drawn from the `counters` collection.
type MongoProductRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: db.Collection("products"),
		counters:   db.Collection("counters"),
	}
}

type mongoProduct struct {
	ID          int64                `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description,omitempty"`
	Category    string               `bson:"category,omitempty"`
	Price       primitive.Decimal128 `bson:"price"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func toMongo(p *models.Product) (mongoProduct, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return mongoProduct{}, fmt.Errorf("invalid price %s: %w", p.Price, err)
	}
	return mongoProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (mp mongoProduct) toModel() models.Product {
	p := models.Product{
		ID:          mp.ID,
		Name:        mp.Name,
		Description: mp.Description,
		Category:    mp.Category,
		CreatedAt:   mp.CreatedAt,
		UpdatedAt:   mp.UpdatedAt,
	}
	if price, err := decimal.NewFromString(mp.Price.String()); err == nil {
		p.Price = price
	}
	return p
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoProduct
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, nil
}

func (r *MongoProductRepository) Products(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var doc mongoProduct
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	p := doc.toModel()
	return &p, nil
}

func (r *MongoProductRepository) FindPage(ctx context.Context, category string, page, limit int) ([]models.Product, int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	products, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *MongoProductRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *MongoProductRepository) SaveProduct(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()

	if product.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return err
		}
		product.ID = id
		product.CreatedAt = now
		product.UpdatedAt = now
		doc, err := toMongo(product)
		if err != nil {
			return err
		}
		_, err = r.collection.InsertOne(ctx, doc)
		return err
	}

	price, err := primitive.ParseDecimal128(product.Price.String())
	if err != nil {
		return fmt.Errorf("invalid price %s: %w", product.Price, err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"category":    product.Category,
		"price":       price,
		"updated_at":  now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	product.UpdatedAt = now
	return nil
}

func (r *MongoProductRepository) DeleteProduct(ctx context.Context, id int64) (*models.Product, error) {
	var doc mongoProduct
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	p := doc.toModel()
	return &p, nil
}

func (r *MongoProductRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "products"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("product id sequence failed: %w", err)
	}
	return counter.Seq, nil
}
