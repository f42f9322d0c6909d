package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

// MongoStore handles service catalog CRUD in MongoDB.
type MongoStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("services"), now: time.Now}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (s *MongoStore) Insert(ctx context.Context, svc *models.Service) (*models.Service, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	svc.ID = primitive.NilObjectID
	svc.CreatedAt = now
	svc.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("mongo insert: unexpected id type %T", res.InsertedID)
	}
	svc.ID = oid
	return svc, nil
}

// List returns up to limit services, newest first. limit <= 0 means no limit.
func (s *MongoStore) List(ctx context.Context, limit int64) ([]models.Service, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.find(ctx, bson.M{}, opts)
}

// Page returns page (1-based) of size perPage plus the full collection count.
func (s *MongoStore) Page(ctx context.Context, page, perPage int64) (*models.ServicePage, error) {
	opts := options.Find().
		SetSort(newestFirst).
		SetSkip((page - 1) * perPage).
		SetLimit(perPage)
	services, err := s.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo count: %w", err)
	}
	return &models.ServicePage{Services: services, Total: total}, nil
}

// Search matches term literally and case-insensitively in name or description.
func (s *MongoStore) Search(ctx context.Context, term string) ([]models.Service, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"description": pattern},
	}}
	return s.find(ctx, filter, options.Find().SetSort(newestFirst))
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Service, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("service", id)
	}
	var svc models.Service
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("service", id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	return &svc, nil
}

// Update applies upd and returns the post-update document.
func (s *MongoStore) Update(ctx context.Context, id string, upd models.ServiceUpdate) (*models.Service, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("service", id)
	}

	set := bson.M{
		"price":      upd.Price,
		"updated_at": s.now().UTC().Truncate(time.Millisecond),
	}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Img != nil {
		set["img"] = upd.Img
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var svc models.Service
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("service", id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo update: %w", err)
	}
	return &svc, nil
}

// Delete removes the service and returns the removed document, or nil when
// nothing matched. The service's image is left on the media host.
func (s *MongoStore) Delete(ctx context.Context, id string) (*models.Service, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var svc models.Service
	err = s.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo delete: %w", err)
	}
	return &svc, nil
}

func (s *MongoStore) find(ctx context.Context, filter any, opts *options.FindOptions) ([]models.Service, error) {
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	services := []models.Service{}
	if err := cur.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return services, nil
}
