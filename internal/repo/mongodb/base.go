package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// keep the baseRepo implementation in sync with IRepository interface
var _ IRepository[models.Product] = (*baseRepo[models.Product])(nil)

type IEntity interface {
	CollectionName() string
}

type PaginateWithTotal[E any] struct {
	Total int64
	Data  []E
}

type IRepository[E IEntity] interface {
	Insert(ctx context.Context, entity E, opts ...*options.InsertOneOptions) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*E, error)
	FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*E, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, filter bson.M, opts ...*options.CountOptions) (int64, error)
	AggregateOne(ctx context.Context, pipeline mongo.Pipeline) (*E, error)
	PaginateWithTotal(ctx context.Context, filter bson.M, sort bson.D, limit int64, skip int64, stages ...bson.D) (*PaginateWithTotal[E], error)
}

type baseRepo[E IEntity] struct {
	coll *mongo.Collection
}

func newBaseRepo[E IEntity](dbc *mongo.Database) baseRepo[E] {
	var entity E
	return baseRepo[E]{
		coll: dbc.Collection(entity.CollectionName()),
	}
}

func (r *baseRepo[E]) Insert(ctx context.Context, entity E, opts ...*options.InsertOneOptions) (primitive.ObjectID, error) {
	result, err := r.coll.InsertOne(ctx, entity, opts...)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert one: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("invalid inserted id: %T %+v", result.InsertedID, result.InsertedID)
	}

	return oid, nil
}

func (r *baseRepo[E]) FindByID(ctx context.Context, id primitive.ObjectID) (*E, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *baseRepo[E]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*E, error) {
	var entity E
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepo[E]) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *baseRepo[E]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *baseRepo[E]) Count(ctx context.Context, filter bson.M, opts ...*options.CountOptions) (int64, error) {
	return r.coll.CountDocuments(ctx, filter, opts...)
}

func (r *baseRepo[E]) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]E, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	entities := []E{}
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepo[E]) AggregateOne(ctx context.Context, pipeline mongo.Pipeline) (*E, error) {
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: 1}})
	entities, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, models.ErrNotFound
	}
	return &entities[0], nil
}

// PaginateWithTotal runs the page query and the count over the same filter
// concurrently. Extra stages are appended after $skip/$limit, so they only
// touch the documents of the page.
func (r *baseRepo[E]) PaginateWithTotal(ctx context.Context, filter bson.M, sort bson.D, limit int64, skip int64, stages ...bson.D) (*PaginateWithTotal[E], error) {
	group, ctx := errgroup.WithContext(ctx)
	var entities []E
	var total int64

	group.Go(func() error {
		pipeline := mongo.Pipeline{{{Key: "$match", Value: filter}}}
		if len(sort) > 0 {
			pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
		}
		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: skip}},
			bson.D{{Key: "$limit", Value: limit}},
		)
		pipeline = append(pipeline, stages...)

		var err error
		entities, err = r.aggregate(ctx, pipeline)
		if err != nil {
			return fmt.Errorf("aggregate: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		var err error
		total, err = r.coll.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &PaginateWithTotal[E]{Total: total, Data: entities}, nil
}
