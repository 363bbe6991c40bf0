package bookrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepo struct{ coll *mongo.Collection }

func NewMongo(coll *mongo.Collection) Repo { return &mongoRepo{coll: coll} }

// Sort keys are the bson field names, which match the JSON ones.
var mongoSortFields = map[string]string{
	model.SortCreatedAt: "createdAt",
	model.SortUpdatedAt: "updatedAt",
	model.SortTitle:     "title",
	model.SortAuthor:    "author",
	model.SortGenre:     "genre",
	model.SortISBN:      "isbn",
	model.SortCopies:    "copies",
	model.SortAvailable: "available",
}

// availableUnlessEmpty is a pipeline stage run after copies changed.
var availableUnlessEmpty = bson.D{{Key: "$set", Value: bson.D{{Key: "available", Value: bson.M{
	"$cond": bson.A{bson.M{"$eq": bson.A{"$copies", 0}}, false, "$available"},
}}}}}

func (r *mongoRepo) Create(ctx context.Context, b *model.Book) error {
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *mongoRepo) List(ctx context.Context, q model.ListQuery) ([]model.Book, error) {
	field, ok := mongoSortFields[q.SortBy]
	if !ok {
		return nil, fmt.Errorf("unsupported sort field %q", q.SortBy)
	}
	dir := 1
	if q.Desc {
		dir = -1
	}

	filter := bson.M{}
	if q.Genre != "" {
		filter["genre"] = q.Genre
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cursor.Close(ctx)

	out := []model.Book{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return out, nil
}

func (r *mongoRepo) ByID(ctx context.Context, id string) (*model.Book, error) {
	var b model.Book
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &b, nil
}

func (r *mongoRepo) Update(ctx context.Context, id string, p model.BookPatch, now time.Time) (*model.Book, error) {
	// Values go through $literal so strings starting with "$" are not read as field paths.
	set := bson.D{{Key: "updatedAt", Value: now}}
	lit := func(k string, v interface{}) {
		set = append(set, bson.E{Key: k, Value: bson.M{"$literal": v}})
	}
	if p.Title != nil {
		lit("title", *p.Title)
	}
	if p.Author != nil {
		lit("author", *p.Author)
	}
	if p.Genre != nil {
		lit("genre", *p.Genre)
	}
	if p.ISBN != nil {
		lit("isbn", *p.ISBN)
	}
	if p.Description != nil {
		lit("description", *p.Description)
	}
	if p.Copies != nil {
		lit("copies", *p.Copies)
	}
	if p.Available != nil {
		lit("available", *p.Available)
	}

	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}, availableUnlessEmpty}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b model.Book
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&b)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, nil
	case mongo.IsDuplicateKeyError(err):
		return nil, ErrDuplicateISBN
	case err != nil:
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &b, nil
}

func (r *mongoRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoRepo) DecrementCopies(ctx context.Context, id string, qty int) (*model.Book, error) {
	filter := bson.M{"_id": id, "copies": bson.M{"$gte": qty}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "copies", Value: bson.M{"$subtract": bson.A{"$copies", qty}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		availableUnlessEmpty,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b model.Book
	err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decrement copies: %w", err)
	}
	return &b, nil
}

func (r *mongoRepo) IncrementCopies(ctx context.Context, id string, qty int, available bool) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"copies": qty},
		"$set": bson.M{"available": available, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("increment copies: %w", err)
	}
	return nil
}
