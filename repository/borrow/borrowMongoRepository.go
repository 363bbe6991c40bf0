package borrowrepo

import (
	"context"
	"fmt"

	"libraryapi/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRepo struct {
	borrows *mongo.Collection
	books   string // collection name used by $lookup
}

func NewMongo(borrows, books *mongo.Collection) Repo {
	return &mongoRepo{borrows: borrows, books: books.Name()}
}

func (r *mongoRepo) Create(ctx context.Context, b *model.Borrow) error {
	if _, err := r.borrows.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert borrow: %w", err)
	}
	return nil
}

func (r *mongoRepo) DeleteByBook(ctx context.Context, bookID string) (int64, error) {
	res, err := r.borrows.DeleteMany(ctx, bson.M{"book": bookID})
	if err != nil {
		return 0, fmt.Errorf("delete borrows: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *mongoRepo) lookupBook() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         r.books,
		"localField":   "_id",
		"foreignField": "_id",
		"as":           "bookInfo",
	}}}
}

func (r *mongoRepo) Summary(ctx context.Context) ([]model.BorrowSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$book", "totalQuantity": bson.M{"$sum": "$quantity"}}}},
		r.lookupBook(),
		{{Key: "$unwind", Value: "$bookInfo"}},
		{{Key: "$project", Value: bson.M{
			"_id":           0,
			"book":          bson.M{"title": "$bookInfo.title", "isbn": "$bookInfo.isbn"},
			"totalQuantity": 1,
		}}},
		{{Key: "$sort", Value: bson.M{"totalQuantity": -1}}},
	}

	cursor, err := r.borrows.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("borrow summary: %w", err)
	}
	defer cursor.Close(ctx)

	out := []model.BorrowSummary{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return out, nil
}

func (r *mongoRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$book"}}},
		r.lookupBook(),
		{{Key: "$match", Value: bson.M{"bookInfo": bson.M{"$size": 0}}}},
	}
	cursor, err := r.borrows.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("find orphan borrows: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		BookID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode orphan borrows: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.BookID)
	}
	res, err := r.borrows.DeleteMany(ctx, bson.M{"book": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("delete orphan borrows: %w", err)
	}
	return res.DeletedCount, nil
}
