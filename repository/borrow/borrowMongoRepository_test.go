package borrowrepo

import (
	"context"
	"testing"
	"time"

	"libraryapi/model"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoBorrows(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		err := NewMongo(mt.Coll, mt.Coll).Create(ctx, &model.Borrow{
			ID: "r1", BookID: "b1", Quantity: 2, DueDate: time.Now().UTC(),
		})
		require.NoError(mt, err)
	})

	mt.Run("delete by book", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))
		n, err := NewMongo(mt.Coll, mt.Coll).DeleteByBook(ctx, "b1")
		require.NoError(mt, err)
		require.Equal(mt, int64(3), n)
	})

	mt.Run("summary", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "book", Value: bson.D{{Key: "title", Value: "B"}, {Key: "isbn", Value: "isbn-b"}}},
				{Key: "totalQuantity", Value: int32(10)},
			},
			bson.D{
				{Key: "book", Value: bson.D{{Key: "title", Value: "A"}, {Key: "isbn", Value: "isbn-a"}}},
				{Key: "totalQuantity", Value: int32(5)},
			},
		))

		got, err := NewMongo(mt.Coll, mt.Coll).Summary(ctx)
		require.NoError(mt, err)
		require.Equal(mt, []model.BorrowSummary{
			{Book: model.BorrowedBook{Title: "B", ISBN: "isbn-b"}, TotalQuantity: 10},
			{Book: model.BorrowedBook{Title: "A", ISBN: "isbn-a"}, TotalQuantity: 5},
		}, got)
	})

	mt.Run("summary empty", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := NewMongo(mt.Coll, mt.Coll).Summary(ctx)
		require.NoError(mt, err)
		require.NotNil(mt, got)
		require.Empty(mt, got)
	})

	mt.Run("delete orphans", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "gone-1"}, {Key: "bookInfo", Value: bson.A{}}},
				bson.D{{Key: "_id", Value: "gone-2"}, {Key: "bookInfo", Value: bson.A{}}},
			),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 4}),
		)

		n, err := NewMongo(mt.Coll, mt.Coll).DeleteOrphans(ctx)
		require.NoError(mt, err)
		require.Equal(mt, int64(4), n)
	})

	mt.Run("delete orphans none", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		n, err := NewMongo(mt.Coll, mt.Coll).DeleteOrphans(ctx)
		require.NoError(mt, err)
		require.Zero(mt, n)
	})
}
