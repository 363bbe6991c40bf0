package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	BooksCollection   = "books"
	BorrowsCollection = "borrows"
)

// Client bundles the connection with the database the service works in.
// Multi-document transactions need a replica set or mongos; New turns txn off
// on a standalone server, and then WithinTx runs fn directly and Atomic
// reports false.
type Client struct {
	Client *mongo.Client
	DB     *mongo.Database
	txn    bool
}

func New(ctx context.Context, uri, dbName string, txn bool) (*Client, error) {
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if txn {
		if txn, err = supportsTxn(ctx, c); err != nil {
			_ = c.Disconnect(ctx)
			return nil, fmt.Errorf("mongo hello: %w", err)
		}
	}
	return &Client{Client: c, DB: c.Database(dbName), txn: txn}, nil
}

func supportsTxn(ctx context.Context, c *mongo.Client) (bool, error) {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	err := c.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	if err != nil {
		return false, err
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid", nil
}

func (m *Client) Books() *mongo.Collection   { return m.DB.Collection(BooksCollection) }
func (m *Client) Borrows() *mongo.Collection { return m.DB.Collection(BorrowsCollection) }

func (m *Client) Close(ctx context.Context) error { return m.Client.Disconnect(ctx) }

func (m *Client) EnsureIndexes(ctx context.Context) error {
	_, err := m.Books().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isbn", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("books_isbn_key"),
	})
	if err != nil {
		return fmt.Errorf("books isbn index: %w", err)
	}
	_, err = m.Borrows().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "book", Value: 1}},
		Options: options.Index().SetName("borrows_book_idx"),
	})
	if err != nil {
		return fmt.Errorf("borrows book index: %w", err)
	}
	return nil
}

func (m *Client) Atomic() bool { return m.txn }

func (m *Client) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.txn || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := m.Client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
