// model/borrow.go
package model

import "time"

type Borrow struct {
	ID        string    `json:"id" bson:"_id"`
	BookID    string    `json:"book" bson:"book"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	DueDate   time.Time `json:"dueDate" bson:"dueDate"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type BorrowedBook struct {
	Title string `json:"title" bson:"title"`
	ISBN  string `json:"isbn" bson:"isbn"`
}

// BorrowSummary is one row of the borrowed-books report.
type BorrowSummary struct {
	Book          BorrowedBook `json:"book" bson:"book"`
	TotalQuantity int          `json:"totalQuantity" bson:"totalQuantity"`
}
