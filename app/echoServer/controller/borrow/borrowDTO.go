package borrow

import (
	"errors"
	"strings"
	"time"
)

// CreateBorrowReq is the POST /api/borrow payload.
type CreateBorrowReq struct {
	Book     string `json:"book" validate:"required,notblank"`
	Quantity *int   `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	DueDate  string `json:"dueDate" validate:"required,notblank"`
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var errDueDate = errors.New("dueDate must be an ISO-8601 date")

// parseDueDate accepts a full timestamp or a plain date; values without a
// zone are read as UTC.
func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errDueDate
}
