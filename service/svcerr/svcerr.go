// Package svcerr holds the coded errors services return to controllers.
package svcerr

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	ErrValidation            ErrCode = "VALIDATION"
	ErrBookNotFound          ErrCode = "BOOK_NOT_FOUND"
	ErrInsufficientInventory ErrCode = "INSUFFICIENT_INVENTORY"
	ErrDuplicateISBN         ErrCode = "DUPLICATE_ISBN"
)

type codedError struct {
	code  ErrCode
	msg   string
	cause error
}

func (e codedError) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return e.msg
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.cause }

// New returns an error carrying code and a user-facing message.
func New(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

func Newf(c ErrCode, format string, args ...any) error {
	return codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

func Wrap(c ErrCode, msg string, cause error) error {
	return codedError{code: c, msg: msg, cause: cause}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
