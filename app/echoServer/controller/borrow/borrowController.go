package borrow

import (
	"log/slog"
	"net/http"

	"libraryapi/app/echoServer/jwtx"
	"libraryapi/app/echoServer/response"
	"libraryapi/app/echoServer/validation"
	bs "libraryapi/service/borrow"
	"libraryapi/service/svcerr"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bs.Service
	V   *validation.Validator
	Log *slog.Logger
}

// Create borrows copies of a book.
// @Summary      Borrow a book
// @Tags         borrow
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateBorrowReq  true  "Borrow"
// @Success      201  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope "book not found"
// @Failure      500  {object}  response.Envelope "not enough copies"
// @Router       /api/borrow [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateBorrowReq
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}
	if err := h.V.Validate(req); err != nil {
		if d, ok := validation.Describe(err); ok {
			return response.Fail(c, http.StatusBadRequest, "Validation failed", d)
		}
		return response.Fail(c, http.StatusBadRequest, err.Error(), nil)
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Validation failed",
			validation.Field("dueDate", "date", err.Error(), req.DueDate))
	}

	out, err := h.Svc.Borrow(c.Request().Context(), bs.Input{
		BookID:   req.Book,
		Quantity: *req.Quantity,
		DueDate:  due,
	})
	if err != nil {
		switch svcerr.Code(err) {
		case svcerr.ErrValidation:
			return response.Fail(c, http.StatusBadRequest, err.Error(), nil)
		case svcerr.ErrBookNotFound:
			return response.Fail(c, http.StatusNotFound, err.Error(), nil)
		case svcerr.ErrInsufficientInventory:
			h.Log.Warn("borrow rejected", "book_id", req.Book, "quantity", *req.Quantity, "err", err)
			return response.Fail(c, http.StatusInternalServerError, err.Error(), nil)
		default:
			h.Log.Error("borrow create", "err", err)
			return response.Fail(c, http.StatusInternalServerError, response.MsgInternal, nil)
		}
	}

	h.Log.Info("book borrowed", "borrow_id", out.ID, "book_id", out.BookID,
		"quantity", out.Quantity, "by", jwtx.Subject(c))
	return response.OK(c, http.StatusCreated, "Book borrowed successfully", out)
}

// Summary aggregates borrowed quantities per book.
// @Summary      Borrowed books summary
// @Tags         borrow
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /api/borrow [get]
func (h *Controller) Summary(c echo.Context) error {
	rows, err := h.Svc.Summary(c.Request().Context())
	if err != nil {
		h.Log.Error("borrow summary", "err", err)
		return response.Fail(c, http.StatusInternalServerError, response.MsgInternal, nil)
	}
	return response.OK(c, http.StatusOK, "Borrowed books summary retrieved successfully", rows)
}
