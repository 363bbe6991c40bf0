package book

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"libraryapi/app/echoServer/jwtx"
	"libraryapi/app/echoServer/response"
	"libraryapi/app/echoServer/validation"
	"libraryapi/model"
	booksvc "libraryapi/service/book"
	"libraryapi/service/svcerr"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
	V   *validation.Validator
	Log *slog.Logger
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch svcerr.Code(err) {
	case svcerr.ErrValidation:
		return response.Fail(c, http.StatusBadRequest, err.Error(), nil)
	case svcerr.ErrBookNotFound:
		return response.Fail(c, http.StatusNotFound, err.Error(), nil)
	case svcerr.ErrDuplicateISBN:
		return response.Fail(c, http.StatusConflict, err.Error(), nil)
	}
	h.Log.Error(op, "err", err, "path", c.Path())
	return response.Fail(c, http.StatusInternalServerError, response.MsgInternal, nil)
}

func (h *Controller) invalid(c echo.Context, err error) error {
	if d, ok := validation.Describe(err); ok {
		return response.Fail(c, http.StatusBadRequest, "Validation failed", d)
	}
	return h.fail(c, "validate", err)
}

// Create adds a book.
// @Summary      Create book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateBookReq  true  "Book"
// @Success      201  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Failure      409  {object}  response.Envelope "isbn already exists"
// @Router       /api/books [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}
	if err := h.V.Validate(req); err != nil {
		return h.invalid(c, err)
	}

	b, err := h.Svc.Create(c.Request().Context(), req.input())
	if err != nil {
		return h.fail(c, "book create", err)
	}
	return response.OK(c, http.StatusCreated, "Book created successfully", b)
}

// List returns books.
// @Summary      List books
// @Tags         books
// @Produce      json
// @Param        filter  query  string  false  "genre, case-insensitive"
// @Param        sortBy  query  string  false  "field name"  default(createdAt)
// @Param        sort    query  string  false  "asc or desc" default(asc)
// @Param        limit   query  int     false  "max results" default(10)
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Router       /api/books [get]
func (h *Controller) List(c echo.Context) error {
	q := model.ListQuery{
		Genre:  model.ParseGenre(c.QueryParam("filter")),
		SortBy: c.QueryParam("sortBy"),
		Limit:  model.DefaultListLimit,
	}
	if q.SortBy == "" {
		q.SortBy = model.SortCreatedAt
	}

	switch strings.ToLower(c.QueryParam("sort")) {
	case "", "asc":
	case "desc":
		q.Desc = true
	default:
		return response.Fail(c, http.StatusBadRequest, "sort must be asc or desc", nil)
	}

	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return response.Fail(c, http.StatusBadRequest, "limit must be a positive integer", nil)
		}
		q.Limit = n
	}

	books, err := h.Svc.List(c.Request().Context(), q)
	if err != nil {
		return h.fail(c, "book list", err)
	}
	return response.OK(c, http.StatusOK, "Books retrieved successfully", books)
}

// Detail returns one book, or null data when it does not exist.
// @Summary      Get book
// @Tags         books
// @Produce      json
// @Param        bookId  path  string  true  "Book ID"
// @Success      200  {object}  response.Envelope
// @Router       /api/books/{bookId} [get]
func (h *Controller) Detail(c echo.Context) error {
	b, err := h.Svc.Get(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return h.fail(c, "book detail", err)
	}
	return response.OK(c, http.StatusOK, "Book retrieved successfully", b)
}

// Update changes the given fields of a book.
// @Summary      Update book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        bookId   path  string         true  "Book ID"
// @Param        payload  body  UpdateBookReq  true  "Fields to change"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Failure      409  {object}  response.Envelope
// @Router       /api/books/{bookId} [put]
func (h *Controller) Update(c echo.Context) error {
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}
	if err := h.V.Validate(req); err != nil {
		return h.invalid(c, err)
	}

	b, err := h.Svc.Update(c.Request().Context(), c.Param("bookId"), req.patch())
	if err != nil {
		return h.fail(c, "book update", err)
	}
	return response.OK(c, http.StatusOK, "Book updated successfully", b)
}

// Delete removes a book and its borrow records.
// @Summary      Delete book
// @Tags         books
// @Produce      json
// @Param        bookId  path  string  true  "Book ID"
// @Success      200  {object}  response.Envelope
// @Router       /api/books/{bookId} [delete]
func (h *Controller) Delete(c echo.Context) error {
	id := c.Param("bookId")
	out, err := h.Svc.Delete(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "book delete", err)
	}
	if out.Book {
		h.Log.Info("book deleted", "book_id", id, "borrows_deleted", out.Borrows, "by", jwtx.Subject(c))
	}
	return response.OK(c, http.StatusOK, "Book deleted successfully", nil)
}
