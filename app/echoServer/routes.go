package echoServer

import (
	"net/http"

	"libraryapi/app/echoServer/controller/book"
	"libraryapi/app/echoServer/controller/borrow"
	"libraryapi/app/echoServer/jwtx"
	jwtutil "libraryapi/util/jwt"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Book   *book.Controller
	Borrow *borrow.Controller
	// JWTSecret enables bearer auth on the write routes when set.
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	api := e.Group("/api")

	// Public
	api.GET("/books", c.Book.List)
	api.GET("/books/:bookId", c.Book.Detail)
	api.GET("/borrow", c.Borrow.Summary)

	// Writes
	var guard []echo.MiddlewareFunc
	if c.JWTSecret != "" {
		guard = append(guard,
			echojwt.WithConfig(echojwt.Config{
				SigningKey:    []byte(c.JWTSecret),
				ContextKey:    jwtx.ContextKey,
				NewClaimsFunc: func(echo.Context) jwt.Claims { return jwt.MapClaims{} },
				TokenLookup:   "header:Authorization:Bearer ",
				ErrorHandler: func(c echo.Context, err error) error {
					return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized").SetInternal(err)
				},
			}),
			RequireRole(jwtutil.RoleLibrarian),
		)
	}
	api.POST("/books", c.Book.Create, guard...)
	api.PUT("/books/:bookId", c.Book.Update, guard...)
	api.DELETE("/books/:bookId", c.Book.Delete, guard...)
	api.POST("/borrow", c.Borrow.Create, guard...)
}
