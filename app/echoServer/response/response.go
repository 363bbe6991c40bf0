// Package response writes the JSON envelope every /api route answers with.
package response

import "github.com/labstack/echo/v4"

const MsgInternal = "Something went wrong"

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Error   any    `json:"error,omitempty"`
}

func OK(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: msg, Data: data})
}

func Fail(c echo.Context, status int, msg string, detail any) error {
	return c.JSON(status, Envelope{Success: false, Message: msg, Error: detail})
}
