// Package docs holds the OpenAPI document served under /swagger. It is
// maintained by hand; keep it in step with the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/books": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "List books",
                "parameters": [
                    {"type": "string", "description": "genre, case-insensitive", "name": "filter", "in": "query"},
                    {"type": "string", "default": "createdAt", "description": "field name", "name": "sortBy", "in": "query"},
                    {"type": "string", "default": "asc", "description": "asc or desc", "name": "sort", "in": "query"},
                    {"type": "integer", "default": 10, "description": "max results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Create book",
                "parameters": [
                    {"description": "Book", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/book.CreateBookReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "isbn already exists", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/api/books/{bookId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Get book",
                "parameters": [
                    {"type": "string", "description": "Book ID", "name": "bookId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Update book",
                "parameters": [
                    {"type": "string", "description": "Book ID", "name": "bookId", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/book.UpdateBookReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Delete book",
                "parameters": [
                    {"type": "string", "description": "Book ID", "name": "bookId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/api/borrow": {
            "get": {
                "produces": ["application/json"],
                "tags": ["borrow"],
                "summary": "Borrowed books summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["borrow"],
                "summary": "Borrow a book",
                "parameters": [
                    {"description": "Borrow", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/borrow.CreateBorrowReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "book not found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "not enough copies", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "book.CreateBookReq": {
            "type": "object",
            "required": ["author", "copies", "genre", "isbn", "title"],
            "properties": {
                "author": {"type": "string"},
                "available": {"type": "boolean"},
                "copies": {"type": "integer", "minimum": 0, "maximum": 2147483647},
                "description": {"type": "string"},
                "genre": {"type": "string", "enum": ["FICTION", "NON_FICTION", "SCIENCE", "HISTORY", "BIOGRAPHY", "FANTASY"]},
                "isbn": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "book.UpdateBookReq": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "available": {"type": "boolean"},
                "copies": {"type": "integer", "minimum": 0, "maximum": 2147483647},
                "description": {"type": "string"},
                "genre": {"type": "string", "enum": ["FICTION", "NON_FICTION", "SCIENCE", "HISTORY", "BIOGRAPHY", "FANTASY"]},
                "isbn": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "borrow.CreateBorrowReq": {
            "type": "object",
            "required": ["book", "dueDate", "quantity"],
            "properties": {
                "book": {"type": "string"},
                "dueDate": {"type": "string", "format": "date-time"},
                "quantity": {"type": "integer", "minimum": 1, "maximum": 2147483647}
            }
        },
        "response.Envelope": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Use:  Bearer <JWT>",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Library Management API",
	Description:      "Books catalogue and borrowing service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
