package docs

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRenders(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths       map[string]map[string]any `json:"paths"`
		Definitions map[string]any            `json:"definitions"`
	}
	require.NoError(t, jsoniter.Unmarshal([]byte(raw), &doc), raw)
	require.Equal(t, "Library Management API", doc.Info.Title)

	require.Contains(t, doc.Paths, "/api/books")
	require.Contains(t, doc.Paths, "/api/books/{bookId}")
	require.Contains(t, doc.Paths["/api/borrow"], "post")
	for _, name := range []string{"book.CreateBookReq", "book.UpdateBookReq", "borrow.CreateBorrowReq", "response.Envelope"} {
		require.Contains(t, doc.Definitions, name)
	}
}
