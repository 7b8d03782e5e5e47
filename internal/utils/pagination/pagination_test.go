package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, Limit: 10, Offset: 0}},
		{"?page=3&limit=20", Pagination{Page: 3, Limit: 20, Offset: 40}},
		{"?page=-1&limit=abc", Pagination{Page: 1, Limit: 10, Offset: 0}},
		{"?limit=1000", Pagination{Page: 1, Limit: 100, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got Pagination
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				got = ParseFromRequest(c)
				return nil
			})
			_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponse(t *testing.T) {
	meta := Response(Pagination{Page: 1, Limit: 10, Total: 21}, nil)["meta"].(fiber.Map)
	assert.Equal(t, int64(3), meta["total_pages"])
}
