package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/products", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_ExplicitValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/products?page=3&limit=25", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset)
}

func TestFromRequest_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric", "?page=abc&limit=xyz"},
		{"zero", "?page=0&limit=0"},
		{"negative", "?page=-1&limit=-5"},
		{"limit above max", "?limit=500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/products"+tt.query, nil)
			p := FromRequest(req)
			assert.Equal(t, 1, p.Page)
			assert.Equal(t, DefaultLimit, p.Limit)
		})
	}
}

func TestFromRequest_MaxLimitAccepted(t *testing.T) {
	req := httptest.NewRequest("GET", "/products?limit=100", nil)
	p := FromRequest(req)
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalCount int
		limit      int
		want       int
	}{
		{"empty", 0, 10, 0},
		{"exact fit", 20, 10, 2},
		{"partial last page", 15, 10, 2},
		{"single item", 1, 10, 1},
		{"zero limit", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.totalCount, tt.limit))
		})
	}
}
