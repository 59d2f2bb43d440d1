package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

func paramsFromQuery(t *testing.T, query string) *PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/reports?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantOrder string
	}{
		{"defaults", "", 1, DefaultPageSize, "desc"},
		{"explicit", "page=3&limit=50&order=asc", 3, 50, "asc"},
		{"limit clamped high", "limit=5000", 1, MaxPageSize, "desc"},
		{"page floor", "page=-2", 1, DefaultPageSize, "desc"},
		{"bad order falls back", "order=sideways", 1, DefaultPageSize, "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := paramsFromQuery(t, tt.query)
			if params.Page != tt.wantPage || params.Limit != tt.wantLimit || params.Order != tt.wantOrder {
				t.Errorf("got page=%d limit=%d order=%q, want page=%d limit=%d order=%q",
					params.Page, params.Limit, params.Order, tt.wantPage, tt.wantLimit, tt.wantOrder)
			}
		})
	}
}

func TestGetSearchFilter(t *testing.T) {
	params := &PaginationParams{Search: "bicycle"}

	filter := params.GetSearchFilter([]string{"title", "description"})
	conditions, ok := filter["$or"].([]bson.M)
	if !ok || len(conditions) != 2 {
		t.Fatalf("filter = %v, want $or over two fields", filter)
	}

	if empty := (&PaginationParams{}).GetSearchFilter([]string{"title"}); len(empty) != 0 {
		t.Errorf("empty search produced filter %v", empty)
	}
}

func TestCreatePaginationMeta(t *testing.T) {
	meta := CreatePaginationMeta(&PaginationParams{Page: 2, Limit: 20}, 41)
	if meta.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", meta.TotalPages)
	}
	if meta.CurrentPage != 2 || meta.TotalItems != 41 || meta.ItemsPerPage != 20 {
		t.Errorf("meta = %+v", meta)
	}
}
