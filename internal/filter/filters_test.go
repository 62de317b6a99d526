package filter

import (
	"testing"

	"github.com/nexaread/backend/internal/validator"
)

func TestCalculateMetadata(t *testing.T) {
	tests := []struct {
		name          string
		totalArticles int64
		pageSize      int64
		wantPages     int64
	}{
		{"empty", 0, 6, 0},
		{"single partial page", 4, 6, 1},
		{"exact page", 6, 6, 1},
		{"one over", 7, 6, 2},
		{"feed page size", 17, 8, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := CalculateMetadata(tt.totalArticles, tt.pageSize)
			if metadata.TotalPages != tt.wantPages {
				t.Fatalf("got %d total pages, want %d", metadata.TotalPages, tt.wantPages)
			}
			if metadata.TotalArticles != tt.totalArticles {
				t.Fatalf("got %d total articles, want %d", metadata.TotalArticles, tt.totalArticles)
			}
		})
	}
}

func TestHasMore(t *testing.T) {
	metadata := CalculateMetadata(17, 8) // 3 pages

	if !metadata.HasMore(1) {
		t.Fatal("page 1 of 3 should have more")
	}
	if !metadata.HasMore(2) {
		t.Fatal("page 2 of 3 should have more")
	}
	if metadata.HasMore(3) {
		t.Fatal("page 3 of 3 should not have more")
	}

	empty := CalculateMetadata(0, 8)
	if empty.HasMore(1) {
		t.Fatal("empty listing should not have more")
	}
}

func TestFilterOffset(t *testing.T) {
	filters := NewFilter(3, OwnArticlesPageSize)

	if filters.Limit() != 6 {
		t.Fatalf("got limit %d, want 6", filters.Limit())
	}
	if filters.Offset() != 12 {
		t.Fatalf("got offset %d, want 12", filters.Offset())
	}
}

func TestValidateFilters(t *testing.T) {
	v := validator.New()
	ValidateFilters(NewFilter(0, DiscoveryFeedPageSize), v)
	if v.IsValid() {
		t.Fatal("page 0 should be rejected")
	}

	v = validator.New()
	ValidateFilters(NewFilter(1, DiscoveryFeedPageSize), v)
	if !v.IsValid() {
		t.Fatalf("valid filter rejected: %v", v.Errors)
	}
}
