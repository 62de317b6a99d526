package filter

import "github.com/nexaread/backend/internal/validator"

// Page sizes are fixed per listing: the own-article listing shows 6 per
// page, the discovery feed 8.
const (
	OwnArticlesPageSize   = 6
	DiscoveryFeedPageSize = 8
)

type Filter struct {
	Page     int64
	PageSize int64
}

type Metadata struct {
	TotalArticles int64 `json:"totalArticles"`
	TotalPages    int64 `json:"totalPages"`
}

func NewFilter(page, pageSize int64) Filter {
	return Filter{
		Page:     page,
		PageSize: pageSize,
	}
}

func (f Filter) Limit() int64 {
	return f.PageSize
}

func (f Filter) Offset() int64 {
	return (f.Page - 1) * f.PageSize
}

// CalculateMetadata derives the page totals for a listing.
func CalculateMetadata(totalArticles, pageSize int64) Metadata {
	if totalArticles == 0 {
		return Metadata{}
	}

	totalPages := (totalArticles + pageSize - 1) / pageSize
	return Metadata{
		TotalArticles: totalArticles,
		TotalPages:    totalPages,
	}
}

// HasMore reports whether pages beyond the requested one exist.
func (m Metadata) HasMore(page int64) bool {
	return m.TotalPages > page
}

func ValidateFilters(filters Filter, v *validator.Validator) {
	v.Check(filters.Page > 0, "page", "must be greater than 0")
	v.Check(filters.Page <= 10_000_000, "page", "must be a maximum of 10_000_000")
	v.Check(filters.PageSize > 0, "pageSize", "must be greater than 0")
	v.Check(filters.PageSize <= 100, "pageSize", "must be a maximum of 100")
}
