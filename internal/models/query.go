package models

import "math"

type SortField string

const (
	SortByPublication SortField = "publicationTime"
	SortByCreation    SortField = "creationTime"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxBatchSize    = 100
)

// Filters narrows a listing. Zero values mean "no constraint"; all set
// filters are combined with AND.
type Filters struct {
	Category  string `json:"category"`
	Merchant  string `json:"merchant"`
	HasCoupon *bool  `json:"hasCoupon"`
	OnlyValid bool   `json:"onlyValid"`
	Search    string `json:"search" validate:"max=200"`
}

// ActiveCount is the number of filters that constrain the result.
func (f Filters) ActiveCount() int {
	n := 0
	if f.Category != "" {
		n++
	}
	if f.Merchant != "" {
		n++
	}
	if f.HasCoupon != nil {
		n++
	}
	if f.OnlyValid {
		n++
	}
	if f.Search != "" {
		n++
	}
	return n
}

type QueryOptions struct {
	Page          int           `json:"page" validate:"min=1"`
	PageSize      int           `json:"pageSize" validate:"min=1,max=100"`
	SortField     SortField     `json:"sortField" validate:"oneof=publicationTime creationTime"`
	SortDirection SortDirection `json:"sortDirection" validate:"oneof=asc desc"`
}

// WithDefaults fills unset options: page 1, 20 per page, newest publication first.
func (o QueryOptions) WithDefaults() QueryOptions {
	if o.Page == 0 {
		o.Page = 1
	}
	if o.PageSize == 0 {
		o.PageSize = DefaultPageSize
	}
	if o.SortField == "" {
		o.SortField = SortByPublication
	}
	if o.SortDirection == "" {
		o.SortDirection = SortDesc
	}
	return o
}

// MaxPage is the largest page whose offset does not overflow.
func MaxPage(pageSize int) int {
	return math.MaxInt/pageSize + 1
}

func (o QueryOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// Page is one slice of a filtered listing.
type Page struct {
	Items      []OfferView `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
	PageSize   int         `json:"pageSize"`
}

// TotalPages is ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

type FilterOptions struct {
	Categories []string  `json:"categories"`
	Merchants  []string  `json:"merchants"`
	TipKinds   []TipKind `json:"tipKinds"`
}
