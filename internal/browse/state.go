// Package browse holds the catalog browsing state of a client: filters,
// sorting, paging and the preferred view mode.
package browse

import (
	"net/url"
	"strconv"

	"github.com/Cheertaboi/ofertas-service/internal/models"
	"github.com/Cheertaboi/ofertas-service/internal/prefs"
)

type ViewMode string

const (
	Grid ViewMode = "grid"
	List ViewMode = "list"
)

// ViewModeKey is the preference key the view mode is stored under.
const ViewModeKey = "oferta-vista"

// State is owned by the caller and passed to whatever renders the catalog.
// Preferences are only read or written through Load and Save.
type State struct {
	Filters  models.Filters
	Options  models.QueryOptions
	ViewMode ViewMode
}

func New() *State {
	return &State{
		Options:  models.QueryOptions{}.WithDefaults(),
		ViewMode: Grid,
	}
}

// SetFilters replaces the filters and goes back to the first page.
func (s *State) SetFilters(f models.Filters) {
	s.Filters = f
	s.Options.Page = 1
}

func (s *State) ResetFilters() {
	s.SetFilters(models.Filters{})
}

// SetSorting changes the order and goes back to the first page.
func (s *State) SetSorting(field models.SortField, dir models.SortDirection) {
	s.Options.SortField = field
	s.Options.SortDirection = dir
	s.Options.Page = 1
}

func (s *State) ResetSorting() {
	s.SetSorting(models.SortByPublication, models.SortDesc)
}

func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Options.Page = page
}

func (s *State) SetPageSize(size int) {
	if size < 1 || size > models.MaxPageSize {
		size = models.DefaultPageSize
	}
	s.Options.PageSize = size
	s.Options.Page = 1
}

func (s *State) SetViewMode(m ViewMode) {
	if m == Grid || m == List {
		s.ViewMode = m
	}
}

func (s *State) ActiveFilterCount() int {
	return s.Filters.ActiveCount()
}

// Query renders the state as GET /offers parameters. Unset filters are
// omitted.
func (s *State) Query() url.Values {
	q := url.Values{}
	f := s.Filters
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Merchant != "" {
		q.Set("merchant", f.Merchant)
	}
	if f.HasCoupon != nil {
		q.Set("hasCoupon", strconv.FormatBool(*f.HasCoupon))
	}
	if f.OnlyValid {
		q.Set("onlyValid", "true")
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}

	o := s.Options.WithDefaults()
	q.Set("page", strconv.Itoa(o.Page))
	q.Set("pageSize", strconv.Itoa(o.PageSize))
	q.Set("sortField", string(o.SortField))
	q.Set("sortDirection", string(o.SortDirection))
	return q
}

// Load applies stored preferences. Unknown values are ignored.
func (s *State) Load(store prefs.Store) {
	if v, ok := store.Get(ViewModeKey); ok {
		s.SetViewMode(ViewMode(v))
	}
}

func (s *State) Save(store prefs.Store) error {
	return store.Set(ViewModeKey, string(s.ViewMode))
}
