package repository

import (
	"strings"
	"time"

	"github.com/Cheertaboi/ofertas-service/internal/models"
)

// Predicate is one WHERE condition over the offers table (aliased o), with
// ? placeholders and its arguments in order.
type Predicate struct {
	SQL  string
	Args []any
}

// BuildPredicates turns filters into the condition list shared by the page
// query and the count query. It does not touch the database.
func BuildPredicates(f models.Filters, now time.Time) []Predicate {
	var preds []Predicate

	if f.Category != "" {
		preds = append(preds, Predicate{SQL: "o.category = ?", Args: []any{f.Category}})
	}
	if f.Merchant != "" {
		preds = append(preds, Predicate{SQL: "o.merchant = ?", Args: []any{f.Merchant}})
	}
	if f.HasCoupon != nil {
		if *f.HasCoupon {
			preds = append(preds, Predicate{SQL: "o.coupon_code IS NOT NULL"})
		} else {
			preds = append(preds, Predicate{SQL: "o.coupon_code IS NULL"})
		}
	}
	if f.OnlyValid {
		// upper bound only; the start of the window is not consulted here
		preds = append(preds, Predicate{
			SQL:  "NOT EXISTS (SELECT 1 FROM validity_windows v WHERE v.offer_id = o.id AND v.ends_at IS NOT NULL AND v.ends_at < ?)",
			Args: []any{formatTime(now)},
		})
	}
	if f.Search != "" {
		// search_text is lowercased in Go on write; SQLite's LOWER folds ASCII only
		preds = append(preds, Predicate{
			SQL:  `o.search_text LIKE ? ESCAPE '\'`,
			Args: []any{"%" + escapeLike(strings.ToLower(f.Search)) + "%"},
		})
	}

	return preds
}

// Where renders predicates as a WHERE clause joined with AND.
func Where(preds []Predicate) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(preds))
	var args []any
	for _, p := range preds {
		clauses = append(clauses, p.SQL)
		args = append(args, p.Args...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// OrderBy maps the sort options to columns, with id as a tie-breaker so
// pages are stable.
func OrderBy(o models.QueryOptions) string {
	col := "o.published_at"
	if o.SortField == models.SortByCreation {
		col = "o.created_at"
	}
	dir := "DESC"
	if o.SortDirection == models.SortAsc {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + ", o.id " + dir
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
