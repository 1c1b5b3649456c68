package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Cheertaboi/ofertas-service/internal/models"
	"github.com/Cheertaboi/ofertas-service/pkg/db"
)

func TestBuildPredicates_Empty(t *testing.T) {
	preds := BuildPredicates(models.Filters{}, time.Now())
	assert.Empty(t, preds)

	where, args := Where(preds)
	assert.Equal(t, "", where)
	assert.Nil(t, args)
}

func TestBuildPredicates_AllFilters(t *testing.T) {
	yes := true
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	preds := BuildPredicates(models.Filters{
		Category:  "Gaming",
		Merchant:  "PcComponentes",
		HasCoupon: &yes,
		OnlyValid: true,
		Search:    "RTX",
	}, now)
	assert.Len(t, preds, 5)

	where, args := Where(preds)
	assert.Contains(t, where, " WHERE o.category = ? AND o.merchant = ? AND o.coupon_code IS NOT NULL AND NOT EXISTS")
	assert.Contains(t, where, "v.ends_at < ?")
	assert.Contains(t, where, "o.search_text LIKE ?")
	assert.Equal(t, []any{
		"Gaming", "PcComponentes", "2024-05-01T12:00:00.000000Z", "%rtx%",
	}, args)
}

func TestBuildPredicates_HasCouponFalse(t *testing.T) {
	no := false
	preds := BuildPredicates(models.Filters{HasCoupon: &no}, time.Now())

	assert.Equal(t, []Predicate{{SQL: "o.coupon_code IS NULL"}}, preds)
}

func TestBuildPredicates_SearchEscapesWildcards(t *testing.T) {
	preds := BuildPredicates(models.Filters{Search: `50%_OFF\`}, time.Now())

	assert.Equal(t, `%50\%\_off\\%`, preds[0].Args[0])
}

func TestWhere_RebindsForPostgres(t *testing.T) {
	yes := true
	where, _ := Where(BuildPredicates(models.Filters{Category: "a", HasCoupon: &yes, Search: "x"}, time.Now()))

	q := db.Postgres.Rebind("SELECT COUNT(*) FROM offers o" + where)
	assert.Contains(t, q, "o.category = $1")
	assert.Contains(t, q, "o.search_text LIKE $2 ESCAPE '\\'")
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, " ORDER BY o.published_at DESC, o.id DESC", OrderBy(models.QueryOptions{}.WithDefaults()))
	assert.Equal(t, " ORDER BY o.created_at ASC, o.id ASC",
		OrderBy(models.QueryOptions{SortField: models.SortByCreation, SortDirection: models.SortAsc}))
}
