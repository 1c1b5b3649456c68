package repository

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/Cheertaboi/ofertas-service/internal/models"
)

func (r *OfferRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT category FROM offers WHERE category IS NOT NULL")
}

func (r *OfferRepo) DistinctMerchants(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT merchant FROM offers WHERE merchant IS NOT NULL")
}

func (r *OfferRepo) DistinctTipKinds(ctx context.Context) ([]models.TipKind, error) {
	values, err := r.distinct(ctx, "SELECT DISTINCT kind FROM community_tips WHERE kind IS NOT NULL")
	if err != nil {
		return nil, err
	}
	kinds := make([]models.TipKind, 0, len(values))
	for _, v := range values {
		kinds = append(kinds, models.TipKind(v))
	}
	return kinds, nil
}

func (r *OfferRepo) distinct(ctx context.Context, query string) ([]string, error) {
	values := []string{}
	err := r.each(ctx, query, nil, func(rows *sql.Rows) error {
		var v string
		if err := rows.Scan(&v); err != nil {
			return err
		}
		values = append(values, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("distinct values: %w", err)
	}
	// byte order, independent of the database collation
	slices.Sort(values)
	return values, nil
}
