package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Cheertaboi/ofertas-service/internal/models"
	"github.com/Cheertaboi/ofertas-service/pkg/db"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const offerColumns = `SELECT o.id, o.title, o.description, o.merchant, o.category, o.coupon_code,
		o.is_bug_deal, o.published_at, o.published_by, o.created_at, o.updated_at`

type OfferRepo struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewOfferRepo(conn *sql.DB, dialect db.Dialect) *OfferRepo {
	return &OfferRepo{db: conn, dialect: dialect}
}

// GetOffer loads one offer with its dependents.
func (r *OfferRepo) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(offerColumns+" FROM offers o WHERE o.id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("get offer: %w", err)
	}
	offers, err := scanOffers(rows)
	if err != nil {
		return nil, fmt.Errorf("get offer: %w", err)
	}
	if len(offers) == 0 {
		return nil, models.ErrOfferNotFound
	}

	if err := r.attachDependents(ctx, offers); err != nil {
		return nil, err
	}
	return &offers[0], nil
}

// ListOffers returns one page of offers matching f, sorted per o.
func (r *OfferRepo) ListOffers(ctx context.Context, f models.Filters, o models.QueryOptions, now time.Time) ([]models.Offer, error) {
	where, args := Where(BuildPredicates(f, now))
	query := offerColumns + " FROM offers o" + where + OrderBy(o) + " LIMIT ? OFFSET ?"
	args = append(args, o.PageSize, o.Offset())

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	offers, err := scanOffers(rows)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	if err := r.attachDependents(ctx, offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// CountOffers counts every offer matching f, ignoring pagination.
func (r *OfferRepo) CountOffers(ctx context.Context, f models.Filters, now time.Time) (int, error) {
	where, args := Where(BuildPredicates(f, now))

	var total int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT COUNT(*) FROM offers o"+where), args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return total, nil
}

// DeleteOffer removes the offer row; dependents go with it through the
// ON DELETE CASCADE foreign keys. Reports whether a row existed.
func (r *OfferRepo) DeleteOffer(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM offers WHERE id = ?"), id)
	if err != nil {
		return false, fmt.Errorf("delete offer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete offer: %w", err)
	}
	return n > 0, nil
}

// WithinTx runs fn against a writer bound to a fresh transaction. The
// transaction commits only if fn returns nil.
func (r *OfferRepo) WithinTx(ctx context.Context, fn func(OfferWriter) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&txWriter{tx: tx, dialect: r.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// scanOffers reads and closes rows.
func scanOffers(rows *sql.Rows) ([]models.Offer, error) {
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		var o models.Offer
		var coupon sql.NullString
		var publishedAt, createdAt, updatedAt string
		if err := rows.Scan(
			&o.ID,
			&o.Title,
			&o.Description,
			&o.Merchant,
			&o.Category,
			&coupon,
			&o.IsBugDeal,
			&publishedAt,
			&o.PublishedBy,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, err
		}

		var err error
		o.CouponCode = stringPtr(coupon)
		if o.PublishedAt, err = parseTime(publishedAt); err != nil {
			return nil, err
		}
		if o.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		o.Images = []string{}
		o.Tips = []models.CommunityTip{}

		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// attachDependents fills links, images, validity and tips for offers with
// one IN (...) query per dependent table.
func (r *OfferRepo) attachDependents(ctx context.Context, offers []models.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	byID := make(map[string]*models.Offer, len(offers))
	ids := make([]any, 0, len(offers))
	for i := range offers {
		byID[offers[i].ID] = &offers[i]
		ids = append(ids, offers[i].ID)
	}
	in := "(" + db.Placeholders(len(ids)) + ")"

	err := r.each(ctx, "SELECT offer_id, offer_url, thread_url FROM links WHERE offer_id IN "+in, ids, func(rows *sql.Rows) error {
		var id string
		var offerURL, threadURL sql.NullString
		if err := rows.Scan(&id, &offerURL, &threadURL); err != nil {
			return err
		}
		byID[id].Links = models.Links{OfferURL: stringPtr(offerURL), ThreadURL: stringPtr(threadURL)}
		return nil
	})
	if err != nil {
		return fmt.Errorf("load links: %w", err)
	}

	err = r.each(ctx, "SELECT offer_id, url FROM images WHERE offer_id IN "+in+" ORDER BY offer_id, position", ids, func(rows *sql.Rows) error {
		var id, url string
		if err := rows.Scan(&id, &url); err != nil {
			return err
		}
		byID[id].Images = append(byID[id].Images, url)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load images: %w", err)
	}

	err = r.each(ctx, "SELECT offer_id, starts_at, ends_at FROM validity_windows WHERE offer_id IN "+in, ids, func(rows *sql.Rows) error {
		var id string
		var start, end sql.NullString
		if err := rows.Scan(&id, &start, &end); err != nil {
			return err
		}
		w := &models.ValidityWindow{}
		var err error
		if w.Start, err = parseNullTime(start); err != nil {
			return err
		}
		if w.End, err = parseNullTime(end); err != nil {
			return err
		}
		byID[id].Validity = w
		return nil
	})
	if err != nil {
		return fmt.Errorf("load validity: %w", err)
	}

	err = r.each(ctx, "SELECT offer_id, kind, description, author FROM community_tips WHERE offer_id IN "+in+" ORDER BY offer_id, position", ids, func(rows *sql.Rows) error {
		var id string
		var tip models.CommunityTip
		if err := rows.Scan(&id, &tip.Kind, &tip.Description, &tip.Author); err != nil {
			return err
		}
		byID[id].Tips = append(byID[id].Tips, tip)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load tips: %w", err)
	}

	return nil
}

// each runs query and calls fn per row. Rows are closed before it returns,
// so the next statement can reuse the connection.
func (r *OfferRepo) each(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error {
	return eachRow(ctx, r.db, r.dialect, query, args, fn)
}

func eachRow(ctx context.Context, q querier, dialect db.Dialect, query string, args []any, fn func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, dialect.Rebind(query), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
