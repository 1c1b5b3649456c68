package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Cheertaboi/ofertas-service/internal/models"
	"github.com/Cheertaboi/ofertas-service/pkg/db"
)

// OfferWriter inserts one offer and its dependent rows. Implementations are
// bound to a single transaction; see OfferRepo.WithinTx.
type OfferWriter interface {
	InsertOffer(ctx context.Context, o *models.Offer) error
	InsertLinks(ctx context.Context, offerID string, l models.Links) error
	InsertImages(ctx context.Context, offerID string, urls []string) error
	InsertValidity(ctx context.Context, offerID string, w models.ValidityWindow) error
	InsertTips(ctx context.Context, offerID string, tips []models.CommunityTip) error
}

type txWriter struct {
	tx      *sql.Tx
	dialect db.Dialect
}

// InsertOffer writes the offer row and reads its id back.
func (w *txWriter) InsertOffer(ctx context.Context, o *models.Offer) error {
	query := `
		INSERT INTO offers
		(id, title, description, merchant, category, coupon_code, is_bug_deal,
		 published_at, published_by, search_text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	return w.tx.QueryRowContext(ctx, w.dialect.Rebind(query),
		o.ID,
		o.Title,
		o.Description,
		o.Merchant,
		o.Category,
		nullString(o.CouponCode),
		o.IsBugDeal,
		formatTime(o.PublishedAt),
		o.PublishedBy,
		searchText(o),
		formatTime(o.CreatedAt),
		formatTime(o.UpdatedAt),
	).Scan(&o.ID)
}

func (w *txWriter) InsertLinks(ctx context.Context, offerID string, l models.Links) error {
	query := `INSERT INTO links (offer_id, offer_url, thread_url) VALUES (?, ?, ?)`
	_, err := w.tx.ExecContext(ctx, w.dialect.Rebind(query), offerID, nullString(l.OfferURL), nullString(l.ThreadURL))
	return err
}

func (w *txWriter) InsertImages(ctx context.Context, offerID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	values := make([]string, 0, len(urls))
	args := make([]any, 0, len(urls)*3)
	for i, u := range urls {
		values = append(values, "(?, ?, ?)")
		args = append(args, offerID, i, u)
	}
	query := "INSERT INTO images (offer_id, position, url) VALUES " + strings.Join(values, ", ")
	_, err := w.tx.ExecContext(ctx, w.dialect.Rebind(query), args...)
	return err
}

func (w *txWriter) InsertValidity(ctx context.Context, offerID string, v models.ValidityWindow) error {
	query := `INSERT INTO validity_windows (offer_id, starts_at, ends_at) VALUES (?, ?, ?)`
	_, err := w.tx.ExecContext(ctx, w.dialect.Rebind(query), offerID, formatTimePtr(v.Start), formatTimePtr(v.End))
	return err
}

func (w *txWriter) InsertTips(ctx context.Context, offerID string, tips []models.CommunityTip) error {
	if len(tips) == 0 {
		return nil
	}
	values := make([]string, 0, len(tips))
	args := make([]any, 0, len(tips)*5)
	for i, t := range tips {
		values = append(values, "(?, ?, ?, ?, ?)")
		args = append(args, offerID, i, string(t.Kind), t.Description, t.Author)
	}
	query := "INSERT INTO community_tips (offer_id, position, kind, description, author) VALUES " + strings.Join(values, ", ")
	_, err := w.tx.ExecContext(ctx, w.dialect.Rebind(query), args...)
	return err
}

// searchText is the lowercased haystack for text search. Fields are joined
// with a newline so a match cannot straddle two of them.
func searchText(o *models.Offer) string {
	return strings.ToLower(strings.Join([]string{o.Title, o.Description, o.Merchant, o.PublishedBy}, "\n"))
}
