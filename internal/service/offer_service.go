package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Cheertaboi/ofertas-service/internal/concurrency"
	"github.com/Cheertaboi/ofertas-service/internal/models"
	"github.com/Cheertaboi/ofertas-service/internal/repository"
	"github.com/Cheertaboi/ofertas-service/internal/validity"
	"github.com/Cheertaboi/ofertas-service/pkg/clock"
)

// OfferStore is the persistence the service needs (interface to allow mocking).
type OfferStore interface {
	WithinTx(ctx context.Context, fn func(repository.OfferWriter) error) error
	GetOffer(ctx context.Context, id string) (*models.Offer, error)
	ListOffers(ctx context.Context, f models.Filters, o models.QueryOptions, now time.Time) ([]models.Offer, error)
	CountOffers(ctx context.Context, f models.Filters, now time.Time) (int, error)
	DeleteOffer(ctx context.Context, id string) (bool, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctMerchants(ctx context.Context) ([]string, error)
	DistinctTipKinds(ctx context.Context) ([]models.TipKind, error)
}

type OfferService struct {
	store OfferStore
	clock clock.Clock
	newID func() string
}

func NewOfferService(store OfferStore, clk clock.Clock) *OfferService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &OfferService{
		store: store,
		clock: clk,
		newID: uuid.NewString,
	}
}

// SubmitOffers validates the batch, then writes each offer in order. Each
// offer and its dependents share one transaction. The first failure stops
// the batch; offers written before it stay written and no partial result is
// returned.
func (s *OfferService) SubmitOffers(ctx context.Context, inputs []models.OfferInput) ([]models.OfferView, error) {
	if err := models.ValidateOffers(inputs); err != nil {
		return nil, err
	}

	views := make([]models.OfferView, 0, len(inputs))
	for i, in := range inputs {
		id, err := s.submit(ctx, in)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Int("written", len(views)).Msg("offer batch stopped")
			return nil, fmt.Errorf("offer %d: %w", i, err)
		}

		view, err := s.GetOffer(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("offer %d: read back: %w", i, err)
		}
		views = append(views, *view)

		log.Info().Str("offer_id", id).Str("merchant", in.Merchant).Msg("offer created")
	}
	return views, nil
}

func (s *OfferService) submit(ctx context.Context, in models.OfferInput) (string, error) {
	offer, err := in.Draft()
	if err != nil {
		return "", err
	}
	now := s.clock.Now()
	offer.ID = s.newID()
	offer.CreatedAt = now
	offer.UpdatedAt = now

	err = s.store.WithinTx(ctx, func(w repository.OfferWriter) error {
		if err := w.InsertOffer(ctx, &offer); err != nil {
			return fmt.Errorf("create offer: %w", err)
		}
		if err := w.InsertLinks(ctx, offer.ID, offer.Links); err != nil {
			return fmt.Errorf("create links: %w", err)
		}
		if len(offer.Images) > 0 {
			if err := w.InsertImages(ctx, offer.ID, offer.Images); err != nil {
				return fmt.Errorf("create images: %w", err)
			}
		}
		if offer.Validity != nil {
			if err := w.InsertValidity(ctx, offer.ID, *offer.Validity); err != nil {
				return fmt.Errorf("create validity window: %w", err)
			}
		}
		if len(offer.Tips) > 0 {
			if err := w.InsertTips(ctx, offer.ID, offer.Tips); err != nil {
				return fmt.Errorf("create tips: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return offer.ID, nil
}

// ListOffers returns one page of the filtered catalog plus totals. Data and
// count use the same predicates but are separate reads.
func (s *OfferService) ListOffers(ctx context.Context, f models.Filters, o models.QueryOptions) (models.Page, error) {
	o = o.WithDefaults()
	if err := models.ValidateQuery(f, o); err != nil {
		return models.Page{}, err
	}

	now := s.clock.Now()
	offers, err := s.store.ListOffers(ctx, f, o, now)
	if err != nil {
		return models.Page{}, err
	}
	total, err := s.store.CountOffers(ctx, f, now)
	if err != nil {
		return models.Page{}, err
	}

	items := make([]models.OfferView, 0, len(offers))
	for _, offer := range offers {
		items = append(items, view(offer, now))
	}

	return models.Page{
		Items:      items,
		Total:      total,
		Page:       o.Page,
		TotalPages: models.TotalPages(total, o.PageSize),
		PageSize:   o.PageSize,
	}, nil
}

func (s *OfferService) GetOffer(ctx context.Context, id string) (*models.OfferView, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	offer, err := s.store.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	v := view(*offer, s.clock.Now())
	return &v, nil
}

// DeleteOffer reports whether the offer existed.
func (s *OfferService) DeleteOffer(ctx context.Context, id string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	deleted, err := s.store.DeleteOffer(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		log.Info().Str("offer_id", id).Msg("offer deleted")
	}
	return deleted, nil
}

// ListFilterOptions reads the three distinct-value lists in parallel. One
// failing read fails the call. Nothing is cached.
func (s *OfferService) ListFilterOptions(ctx context.Context) (models.FilterOptions, error) {
	var opts models.FilterOptions
	err := concurrency.FanOut(ctx,
		func(ctx context.Context) (err error) {
			opts.Categories, err = s.store.DistinctCategories(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			opts.Merchants, err = s.store.DistinctMerchants(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			opts.TipKinds, err = s.store.DistinctTipKinds(ctx)
			return err
		},
	)
	if err != nil {
		return models.FilterOptions{}, fmt.Errorf("filter options: %w", err)
	}
	return opts, nil
}

// OfferQRCode renders a PNG QR code pointing at the offer's external URL,
// or its discussion thread when there is none.
func (s *OfferService) OfferQRCode(ctx context.Context, id string, size int) ([]byte, error) {
	offer, err := s.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}

	target := offer.Links.OfferURL
	if target == nil {
		target = offer.Links.ThreadURL
	}
	if target == nil {
		return nil, models.ErrNoLinkForOffer
	}

	png, err := qrcode.Encode(*target, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

func view(o models.Offer, now time.Time) models.OfferView {
	return models.OfferView{Offer: o, Status: validity.Compute(o.Validity, now)}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", models.ErrInvalidOfferID, id)
	}
	return nil
}
