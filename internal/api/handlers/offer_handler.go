package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/ofertas-service/internal/models"
)

const (
	maxBodyBytes = 1 << 20
	qrSize       = 256
)

// OfferService is what the handlers need from the service layer.
type OfferService interface {
	SubmitOffers(ctx context.Context, inputs []models.OfferInput) ([]models.OfferView, error)
	ListOffers(ctx context.Context, f models.Filters, o models.QueryOptions) (models.Page, error)
	GetOffer(ctx context.Context, id string) (*models.OfferView, error)
	DeleteOffer(ctx context.Context, id string) (bool, error)
	ListFilterOptions(ctx context.Context) (models.FilterOptions, error)
	OfferQRCode(ctx context.Context, id string, size int) ([]byte, error)
}

type OfferHandler struct {
	service    OfferService
	production bool
}

func NewOfferHandler(svc OfferService, production bool) *OfferHandler {
	return &OfferHandler{service: svc, production: production}
}

// CreateOffers handles POST /offers with body {"items": [...]}.
func (h *OfferHandler) CreateOffers(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Validation failed", []models.FieldError{
			{Field: "body", Message: "must be a JSON object with an items array", Code: "invalid_json"},
		})
		return
	}

	views, err := h.service.SubmitOffers(r.Context(), req.Items)
	if err != nil {
		writeError(w, r, err, h.production)
		return
	}
	writeOK(w, http.StatusCreated, "Offers created successfully", views)
}

// ListOffers handles GET /offers.
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	filters, opts, err := ParseListQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err, h.production)
		return
	}

	page, err := h.service.ListOffers(r.Context(), filters, opts)
	if err != nil {
		writeError(w, r, err, h.production)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Offers retrieved successfully",
		Data:    page.Items,
		Pagination: &Pagination{
			Total:      page.Total,
			Page:       page.Page,
			TotalPages: page.TotalPages,
			PageSize:   page.PageSize,
		},
	})
}

// GetOffer handles GET /offers/{id}.
func (h *OfferHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.production)
		return
	}
	writeOK(w, http.StatusOK, "Offer retrieved successfully", view)
}

// DeleteOffer handles DELETE /offers/{id}.
func (h *OfferHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.DeleteOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.production)
		return
	}
	if !deleted {
		writeFail(w, http.StatusNotFound, "Offer not found", nil)
		return
	}
	writeOK(w, http.StatusOK, "Offer deleted successfully", nil)
}

// FilterOptions handles GET /offers/filter-options.
func (h *OfferHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.ListFilterOptions(r.Context())
	if err != nil {
		writeError(w, r, err, h.production)
		return
	}
	writeOK(w, http.StatusOK, "Filter options retrieved successfully", opts)
}

// OfferQR handles GET /offers/{id}/qr.png.
func (h *OfferHandler) OfferQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.OfferQRCode(r.Context(), chi.URLParam(r, "id"), qrSize)
	if err != nil {
		writeError(w, r, err, h.production)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// ParseListQuery reads filters and paging options from query parameters.
// Missing values are left zero for the service to default; malformed
// numbers and booleans are reported as field errors.
func ParseListQuery(q url.Values) (models.Filters, models.QueryOptions, error) {
	var (
		f    models.Filters
		o    models.QueryOptions
		errs models.ValidationErrors
	)

	f.Category = q.Get("category")
	f.Merchant = q.Get("merchant")
	f.Search = q.Get("search")

	if v := q.Get("hasCoupon"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, models.FieldError{Field: "hasCoupon", Message: "must be true or false", Code: "bool"})
		} else {
			f.HasCoupon = &b
		}
	}
	if v := q.Get("onlyValid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, models.FieldError{Field: "onlyValid", Message: "must be true or false", Code: "bool"})
		} else {
			f.OnlyValid = b
		}
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &o.Page}, {"pageSize", &o.PageSize}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, models.FieldError{Field: p.name, Message: "must be an integer", Code: "int"})
			continue
		}
		if n < 1 {
			errs = append(errs, models.FieldError{Field: p.name, Message: "must be at least 1", Code: "min"})
			continue
		}
		*p.dst = n
	}

	o.SortField = models.SortField(q.Get("sortField"))
	o.SortDirection = models.SortDirection(q.Get("sortDirection"))

	if len(errs) > 0 {
		return f, o, errs
	}
	return f, o, nil
}
