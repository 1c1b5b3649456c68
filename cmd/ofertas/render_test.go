package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Cheertaboi/ofertas-service/internal/api/handlers"
	"github.com/Cheertaboi/ofertas-service/internal/browse"
	"github.com/Cheertaboi/ofertas-service/internal/client"
	"github.com/Cheertaboi/ofertas-service/internal/models"
)

func sampleView() models.OfferView {
	end := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	days := 3
	return models.OfferView{
		Offer: models.Offer{
			ID:          "b3c1",
			Title:       "Monitor 27 pulgadas",
			Description: "IPS 144Hz",
			Merchant:    "PcComponentes",
			Category:    "Informática",
			CouponCode:  ptr("PC10"),
			PublishedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			PublishedBy: "lucia",
			Validity:    &models.ValidityWindow{End: &end},
			Tips:        []models.CommunityTip{{Kind: models.TipWarning, Description: "Solo envío peninsular", Author: "pablo"}},
		},
		Status: models.ValidityStatus{IsValid: true, DaysRemaining: &days, Label: "3 days left", Severity: models.SeverityWarning},
	}
}

func TestRenderPage_Modes(t *testing.T) {
	res := &client.ListResult{
		Items:      []models.OfferView{sampleView()},
		Pagination: handlers.Pagination{Total: 1, Page: 1, TotalPages: 1, PageSize: 20},
	}

	state := browse.New()
	var grid bytes.Buffer
	renderPage(&grid, state, res)
	assert.Contains(t, grid.String(), "+ Monitor 27 pulgadas")
	assert.Contains(t, grid.String(), "coupon: PC10")
	assert.Contains(t, grid.String(), "[warning] 3 days left")
	assert.Contains(t, grid.String(), "page 1/1, 1 offers")

	state.SetViewMode(browse.List)
	state.SetFilters(models.Filters{Merchant: "PcComponentes"})
	var list bytes.Buffer
	renderPage(&list, state, res)
	assert.Contains(t, list.String(), "1 active filter(s)")
	assert.Contains(t, list.String(), "b3c1  Monitor 27 pulgadas")
	assert.NotContains(t, list.String(), "coupon:")
}

func TestRenderPage_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderPage(&buf, browse.New(), &client.ListResult{})
	assert.Equal(t, "no offers found\n", buf.String())
}

func TestRenderDetail(t *testing.T) {
	var buf bytes.Buffer
	renderDetail(&buf, sampleView())
	out := buf.String()

	assert.Contains(t, out, "valid:      open to 2024-05-20")
	assert.Contains(t, out, "published:  2024-05-01 by lucia")
	assert.Contains(t, out, "[Warning] Solo envío peninsular (pablo)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 10))
	assert.Equal(t, "aspira…", truncate("aspiradora", 7))
}
