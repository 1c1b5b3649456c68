package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/ofertas-service/internal/api"
	"github.com/Cheertaboi/ofertas-service/internal/browse"
	"github.com/Cheertaboi/ofertas-service/internal/models"
	"github.com/Cheertaboi/ofertas-service/internal/repository"
	"github.com/Cheertaboi/ofertas-service/internal/service"
	"github.com/Cheertaboi/ofertas-service/pkg/clock"
	"github.com/Cheertaboi/ofertas-service/pkg/db"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	conn, dialect, err := db.Open(context.Background(), "file:client_"+t.Name()+"?mode=memory&cache=shared", 1)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	svc := service.NewOfferService(repository.NewOfferRepo(conn, dialect), clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
	srv := httptest.NewServer(api.NewRouter(svc, api.Options{Version: "test"}))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func in(title, merchant string, coupon *string) models.OfferInput {
	return models.OfferInput{
		Title:       title,
		Description: "desc",
		Merchant:    merchant,
		Category:    "Hogar",
		CouponCode:  coupon,
		PublishedAt: "2024-04-30T08:00:00Z",
		PublishedBy: "sara",
	}
}

func TestClient_BrowseFlow(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	code := "HOGAR5"
	views, err := c.SubmitOffers(ctx, []models.OfferInput{
		in("Robot aspirador", "Amazon", &code),
		in("Freidora de aire", "MediaMarkt", nil),
		in("Sartenes", "Amazon", nil),
	})
	require.NoError(t, err)
	require.Len(t, views, 3)

	state := browse.New()
	state.SetFilters(models.Filters{Merchant: "Amazon"})
	state.SetPageSize(1)

	res, err := c.ListOffers(ctx, state.Query())
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.TotalPages)

	state.SetPage(2)
	res, err = c.ListOffers(ctx, state.Query())
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Pagination.Page)

	opts, err := c.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amazon", "MediaMarkt"}, opts.Merchants)

	got, err := c.GetOffer(ctx, views[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "HOGAR5", *got.CouponCode)

	require.NoError(t, c.DeleteOffer(ctx, views[0].ID))
	_, err = c.GetOffer(ctx, views[0].ID)
	assert.ErrorIs(t, err, models.ErrOfferNotFound)

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test", h["version"])
}

func TestClient_Errors(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	_, err := c.SubmitOffers(ctx, []models.OfferInput{in("", "Amazon", nil)})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "items[0].title", apiErr.Errors[0].Field)
	assert.Contains(t, apiErr.Error(), "items[0].title is required")

	err = c.DeleteOffer(ctx, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrOfferNotFound)

	_, err = c.GetOffer(ctx, "not-a-uuid")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
}
