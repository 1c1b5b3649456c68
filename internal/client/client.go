// Package client talks to the ofertas HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Cheertaboi/ofertas-service/internal/api/handlers"
	"github.com/Cheertaboi/ofertas-service/internal/models"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the envelope.
type APIError struct {
	Status  int
	Message string
	Errors  []models.FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Message, strings.Join(parts, "; "))
}

// Is lets callers test a 404 with errors.Is(err, models.ErrOfferNotFound).
func (e *APIError) Is(target error) bool {
	return target == models.ErrOfferNotFound && e.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// ListResult is one page of offers with its pagination block.
type ListResult struct {
	Items      []models.OfferView
	Pagination handlers.Pagination
}

func (c *Client) ListOffers(ctx context.Context, q url.Values) (*ListResult, error) {
	var res ListResult
	pag, err := c.do(ctx, http.MethodGet, "/offers", q, nil, &res.Items)
	if err != nil {
		return nil, err
	}
	if pag != nil {
		res.Pagination = *pag
	}
	return &res, nil
}

func (c *Client) GetOffer(ctx context.Context, id string) (*models.OfferView, error) {
	var v models.OfferView
	if _, err := c.do(ctx, http.MethodGet, "/offers/"+url.PathEscape(id), nil, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) DeleteOffer(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/offers/"+url.PathEscape(id), nil, nil, nil)
	return err
}

func (c *Client) SubmitOffers(ctx context.Context, items []models.OfferInput) ([]models.OfferView, error) {
	var views []models.OfferView
	if _, err := c.do(ctx, http.MethodPost, "/offers", nil, models.SubmitRequest{Items: items}, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	var opts models.FilterOptions
	if _, err := c.do(ctx, http.MethodGet, "/offers/filter-options", nil, nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var h map[string]string
	if _, err := c.do(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return h, nil
}

type envelope struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Data       json.RawMessage      `json:"data"`
	Pagination *handlers.Pagination `json:"pagination"`
	Errors     []models.FieldError  `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) (*handlers.Pagination, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg, Errors: env.Errors}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	return env.Pagination, nil
}
