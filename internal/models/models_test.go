package models

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validInput() OfferInput {
	return OfferInput{
		Title:       "Auriculares inalámbricos",
		Description: "Rebajados un 40% solo hoy",
		Merchant:    "Amazon",
		Category:    "Electrónica",
		CouponCode:  strPtr("AUDIO40"),
		Links: &LinksInput{
			OfferURL:  strPtr("https://example.com/deal"),
			ThreadURL: strPtr("https://forum.example.com/t/1"),
		},
		Images:      []string{"https://img.example.com/1.jpg"},
		PublishedAt: "2024-05-01T10:00:00.000Z",
		PublishedBy: "maria",
		Validity: &ValidityInput{
			Start: strPtr("2024-05-01T00:00:00Z"),
			End:   strPtr("2024-05-10T23:59:59+02:00"),
		},
		Tips: []TipInput{{Kind: TipWarning, Description: "Sólo tallas grandes", Author: "pepe"}},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	out := map[string]string{}
	for _, fe := range verrs {
		out[fe.Field] = fe.Code
	}
	return out
}

func TestValidateOffers_Valid(t *testing.T) {
	require.NoError(t, ValidateOffers([]OfferInput{validInput()}))
}

func TestValidateOffers_BatchSize(t *testing.T) {
	assert.Equal(t, map[string]string{"items": "min"}, fieldErrors(t, ValidateOffers(nil)))

	batch := make([]OfferInput, MaxBatchSize+1)
	for i := range batch {
		batch[i] = validInput()
	}
	assert.Equal(t, map[string]string{"items": "max"}, fieldErrors(t, ValidateOffers(batch)))
	require.NoError(t, ValidateOffers(batch[:MaxBatchSize]))
}

func TestValidateOffers_FieldRules(t *testing.T) {
	in := validInput()
	in.Title = ""
	in.Description = strings.Repeat("x", 1001)
	in.CouponCode = strPtr(strings.Repeat("C", 51))
	in.Links.OfferURL = strPtr("not a url")
	in.Images = []string{"https://ok.example.com/a.png", "nope"}
	in.PublishedAt = "2024-05-01 10:00:00"
	in.Validity.End = strPtr("2024-05-10")
	in.Tips = []TipInput{{Kind: "Opinion", Description: "x", Author: ""}}

	second := validInput()
	second.Merchant = ""

	errs := fieldErrors(t, ValidateOffers([]OfferInput{in, second}))
	assert.Equal(t, "required", errs["items[0].title"])
	assert.Equal(t, "max", errs["items[0].description"])
	assert.Equal(t, "max", errs["items[0].couponCode"])
	assert.Equal(t, "url", errs["items[0].links.offerUrl"])
	assert.Equal(t, "url", errs["items[0].images[1]"])
	assert.Equal(t, "isotime", errs["items[0].publishedAt"])
	assert.Equal(t, "isotime", errs["items[0].validity.end"])
	assert.Equal(t, "oneof", errs["items[0].tips[0].kind"])
	assert.Equal(t, "required", errs["items[0].tips[0].author"])
	assert.Equal(t, "required", errs["items[1].merchant"])
	assert.NotContains(t, errs, "items[0].images[0]")
}

func TestValidateOffers_Limits(t *testing.T) {
	in := validInput()
	in.Images = make([]string, 11)
	for i := range in.Images {
		in.Images[i] = "https://img.example.com/x.jpg"
	}
	in.Tips = make([]TipInput, 21)
	for i := range in.Tips {
		in.Tips[i] = TipInput{Kind: TipContext, Description: "d", Author: "a"}
	}

	errs := fieldErrors(t, ValidateOffers([]OfferInput{in}))
	assert.Equal(t, "max", errs["items[0].images"])
	assert.Equal(t, "max", errs["items[0].tips"])
}

func TestValidateOffers_AbsentOptionalsPass(t *testing.T) {
	in := validInput()
	in.CouponCode = strPtr("")
	in.Links = &LinksInput{}
	in.Validity = &ValidityInput{}
	in.Images = nil
	in.Tips = nil

	require.NoError(t, ValidateOffers([]OfferInput{in}))
}

func TestValidateOffers_EmptyURLsAndTimestampsRejected(t *testing.T) {
	in := validInput()
	in.Links = &LinksInput{OfferURL: strPtr(""), ThreadURL: strPtr("")}
	in.Validity = &ValidityInput{Start: strPtr(""), End: strPtr("")}

	errs := fieldErrors(t, ValidateOffers([]OfferInput{in}))
	assert.Equal(t, map[string]string{
		"items[0].links.offerUrl":  "url",
		"items[0].links.threadUrl": "url",
		"items[0].validity.start":  "isotime",
		"items[0].validity.end":    "isotime",
	}, errs)
}

func TestValidateQuery_PageOffsetCannotOverflow(t *testing.T) {
	o := QueryOptions{Page: math.MaxInt / 10, PageSize: 20}.WithDefaults()
	errs := fieldErrors(t, ValidateQuery(Filters{}, o))
	assert.Equal(t, map[string]string{"page": "max"}, errs)

	o.Page = MaxPage(o.PageSize)
	require.NoError(t, ValidateQuery(Filters{}, o))
	assert.GreaterOrEqual(t, o.Offset(), 0)
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2024-05-10T23:59:59.500+02:00")
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2024, 5, 10, 21, 59, 59, 500e6, time.UTC)))

	for _, bad := range []string{
		"2024-05-10",
		"2024-05-10T23:59:59",
		"2024-05-10T23:59:59.5Z",
		"2024-05-10T23:59:59+0200",
		"2024-13-10T23:59:59Z",
	} {
		_, err := ParseTimestamp(bad)
		assert.Error(t, err, bad)
	}
}

func TestDraft(t *testing.T) {
	o, err := validInput().Draft()
	require.NoError(t, err)

	assert.Equal(t, "Amazon", o.Merchant)
	require.NotNil(t, o.CouponCode)
	assert.Equal(t, "AUDIO40", *o.CouponCode)
	require.NotNil(t, o.Validity)
	require.NotNil(t, o.Validity.End)
	assert.True(t, o.Validity.End.Equal(time.Date(2024, 5, 10, 21, 59, 59, 0, time.UTC)))
	assert.Equal(t, []CommunityTip{{Kind: TipWarning, Description: "Sólo tallas grandes", Author: "pepe"}}, o.Tips)
	assert.Empty(t, o.ID)
}

func TestDraft_NormalisesEmptyOptionals(t *testing.T) {
	in := validInput()
	in.CouponCode = strPtr("")
	in.Links = &LinksInput{}
	in.Validity = &ValidityInput{}

	o, err := in.Draft()
	require.NoError(t, err)

	assert.Nil(t, o.CouponCode)
	assert.Nil(t, o.Links.OfferURL)
	assert.Nil(t, o.Links.ThreadURL)
	assert.Nil(t, o.Validity)
}

func TestQueryOptions(t *testing.T) {
	o := QueryOptions{}.WithDefaults()
	assert.Equal(t, QueryOptions{Page: 1, PageSize: 20, SortField: SortByPublication, SortDirection: SortDesc}, o)
	assert.Equal(t, 0, o.Offset())

	o.Page = 3
	assert.Equal(t, 40, o.Offset())
	require.NoError(t, ValidateQuery(Filters{}, o))

	bad := QueryOptions{Page: -1, PageSize: 101, SortField: "price", SortDirection: "up"}
	errs := fieldErrors(t, ValidateQuery(Filters{Search: strings.Repeat("s", 201)}, bad))
	assert.Equal(t, map[string]string{
		"search":        "max",
		"page":          "min",
		"pageSize":      "max",
		"sortField":     "oneof",
		"sortDirection": "oneof",
	}, errs)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestFilters_ActiveCount(t *testing.T) {
	no := false
	assert.Equal(t, 0, Filters{}.ActiveCount())
	assert.Equal(t, 5, Filters{Category: "a", Merchant: "b", HasCoupon: &no, OnlyValid: true, Search: "x"}.ActiveCount())
	assert.Equal(t, 1, Filters{HasCoupon: &no}.ActiveCount())
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{{Field: "title", Message: "is required", Code: "required"}}
	assert.Equal(t, "validation failed: title is required", err.Error())
}
