package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Cheertaboi/ofertas-service/internal/browse"
	"github.com/Cheertaboi/ofertas-service/internal/client"
	"github.com/Cheertaboi/ofertas-service/internal/models"
)

const dateLayout = "2006-01-02"

func renderPage(w io.Writer, state *browse.State, res *client.ListResult) {
	if n := state.ActiveFilterCount(); n > 0 {
		fmt.Fprintf(w, "%d active filter(s)\n", n)
	}
	if len(res.Items) == 0 {
		fmt.Fprintln(w, "no offers found")
		return
	}

	for _, v := range res.Items {
		if state.ViewMode == browse.List {
			renderRow(w, v)
		} else {
			renderCard(w, v)
		}
	}
	p := res.Pagination
	fmt.Fprintf(w, "page %d/%d, %d offers\n", p.Page, max(p.TotalPages, 1), p.Total)
}

func renderRow(w io.Writer, v models.OfferView) {
	fmt.Fprintf(w, "%s  %-40s  %-15s  %s\n", v.ID, truncate(v.Title, 40), truncate(v.Merchant, 15), badge(v.Status))
}

func renderCard(w io.Writer, v models.OfferView) {
	fmt.Fprintf(w, "+ %s\n", v.Title)
	fmt.Fprintf(w, "| %s · %s\n", v.Merchant, v.Category)
	if v.CouponCode != nil {
		fmt.Fprintf(w, "| coupon: %s\n", *v.CouponCode)
	}
	if v.IsBugDeal {
		fmt.Fprintln(w, "| bug deal")
	}
	fmt.Fprintf(w, "| %s\n", badge(v.Status))
	fmt.Fprintf(w, "+ %s\n\n", v.ID)
}

func renderDetail(w io.Writer, v models.OfferView) {
	fmt.Fprintf(w, "%s\n%s\n\n", v.Title, strings.Repeat("=", len(v.Title)))
	fmt.Fprintf(w, "%s\n\n", v.Description)
	fmt.Fprintf(w, "merchant:   %s\n", v.Merchant)
	fmt.Fprintf(w, "category:   %s\n", v.Category)
	if v.CouponCode != nil {
		fmt.Fprintf(w, "coupon:     %s\n", *v.CouponCode)
	}
	fmt.Fprintf(w, "published:  %s by %s\n", v.PublishedAt.Format(dateLayout), v.PublishedBy)
	if v.Validity != nil {
		fmt.Fprintf(w, "valid:      %s to %s\n", bound(v.Validity.Start), bound(v.Validity.End))
	}
	fmt.Fprintf(w, "status:     %s\n", badge(v.Status))
	if v.Links.OfferURL != nil {
		fmt.Fprintf(w, "offer:      %s\n", *v.Links.OfferURL)
	}
	if v.Links.ThreadURL != nil {
		fmt.Fprintf(w, "thread:     %s\n", *v.Links.ThreadURL)
	}
	for i, img := range v.Images {
		fmt.Fprintf(w, "image %d:    %s\n", i+1, img)
	}
	if len(v.Tips) > 0 {
		fmt.Fprintln(w, "\ntips:")
		for _, t := range v.Tips {
			fmt.Fprintf(w, "  [%s] %s (%s)\n", t.Kind, t.Description, t.Author)
		}
	}
}

func renderOptions(w io.Writer, opts *models.FilterOptions) {
	fmt.Fprintf(w, "categories: %s\n", strings.Join(opts.Categories, ", "))
	fmt.Fprintf(w, "merchants:  %s\n", strings.Join(opts.Merchants, ", "))
	kinds := make([]string, 0, len(opts.TipKinds))
	for _, k := range opts.TipKinds {
		kinds = append(kinds, string(k))
	}
	fmt.Fprintf(w, "tip kinds:  %s\n", strings.Join(kinds, ", "))
}

func badge(s models.ValidityStatus) string {
	return fmt.Sprintf("[%s] %s", s.Severity, s.Label)
}

func bound(t *time.Time) string {
	if t == nil {
		return "open"
	}
	return t.Format(dateLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
