package models

import (
	"fmt"
	"regexp"
	"time"
)

// OfferInput is one submitted offer as it arrives on the wire.
type OfferInput struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description" validate:"required,max=1000"`
	Merchant    string         `json:"merchant" validate:"required,max=100"`
	Category    string         `json:"category" validate:"required,max=50"`
	CouponCode  *string        `json:"couponCode,omitempty" validate:"omitempty,max=50"`
	IsBugDeal   bool           `json:"isBugDeal"`
	Links       *LinksInput    `json:"links,omitempty"`
	Images      []string       `json:"images,omitempty" validate:"max=10,dive,url"`
	PublishedAt string         `json:"publishedAt" validate:"required,isotime"`
	PublishedBy string         `json:"publishedBy" validate:"required,max=100"`
	Validity    *ValidityInput `json:"validity,omitempty"`
	Tips        []TipInput     `json:"tips,omitempty" validate:"max=20,dive"`
}

type LinksInput struct {
	OfferURL  *string `json:"offerUrl,omitempty" validate:"omitempty,url"`
	ThreadURL *string `json:"threadUrl,omitempty" validate:"omitempty,url"`
}

type ValidityInput struct {
	Start *string `json:"start,omitempty" validate:"omitempty,isotime"`
	End   *string `json:"end,omitempty" validate:"omitempty,isotime"`
}

type TipInput struct {
	Kind        TipKind `json:"kind" validate:"required,oneof=Improvement Warning Context"`
	Description string  `json:"description" validate:"required,max=500"`
	Author      string  `json:"author" validate:"required,max=100"`
}

// SubmitRequest is the POST /offers body.
type SubmitRequest struct {
	Items []OfferInput `json:"items"`
}

var isoTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{3})?(Z|[+-]\d{2}:\d{2})$`)

// ParseTimestamp accepts only full ISO-8601 instants with an explicit offset,
// optionally with millisecond precision.
func ParseTimestamp(s string) (time.Time, error) {
	if !isoTimestamp.MatchString(s) {
		return time.Time{}, fmt.Errorf("timestamp %q is not ISO-8601 with offset", s)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// Draft converts a validated input into an Offer without identity or
// server timestamps. An empty coupon code becomes no coupon, and a validity
// window with no bound becomes no window at all. Empty URLs and timestamps
// never get here; validation rejects them.
func (in OfferInput) Draft() (Offer, error) {
	publishedAt, err := ParseTimestamp(in.PublishedAt)
	if err != nil {
		return Offer{}, err
	}

	o := Offer{
		Title:       in.Title,
		Description: in.Description,
		Merchant:    in.Merchant,
		Category:    in.Category,
		CouponCode:  nonEmpty(in.CouponCode),
		IsBugDeal:   in.IsBugDeal,
		PublishedAt: publishedAt,
		PublishedBy: in.PublishedBy,
		Images:      append([]string(nil), in.Images...),
	}

	if in.Links != nil {
		o.Links = Links{
			OfferURL:  clonePtr(in.Links.OfferURL),
			ThreadURL: clonePtr(in.Links.ThreadURL),
		}
	}

	if in.Validity != nil {
		start, end := in.Validity.Start, in.Validity.End
		if start != nil || end != nil {
			w := &ValidityWindow{}
			if start != nil {
				t, err := ParseTimestamp(*start)
				if err != nil {
					return Offer{}, err
				}
				w.Start = &t
			}
			if end != nil {
				t, err := ParseTimestamp(*end)
				if err != nil {
					return Offer{}, err
				}
				w.End = &t
			}
			o.Validity = w
		}
	}

	for _, tip := range in.Tips {
		o.Tips = append(o.Tips, CommunityTip(tip))
	}

	return o, nil
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
