package models

import "time"

type TipKind string

const (
	TipImprovement TipKind = "Improvement"
	TipWarning     TipKind = "Warning"
	TipContext     TipKind = "Context"
)

// Links holds the optional external URLs of an offer. Offers read back
// without a links row get the zero value.
type Links struct {
	OfferURL  *string `json:"offerUrl"`
	ThreadURL *string `json:"threadUrl"`
}

// ValidityWindow is an optional [Start, End] period; either bound may be open.
type ValidityWindow struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type CommunityTip struct {
	Kind        TipKind `json:"kind"`
	Description string  `json:"description"`
	Author      string  `json:"author"`
}

// Offer is the composed read model: the offer row plus its dependents.
type Offer struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Merchant    string          `json:"merchant"`
	Category    string          `json:"category"`
	CouponCode  *string         `json:"couponCode"`
	IsBugDeal   bool            `json:"isBugDeal"`
	Links       Links           `json:"links"`
	Images      []string        `json:"images"`
	PublishedAt time.Time       `json:"publishedAt"`
	PublishedBy string          `json:"publishedBy"`
	Validity    *ValidityWindow `json:"validity"`
	Tips        []CommunityTip  `json:"tips"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Severity string

const (
	SeveritySecondary Severity = "secondary"
	SeverityError     Severity = "error"
	SeverityWarning   Severity = "warning"
	SeveritySuccess   Severity = "success"
)

// ValidityStatus is the derived lifecycle of an offer at a given instant.
type ValidityStatus struct {
	IsValid       bool     `json:"isValid"`
	DaysRemaining *int     `json:"daysRemaining"`
	Label         string   `json:"label"`
	Severity      Severity `json:"severity"`
}

// OfferView is what clients receive: the offer plus its status at response time.
type OfferView struct {
	Offer
	Status ValidityStatus `json:"status"`
}
