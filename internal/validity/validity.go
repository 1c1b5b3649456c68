// Package validity derives an offer's temporal status from its optional
// validity window.
package validity

import (
	"fmt"
	"time"

	"github.com/Cheertaboi/ofertas-service/internal/models"
)

const day = 24 * time.Hour

// IsWithin reports whether now lies in [start, end]. Nil bounds are open.
func IsWithin(now time.Time, start, end *time.Time) bool {
	if start != nil && now.Before(*start) {
		return false
	}
	if end != nil && now.After(*end) {
		return false
	}
	return true
}

// DaysRemaining is the number of whole days from now until end, truncated
// toward zero. Negative once end has passed; nil when end is open.
func DaysRemaining(now time.Time, end *time.Time) *int {
	if end == nil {
		return nil
	}
	d := int(end.Sub(now) / day)
	return &d
}

// Compute returns the status of window at now. A nil window means the
// offer never expires.
func Compute(window *models.ValidityWindow, now time.Time) models.ValidityStatus {
	if window == nil {
		return models.ValidityStatus{IsValid: true, Label: "No deadline", Severity: models.SeveritySecondary}
	}

	st := models.ValidityStatus{
		IsValid:       IsWithin(now, window.Start, window.End),
		DaysRemaining: DaysRemaining(now, window.End),
	}

	switch days := st.DaysRemaining; {
	case !st.IsValid:
		st.Label, st.Severity = "Expired", models.SeverityError
	case days == nil:
		st.Label, st.Severity = "No deadline", models.SeveritySecondary
	case *days <= 0:
		// less than a full day left still counts as expired
		st.IsValid = false
		st.Label, st.Severity = "Expired", models.SeverityError
	case *days <= 1:
		st.Label, st.Severity = "Expires today", models.SeverityError
	case *days <= 7:
		st.Label, st.Severity = fmt.Sprintf("%d days left", *days), models.SeverityWarning
	default:
		st.Label, st.Severity = fmt.Sprintf("%d days left", *days), models.SeveritySuccess
	}

	return st
}
