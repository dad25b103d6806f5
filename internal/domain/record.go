package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRecord marks a record that must not be persisted.
var ErrInvalidRecord = errors.New("invalid record")

// Urgency ranks how pressing a news item is.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
)

// ParseUrgency maps free text onto a known urgency, defaulting to medium.
func ParseUrgency(value string) Urgency {
	switch Urgency(strings.ToLower(strings.TrimSpace(value))) {
	case UrgencyCritical:
		return UrgencyCritical
	case UrgencyHigh:
		return UrgencyHigh
	default:
		return UrgencyMedium
	}
}

// Verdict classifies whether a product answers a real need.
type Verdict string

const (
	VerdictRealNeed   Verdict = "real-need"
	VerdictPseudoNeed Verdict = "pseudo-need"
	VerdictWatch      Verdict = "watch"
)

// ParseVerdict maps free text onto a known verdict, defaulting to watch.
func ParseVerdict(value string) Verdict {
	switch Verdict(strings.ToLower(strings.TrimSpace(value))) {
	case VerdictRealNeed:
		return VerdictRealNeed
	case VerdictPseudoNeed:
		return VerdictPseudoNeed
	default:
		return VerdictWatch
	}
}

// Meta holds the storage-owned bookkeeping shared by every record.
type Meta struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func validate(kind, key, title string, publishedAt time.Time, keyed bool) error {
	switch {
	case keyed && strings.TrimSpace(key) == "":
		return fmt.Errorf("%s: missing key: %w", kind, ErrInvalidRecord)
	case strings.TrimSpace(title) == "":
		return fmt.Errorf("%s %s: missing title: %w", kind, key, ErrInvalidRecord)
	case publishedAt.IsZero():
		return fmt.Errorf("%s %s: missing publishedAt: %w", kind, key, ErrInvalidRecord)
	}
	return nil
}
