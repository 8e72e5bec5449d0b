package approvalexpiry

import (
	"math"
	"time"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/models"
)

// Layouts accepted for ApprovalExpires. Zone-less values are read as UTC.
var expirationLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseExpiration parses an ApprovalExpires value.
func ParseExpiration(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range expirationLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, errors.NewInvalidExpirationError(value, lastErr)
}

// DaysUntil is floor((expiresAt - now) / 24h). Negative once expired.
func DaysUntil(now, expiresAt time.Time) int {
	return int(math.Floor(expiresAt.Sub(now).Hours() / 24))
}

type SkippedRecord struct {
	Record models.ApprovalRecord
	Err    error
}

type FilterResult struct {
	Expiring []models.ApprovalRecord
	Skipped  []SkippedRecord
}

// ExpirationFilter keeps approved records expiring within ThresholdDays,
// inclusive, with no lower bound.
type ExpirationFilter struct {
	ThresholdDays  int
	ApprovedStatus string
}

// Apply preserves input order. Records whose expiration cannot be parsed are
// reported in Skipped and never kept.
func (f ExpirationFilter) Apply(records []models.ApprovalRecord, now time.Time) FilterResult {
	status := f.ApprovedStatus
	if status == "" {
		status = models.StatusApproved
	}

	var result FilterResult
	for _, rec := range records {
		if rec.Status != status {
			continue
		}
		expiresAt, err := ParseExpiration(rec.Expires)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRecord{Record: rec, Err: err})
			continue
		}
		days := DaysUntil(now, expiresAt)
		if days <= f.ThresholdDays {
			rec.DaysUntilExpiry = days
			result.Expiring = append(result.Expiring, rec)
		}
	}
	return result
}

// FilterExpiring applies ExpirationFilter with the default approved status.
func FilterExpiring(records []models.ApprovalRecord, now time.Time, thresholdDays int) []models.ApprovalRecord {
	return ExpirationFilter{ThresholdDays: thresholdDays}.Apply(records, now).Expiring
}
