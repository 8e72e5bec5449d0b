package approvalexpiry

import (
	"testing"
	"time"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func approval(aid, facility, expires string) models.ApprovalRecord {
	return models.ApprovalRecord{
		Status:    models.StatusApproved,
		Facility:  facility,
		Author:    "J. Smith",
		Expires:   expires,
		AccountID: aid,
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    int
	}{
		{"same instant", testNow, 0},
		{"thirty days", testNow.AddDate(0, 0, 30), 30},
		{"thirty one days", testNow.AddDate(0, 0, 31), 31},
		{"just under a day", testNow.Add(23 * time.Hour), 0},
		{"one hour ago", testNow.Add(-time.Hour), -1},
		{"ten days ago", testNow.AddDate(0, 0, -10), -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(testNow, tt.expires))
		})
	}
}

func TestParseExpiration(t *testing.T) {
	want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	for _, value := range []string{
		"2024-01-31",
		"2024-01-31T00:00:00Z",
		"2024-01-31T00:00:00.000Z",
		"2024-01-31T00:00:00",
		"2024-01-31 00:00:00",
	} {
		t.Run(value, func(t *testing.T) {
			got, err := ParseExpiration(value)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}

	t.Run("offset", func(t *testing.T) {
		got, err := ParseExpiration("2024-01-30T16:00:00-08:00")
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseExpiration("next tuesday")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidExpiration)
	})
}

func TestFilterExpiring_ThresholdBoundary(t *testing.T) {
	records := []models.ApprovalRecord{
		approval("a-jan31", "Trail, BC", "2024-01-31"),
		approval("a-feb01", "Trail, BC", "2024-02-01"),
	}

	kept := FilterExpiring(records, testNow, 30)

	require.Len(t, kept, 1)
	assert.Equal(t, "a-jan31", kept[0].AccountID)
	assert.Equal(t, 30, kept[0].DaysUntilExpiry)
}

func TestFilterExpiring_ZeroThresholdKeepsTodayAndExpired(t *testing.T) {
	records := []models.ApprovalRecord{
		approval("a-today", "Trail, BC", "2024-01-01T18:00:00Z"),
		approval("a-tomorrow", "Trail, BC", "2024-01-02"),
		approval("a-expired", "Trail, BC", "2023-12-15"),
	}

	kept := FilterExpiring(records, testNow, 0)

	require.Len(t, kept, 2)
	assert.Equal(t, "a-today", kept[0].AccountID)
	assert.Equal(t, 0, kept[0].DaysUntilExpiry)
	assert.Equal(t, "a-expired", kept[1].AccountID)
}

func TestFilterExpiring_ExpiredRecordsQualify(t *testing.T) {
	records := []models.ApprovalRecord{
		approval("a-old", "Lancaster, OH", "2020-06-01"),
		approval("a-yesterday", "Lancaster, OH", "2023-12-31"),
	}

	kept := FilterExpiring(records, testNow, 30)

	require.Len(t, kept, 2)
	assert.Less(t, kept[0].DaysUntilExpiry, 0)
	assert.Equal(t, -1, kept[1].DaysUntilExpiry)
}

func TestFilterExpiring_NonApprovedNeverIncluded(t *testing.T) {
	statuses := []string{"Pending", "Rejected", "approved", ""}
	for _, status := range statuses {
		t.Run(status, func(t *testing.T) {
			rec := approval("a-1", "Trail, BC", "2023-01-01")
			rec.Status = status
			assert.Empty(t, FilterExpiring([]models.ApprovalRecord{rec}, testNow, 30))
		})
	}
}

func TestExpirationFilter_PreservesOrderAndReportsSkipped(t *testing.T) {
	records := []models.ApprovalRecord{
		approval("a-3", "X", "2024-01-20"),
		approval("a-bad", "X", "soon"),
		approval("a-far", "X", "2025-01-01"),
		approval("a-1", "X", "2024-01-05"),
		approval("a-2", "X", "2023-11-01"),
	}

	result := ExpirationFilter{ThresholdDays: 30}.Apply(records, testNow)

	var ids []string
	for _, r := range result.Expiring {
		ids = append(ids, r.AccountID)
	}
	assert.Equal(t, []string{"a-3", "a-1", "a-2"}, ids)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "a-bad", result.Skipped[0].Record.AccountID)
	assert.ErrorIs(t, result.Skipped[0].Err, errors.ErrInvalidExpiration)
}

func TestExpirationFilter_CustomStatusAndThreshold(t *testing.T) {
	rec := approval("a-1", "X", "2024-02-15")
	rec.Status = "APPROVED"

	f := ExpirationFilter{ThresholdDays: 50, ApprovedStatus: "APPROVED"}
	result := f.Apply([]models.ApprovalRecord{rec}, testNow)

	require.Len(t, result.Expiring, 1)
	assert.Equal(t, 45, result.Expiring[0].DaysUntilExpiry)
}
