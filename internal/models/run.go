// internal/models/run.go
package models

import "time"

const (
	RunOutcomeSuccess     = "success"
	RunOutcomePartial     = "partial"
	RunOutcomeQueryFailed = "query_failed"
)

// RunSummary aggregates one reminder run.
type RunSummary struct {
	RunID       string         `json:"runId"`
	Trigger     string         `json:"trigger"`
	StartedAt   time.Time      `json:"startedAt"`
	FinishedAt  time.Time      `json:"finishedAt"`
	Scanned     int            `json:"scanned"`
	Expiring    int            `json:"expiring"`
	Sent        int            `json:"sent"`
	Failed      int            `json:"failed"`
	Skipped     int            `json:"skipped"`
	QueryFailed bool           `json:"queryFailed"`
	Failures    map[string]int `json:"failures,omitempty"`
}

func (s *RunSummary) Outcome() string {
	switch {
	case s.QueryFailed:
		return RunOutcomeQueryFailed
	case s.Failed > 0 || s.Skipped > 0:
		return RunOutcomePartial
	default:
		return RunOutcomeSuccess
	}
}

// AddFailure counts a per-record failure under its error code.
func (s *RunSummary) AddFailure(code string) {
	if s.Failures == nil {
		s.Failures = make(map[string]int)
	}
	s.Failures[code]++
	s.Failed++
}

func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
