package approvalexpiry

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/models"
)

// Select returns the facility's template, or Default when the facility has no
// entry. A Default without sender or recipients is TEMPLATE_NOT_FOUND.
func (s TemplateSet) Select(facility string) (Template, error) {
	if t, ok := s.Facilities[facility]; ok {
		return t, nil
	}
	if s.Default.Sender == "" || len(s.Default.Recipients) == 0 {
		return Template{}, errors.NewTemplateNotFoundError(facility)
	}
	return s.Default, nil
}

// ComposeMessage builds a fresh message for one approval. The HTML body gets
// an escaped summary; the text body gets the stored item as JSON.
func ComposeMessage(record models.ApprovalRecord, accountName string, set TemplateSet, placeholder string) (models.NotificationMessage, error) {
	tmpl, err := set.Select(record.Facility)
	if err != nil {
		return models.NotificationMessage{}, err
	}

	raw, err := renderRecordJSON(record)
	if err != nil {
		return models.NotificationMessage{}, fmt.Errorf("serialize approval: %w", err)
	}

	return models.NotificationMessage{
		Recipients: append([]string(nil), tmpl.Recipients...),
		Subject:    tmpl.Subject,
		HTMLBody:   strings.ReplaceAll(tmpl.HTMLBody, placeholder, renderHTMLSummary(record, accountName)),
		TextBody:   strings.ReplaceAll(tmpl.TextBody, placeholder, raw),
		Sender:     tmpl.Sender,
		Facility:   record.Facility,
	}, nil
}

func renderHTMLSummary(record models.ApprovalRecord, accountName string) string {
	return fmt.Sprintf("Account: %s<br/>Facility: %s<br/>Author: %s<br/>Expires: %s",
		html.EscapeString(accountName),
		html.EscapeString(record.Facility),
		html.EscapeString(record.Author),
		html.EscapeString(record.Expires),
	)
}

func renderRecordJSON(record models.ApprovalRecord) (string, error) {
	attrs := record.Attributes
	if attrs == nil {
		attrs = map[string]interface{}{
			"ApprovalStatus":   record.Status,
			"ApprovalFacility": record.Facility,
			"Author":           record.Author,
			"ApprovalExpires":  record.Expires,
			"AID":              record.AccountID,
		}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
