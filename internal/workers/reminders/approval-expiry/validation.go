package approvalexpiry

import (
	"fmt"
	"strings"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/common/validation"
)

// GetInputSchema describes the trigger payload: an object carrying a name.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]validation.Property{
			"name": {
				Type:        "string",
				Description: "Name greeted in the response message",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(200),
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"message", "event"},
		Properties: map[string]validation.Property{
			"message": {Type: "string", Description: "Greeting for the caller"},
			"event":   {Type: "object", Description: "Trigger payload, echoed"},
		},
	}
}

// InputValidator checks trigger payloads against GetInputSchema.
type InputValidator struct {
	validator *validation.Validator
}

func NewInputValidator() (*InputValidator, error) {
	v, err := validation.NewValidator(GetInputSchema())
	if err != nil {
		return nil, err
	}
	return &InputValidator{validator: v}, nil
}

// Parse validates the payload and returns it as Input. Failures are
// VALIDATION_FAILED errors listing every violation.
func (iv *InputValidator) Parse(payload map[string]interface{}) (*Input, error) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	result := iv.validator.Validate(payload)
	if !result.Valid {
		return nil, errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	name, _ := payload["name"].(string)
	return &Input{Name: name, Event: payload}, nil
}

// ValidateTemplateSet requires a usable default entry and well-formed
// addresses on every entry.
func ValidateTemplateSet(set TemplateSet) error {
	if err := validateTemplate("default", set.Default); err != nil {
		return err
	}
	for facility, t := range set.Facilities {
		if facility == "" {
			return fmt.Errorf("template facility name is required")
		}
		if err := validateTemplate(facility, t); err != nil {
			return err
		}
	}
	return nil
}

func validateTemplate(name string, t Template) error {
	if t.Sender == "" {
		return fmt.Errorf("template %q: sender is required", name)
	}
	if !validation.ValidateEmail(t.Sender) {
		return fmt.Errorf("template %q: invalid sender %q", name, t.Sender)
	}
	if len(t.Recipients) == 0 {
		return fmt.Errorf("template %q: at least one recipient is required", name)
	}
	for _, r := range t.Recipients {
		if !validation.ValidateEmail(r) {
			return fmt.Errorf("template %q: invalid recipient %q", name, r)
		}
	}
	if t.Subject == "" {
		return fmt.Errorf("template %q: subject is required", name)
	}
	return nil
}

func intPtr(i int) *int {
	return &i
}
