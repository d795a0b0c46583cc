package validation

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	MinSequenceLength = 1
	MaxSequenceLength = 4
)

// SequenceRequestValidator validates sequence-related requests
type SequenceRequestValidator struct{}

// NewSequenceRequestValidator creates a new SequenceRequestValidator
func NewSequenceRequestValidator() *SequenceRequestValidator {
	return &SequenceRequestValidator{}
}

// ValidateProspectURL requires an absolute http(s) URL with a host
func (v *SequenceRequestValidator) ValidateProspectURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("prospect_url cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("prospect_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("prospect_url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("prospect_url must include a host")
	}
	return nil
}

// ValidateToneAxis checks one tone axis is present and within [0,1]
func (v *SequenceRequestValidator) ValidateToneAxis(name string, value *float64) error {
	if value == nil {
		return fmt.Errorf("%s is required", name)
	}
	if math.IsNaN(*value) || *value < 0 || *value > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", name, *value)
	}
	return nil
}

// ValidateTone validates all three tone axes
func (v *SequenceRequestValidator) ValidateTone(formality, warmth, directness *float64) error {
	if err := v.ValidateToneAxis("formality", formality); err != nil {
		return err
	}
	if err := v.ValidateToneAxis("warmth", warmth); err != nil {
		return err
	}
	return v.ValidateToneAxis("directness", directness)
}

// ValidateSequenceLength validates the number of messages requested
func (v *SequenceRequestValidator) ValidateSequenceLength(length int) error {
	if length < MinSequenceLength || length > MaxSequenceLength {
		return fmt.Errorf("sequence_length must be between %d and %d, got %d", MinSequenceLength, MaxSequenceLength, length)
	}
	return nil
}

// ValidateOptionalSequenceLength accepts a missing length
func (v *SequenceRequestValidator) ValidateOptionalSequenceLength(length *int) error {
	if length == nil {
		return nil
	}
	return v.ValidateSequenceLength(*length)
}

// ParseID parses a positive integer identifier
func (v *SequenceRequestValidator) ParseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %d", name, id)
	}
	return id, nil
}

// ParseIDList parses a comma-separated list of positive ids
func (v *SequenceRequestValidator) ParseIDList(name, raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%s cannot be empty", name)
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := v.ParseID(name, part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
