package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	apperrors "giveaway-bot/internal/common/errors"
)

const (
	// The description is rendered in bold inside an embed description (4096 runes)
	// next to the countdown lines.
	MaxDescriptionLength = 3500
	MinDescriptionLength = 1
)

// ValidateDescription checks the prize text shown in the announcement.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) < MinDescriptionLength {
		return apperrors.NewValidationError("description", "cannot be empty")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return apperrors.NewValidationError("description", fmt.Sprintf("cannot exceed %d characters", MaxDescriptionLength))
	}
	return nil
}

// ValidatePositiveInt checks that value is at least 1.
func ValidatePositiveInt(value int64, fieldName string) error {
	if value < 1 {
		return apperrors.NewValidationError(fieldName, "must be at least 1")
	}
	return nil
}

// ValidateImageURL accepts empty values and absolute http(s) URLs.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return apperrors.NewValidationError("image", "must be an http(s) URL")
	}
	return nil
}
