package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Text field length limits shared by the review form and the API.
const (
	MinReviewLength      = 10
	MaxReviewLength      = 500
	MaxFilterParamLength = 32
)

// Length counts characters, not bytes, after trimming surrounding whitespace.
func Length(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func checkRange(value string, min, max int, field string) string {
	n := Length(value)
	if n < min {
		return fmt.Sprintf("%s must be at least %d characters", field, min)
	}
	if n > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func checkLen(value string, max int, field string) string {
	if utf8.RuneCountInString(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func ReviewBody(s string) string  { return checkRange(s, MinReviewLength, MaxReviewLength, "review") }
func FilterParam(s string) string { return checkLen(s, MaxFilterParamLength, "filter") }

// FieldLimits returns a map of field names to length limits for the /api/limits endpoint.
func FieldLimits() map[string]int {
	return map[string]int{
		"reviewMin":   MinReviewLength,
		"reviewMax":   MaxReviewLength,
		"filterParam": MaxFilterParamLength,
	}
}
