package utils

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

var (
	slugInvalid     = regexp.MustCompile(`[^a-z0-9-]`)
	fieldKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	fieldKeyInvalid = regexp.MustCompile(`[^a-z0-9_]+`)
)

// SanitizeSlug lower-cases s and replaces every character outside [a-z0-9-] with '-'
func SanitizeSlug(s string) string {
	return slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}

// ValidFieldKey reports whether key can name a custom field. Dots and '$' would
// address nested documents in the store.
func ValidFieldKey(key string) bool {
	return fieldKeyPattern.MatchString(key)
}

// FieldKey turns a free label into a custom field key: "Company Size" -> "company_size".
// It returns "" when nothing usable is left.
func FieldKey(label string) string {
	key := strings.Join(strings.Fields(strings.ToLower(label)), "_")
	return strings.Trim(fieldKeyInvalid.ReplaceAllString(key, "_"), "_")
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email is a bare address
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ParseDate parses a date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02",
		"2006-01-02 15:04:05",
		"01/02/2006",
		"02/01/2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		"01/02/2006 15:04:05",
		"02/01/2006 15:04:05",
	}

	for _, format := range formats {
		date, err := time.Parse(format, dateStr)
		if err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// Device classes recorded on events
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceUnknown = "unknown"
)

// DeviceClass buckets a user agent string
func DeviceClass(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return DeviceUnknown
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet") ||
		(strings.Contains(ua, "android") && !strings.Contains(ua, "mobile")):
		return DeviceTablet
	case strings.Contains(ua, "mobi") || strings.Contains(ua, "iphone") || strings.Contains(ua, "android"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

// SplitTags splits a tag cell on ';', '|' or ',' and drops blanks and duplicates
func SplitTags(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ';' || r == '|' || r == ','
	})
	seen := make(map[string]bool, len(parts))
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		tags = append(tags, p)
	}
	return tags
}
