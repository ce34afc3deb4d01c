package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Field limits matching the database schema and the YouTube API contract.
const (
	MaxChannelIDLen = 64
	MaxUsernameLen  = 64
	MaxQueryLen     = 128
	MaxHistoryDays  = 365
)

var (
	// channelIDRe matches YouTube channel IDs: alphanumeric, dash, underscore.
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// usernameRe matches legacy YouTube usernames.
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// ErrorResponse returns the standard API error envelope.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorResponseDetails returns the error envelope with the original error
// text attached as details.
func ErrorResponseDetails(c fiber.Ctx, status int, code, message, details string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// ValidateChannelID checks that a channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId is too long"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateUsername checks that a legacy username is well-formed.
func ValidateUsername(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "username is required"
	}
	if len(name) > MaxUsernameLen {
		return "", "username is too long"
	}
	if !usernameRe.MatchString(name) {
		return "", "username contains invalid characters"
	}
	return name, ""
}

// ValidateQuery checks a search query.
func ValidateQuery(q string) (string, string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", "q is required"
	}
	if len(q) > MaxQueryLen {
		return "", "q is too long"
	}
	return q, ""
}

// ClampMaxResults bounds a requested result count to [1, max], substituting
// the default when the request is zero or negative.
func ClampMaxResults(requested, def, max int) int {
	if requested <= 0 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(s, field string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", field + " is required"
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", field + " must be a YYYY-MM-DD date"
	}
	return s, ""
}
