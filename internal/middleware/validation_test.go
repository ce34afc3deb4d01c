package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChannelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid id", "UC_x5XG1OV2P6uZZ5FSM9Ttw", "UC_x5XG1OV2P6uZZ5FSM9Ttw", false},
		{"trims whitespace", "  UCabc  ", "UCabc", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", strings.Repeat("a", MaxChannelIDLen+1), "", true},
		{"sql injection attempt", "UC'; DROP TABLE--", "", true},
		{"path traversal", "../etc/passwd", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := ValidateChannelID(tt.input)
			if tt.wantErr {
				assert.NotEmpty(t, msg)
				return
			}
			assert.Empty(t, msg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "GoogleDevelopers", false},
		{"with dots and dashes", "some.user-name", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxUsernameLen+1), true},
		{"spaces inside", "some user", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msg := ValidateUsername(tt.input)
			if tt.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	_, msg := ValidateQuery("")
	assert.NotEmpty(t, msg)

	_, msg = ValidateQuery(strings.Repeat("q", MaxQueryLen+1))
	assert.NotEmpty(t, msg)

	q, msg := ValidateQuery("  tech reviews  ")
	assert.Empty(t, msg)
	assert.Equal(t, "tech reviews", q)
}

func TestClampMaxResults(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		def       int
		max       int
		want      int
	}{
		{"zero uses default", 0, 10, 50, 10},
		{"negative uses default", -5, 10, 50, 10},
		{"in range", 25, 10, 50, 25},
		{"above max clamps", 500, 10, 50, 50},
		{"at max", 50, 10, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampMaxResults(tt.requested, tt.def, tt.max))
		})
	}
}

func TestValidateDate(t *testing.T) {
	d, msg := ValidateDate("2024-06-01", "startDate")
	assert.Empty(t, msg)
	assert.Equal(t, "2024-06-01", d)

	_, msg = ValidateDate("", "startDate")
	assert.Contains(t, msg, "startDate")

	_, msg = ValidateDate("06/01/2024", "endDate")
	assert.Contains(t, msg, "endDate")

	_, msg = ValidateDate("2024-13-40", "endDate")
	assert.NotEmpty(t, msg)
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/api/channel/:channelId", sanitizePath("/api/channel/UCabc123"))
	assert.Equal(t, "/api/channel/:channelId/videos", sanitizePath("/api/channel/UCabc123/videos"))
	assert.Equal(t, "/api/channel/by-username/:username", sanitizePath("/api/channel/by-username/someuser"))
	assert.Equal(t, "/api/channel/search", sanitizePath("/api/channel/search"))
	assert.Equal(t, "/api/health", sanitizePath("/api/health"))
}
