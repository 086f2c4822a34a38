package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My Page!", "my-page-"},
		{"spring-sale-2024", "spring-sale-2024"},
		{"Ünïcode Läden", "-n-code-l-den"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSlug(tt.in))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
	assert.True(t, ValidEmail("a@x.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("Ada <a@x.com>"))
}

func TestFieldKeys(t *testing.T) {
	tests := []struct {
		label, key string
	}{
		{"Company Size", "company_size"},
		{"plan.tier", "plan_tier"},
		{"$where", "where"},
		{" Budget (USD) ", "budget_usd"},
		{"...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.key, FieldKey(tt.label))
		})
	}

	assert.True(t, ValidFieldKey("source"))
	assert.True(t, ValidFieldKey("companyName_2"))
	assert.False(t, ValidFieldKey(""))
	assert.False(t, ValidFieldKey("a.b"))
	assert.False(t, ValidFieldKey("$set"))
	assert.False(t, ValidFieldKey("two words"))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2024-01-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestDeviceClass(t *testing.T) {
	assert.Equal(t, DeviceMobile, DeviceClass("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148"))
	assert.Equal(t, DeviceTablet, DeviceClass("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)"))
	assert.Equal(t, DeviceTablet, DeviceClass("Mozilla/5.0 (Linux; Android 13; SM-X700)"))
	assert.Equal(t, DeviceMobile, DeviceClass("Mozilla/5.0 (Linux; Android 13; Pixel 7) Mobile Safari"))
	assert.Equal(t, DeviceDesktop, DeviceClass("Mozilla/5.0 (Windows NT 10.0; Win64; x64)"))
	assert.Equal(t, DeviceUnknown, DeviceClass(""))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"vip", "new", "b2b"}, SplitTags("vip; new|b2b,vip, "))
	assert.Empty(t, SplitTags(""))
}
