package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_CalendarConfig(t *testing.T) {
	os.Setenv("CALENDAR_ACCESS_TOKEN", "test-token")
	os.Setenv("CALENDAR_ID", "agenda@group.calendar.google.com")
	defer func() {
		os.Unsetenv("CALENDAR_ACCESS_TOKEN")
		os.Unsetenv("CALENDAR_ID")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Calendar.AccessToken)
	assert.Equal(t, "agenda@group.calendar.google.com", cfg.Calendar.CalendarID)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("CALENDAR_ACCESS_TOKEN")
	os.Unsetenv("CALENDAR_ID")
	os.Unsetenv("BOOKING_DEFAULT_DURATION_MINUTES")
	os.Unsetenv("AVAILABILITY_CACHE_TTL_SECONDS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "primary", cfg.Calendar.CalendarID)
	assert.Equal(t, 60, cfg.Booking.DefaultDurationMinutes)
	assert.Equal(t, 60, cfg.Booking.CacheTTLSeconds)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoad_AllowedOriginsList(t *testing.T) {
	os.Setenv("ALLOWED_ORIGINS", "https://vetordigital.com.br, https://lp.vetordigital.com.br")
	defer os.Unsetenv("ALLOWED_ORIGINS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, []string{"https://vetordigital.com.br", "https://lp.vetordigital.com.br"}, cfg.Server.AllowedOrigins)
}
