package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_IDS", "568741926829031426, 920192804909645834")
	t.Setenv("COMMUNITIES", `{"-100932399906": {"name": "Гоза", "emoji": {"⭐": 2, "custom:42": 1}}, "-100992716525": {"name": "Химэтанэ", "emoji": {"👍": 1}}}`)
	t.Setenv("STORAGE_DRIVER", "bolt")
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("LEGACY_CUTOFF", "2024-01-01T00:00:00+09:00")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int64{568741926829031426, 920192804909645834}, cfg.AdminIDs)

	require.Len(t, cfg.Communities, 2)
	assert.Equal(t, []int64{-100992716525, -100932399906}, cfg.Communities.IDs())

	points, ok := cfg.Communities[-100932399906].Points("⭐")
	assert.True(t, ok)
	assert.Equal(t, int64(2), points)
	_, ok = cfg.Communities[-100932399906].Points("👍")
	assert.False(t, ok)

	require.NotNil(t, cfg.LegacyCutoff)
	assert.Equal(t, 2023, cfg.LegacyCutoff.UTC().Year())
	assert.Equal(t, 30*time.Minute, cfg.StatusRefreshInterval)
	assert.Equal(t, 120, cfg.StatusMaxLength)
	assert.Equal(t, int64(10000), cfg.AdjustMaxAmount)
	assert.Equal(t, "Asia/Tokyo", cfg.Location().String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad communities json", key: "COMMUNITIES", val: `{"x": `},
		{name: "non numeric chat id", key: "COMMUNITIES", val: `{"abc": {"name": "x", "emoji": {"⭐": 1}}}`},
		{name: "zero points", key: "COMMUNITIES", val: `{"1": {"name": "x", "emoji": {"⭐": 0}}}`},
		{name: "empty communities", key: "COMMUNITIES", val: `{}`},
		{name: "bad admin ids", key: "ADMIN_IDS", val: "1,two"},
		{name: "unknown driver", key: "STORAGE_DRIVER", val: "mongo"},
		{name: "bad cutoff", key: "LEGACY_CUTOFF", val: "yesterday"},
		{name: "tiny refresh interval", key: "STATUS_REFRESH_INTERVAL", val: "5s"},
		{name: "unknown timezone", key: "APP_TIMEZONE", val: "Mars/Olympus"},
		{name: "zero adjust bound", key: "ADJUST_MAX_AMOUNT", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: 5432, DBName: "db", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", cfg.DatabaseDSN())
}
