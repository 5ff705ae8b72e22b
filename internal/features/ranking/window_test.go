package ranking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/points-bot/internal/common"
	"serotonyl.ru/points-bot/internal/features/ranking"
)

var jst = time.FixedZone("JST", 9*3600)

func TestParseWindow(t *testing.T) {
	now := time.Date(2024, 6, 2, 10, 0, 0, 0, jst)
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, jst)

	tests := []struct {
		arg      string
		kind     ranking.WindowKind
		from, to *time.Time
		label    string
	}{
		{arg: "", kind: ranking.KindAllTime, label: "за всё время"},
		{arg: "all", kind: ranking.KindAllTime, label: "за всё время"},
		{arg: "Месяц", kind: ranking.KindMonth, from: ptr(time.Date(2024, 6, 1, 0, 0, 0, 0, jst)), to: ptr(time.Date(2024, 7, 1, 0, 0, 0, 0, jst)), label: "за июнь 2024"},
		{arg: "year", kind: ranking.KindYear, from: ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, jst)), to: ptr(time.Date(2025, 1, 1, 0, 0, 0, 0, jst)), label: "за 2024 год"},
		{arg: "2023-12", kind: ranking.KindMonth, from: ptr(time.Date(2023, 12, 1, 0, 0, 0, 0, jst)), to: ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, jst)), label: "за декабрь 2023"},
		{arg: "2022", kind: ranking.KindYear, from: ptr(time.Date(2022, 1, 1, 0, 0, 0, 0, jst)), to: ptr(time.Date(2023, 1, 1, 0, 0, 0, 0, jst)), label: "за 2022 год"},
		{arg: "legacy", kind: ranking.KindRange, to: &cutoff, label: "до 01.01.2024 00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			w, err := ranking.ParseWindow(tt.arg, now, jst, &cutoff)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, w.Kind)
			assert.Equal(t, tt.label, w.Label())
			assertTimePtr(t, tt.from, w.From)
			assertTimePtr(t, tt.to, w.To)
		})
	}
}

func TestParseWindow_Errors(t *testing.T) {
	now := time.Date(2024, 6, 2, 10, 0, 0, 0, jst)

	_, err := ranking.ParseWindow("legacy", now, jst, nil)
	assert.ErrorIs(t, err, common.ErrNoLegacyCutoff)

	for _, arg := range []string{"week", "2024-13", "24", "abcd", "2024-05-01"} {
		_, err := ranking.ParseWindow(arg, now, jst, nil)
		assert.ErrorIs(t, err, common.ErrBadWindow, arg)
	}
}

func TestParseWindow_CurrentMonthUsesAppTimezone(t *testing.T) {
	// В UTC ещё 31 мая, в Токио уже 1 июня
	now := time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC)

	w, err := ranking.ParseWindow("month", now, jst, nil)
	require.NoError(t, err)
	assert.Equal(t, "за июнь 2024", w.Label())
}

func TestWindow_FilterIsHalfOpen(t *testing.T) {
	w := ranking.Month(2024, time.May, jst)
	f := w.Filter()

	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.Nil(t, f.UserID)
	assert.True(t, f.From.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, jst)))
	assert.True(t, f.To.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, jst)))

	assert.Nil(t, ranking.AllTime().Filter().From)
	assert.Nil(t, ranking.AllTime().Filter().To)
}

func ptr(t time.Time) *time.Time { return &t }

func assertTimePtr(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
}
