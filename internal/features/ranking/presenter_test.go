package ranking_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/points-bot/internal/features/members"
	"serotonyl.ru/points-bot/internal/features/ranking"
)

func TestFormatRanking_PadsAndExcludesNonPositive(t *testing.T) {
	res := &ranking.Result{
		Window: ranking.AllTime(),
		Totals: map[int64]int64{1: 12, 2: 3, 3: 0, 4: -2, 5: 1},
	}
	names := map[int64]string{1: "@alice", 2: "Борис"}

	got := ranking.FormatRanking("Рейтинг «Клуб»", res, 5, names)
	lines := strings.Split(got, "\n")

	require.Len(t, lines, 3+5)
	assert.Equal(t, "🏆 Рейтинг «Клуб»", lines[0])
	assert.Equal(t, "за всё время", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "1. @alice · 12 очков", lines[3])
	assert.Equal(t, "2. Борис · 3 очка", lines[4])
	assert.Equal(t, "3. "+members.UnknownName+" · 1 очко", lines[5])
	assert.Equal(t, "4. — свободно —", lines[6])
	assert.Equal(t, "5. — свободно —", lines[7])
}

func TestFormatRanking_CapsAtTopN(t *testing.T) {
	totals := map[int64]int64{}
	for i := int64(1); i <= 15; i++ {
		totals[i] = i
	}
	got := ranking.FormatRanking("Рейтинг", &ranking.Result{Window: ranking.AllTime(), Totals: totals}, 10, nil)
	lines := strings.Split(got, "\n")

	require.Len(t, lines, 3+10)
	assert.True(t, strings.HasPrefix(lines[3], "1. "+members.UnknownName+" · 15 "))
	assert.True(t, strings.HasPrefix(lines[12], "10. "+members.UnknownName+" · 6 "))
}

func TestFormatStatus_StopsBeforeMaxLength(t *testing.T) {
	totals := map[int64]int64{}
	names := map[int64]string{}
	for i := int64(1); i <= 8; i++ {
		totals[i] = 90 - i*10
		names[i] = fmt.Sprintf("user%d", i)
	}
	res := &ranking.Result{Window: ranking.AllTime(), Totals: totals}

	// Каждая запись " N.userN:PP" занимает 11 символов, заголовок 1.
	// Шесть записей дают 67, седьмая вывела бы за 70.
	got := ranking.FormatStatus(res, 8, 70, 8, names)

	assert.Equal(t, "🏆 1.user1:80 2.user2:70 3.user3:60 4.user4:50 5.user5:40 6.user6:30", got)
	assert.Equal(t, 6, strings.Count(got, ":"))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 70)
}

func TestFormatStatus_TruncatesNames(t *testing.T) {
	res := &ranking.Result{Window: ranking.AllTime(), Totals: map[int64]int64{1: 5, 2: 3}}
	names := map[int64]string{1: "Александра", 2: "Ян"}

	got := ranking.FormatStatus(res, 6, 120, 5, names)
	assert.Equal(t, "🏆 1.Алек…:5 2.Ян:3", got)
}

func TestFormatStatus_Empty(t *testing.T) {
	res := &ranking.Result{Window: ranking.AllTime(), Totals: map[int64]int64{1: 0}}

	got := ranking.FormatStatus(res, 6, 120, 8, nil)
	assert.Equal(t, "🏆 рейтинг пока пуст", got)
}
