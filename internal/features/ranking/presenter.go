// Package ranking, presenter.go форматирует рейтинг для чата и для статуса бота.
package ranking

import (
	"fmt"
	"strings"

	"serotonyl.ru/points-bot/internal/common"
	"serotonyl.ru/points-bot/internal/features/members"
)

const (
	vacantRow   = "— свободно —"
	statusTitle = "🏆"
	statusEmpty = "🏆 рейтинг пока пуст"
)

// FormatRanking строит полный рейтинг: ровно topN строк,
// незанятые места помечаются как свободные.
func FormatRanking(title string, res *Result, topN int, names map[int64]string) string {
	var sb strings.Builder
	sb.WriteString("🏆 " + title + "\n")
	sb.WriteString(res.Window.Label() + "\n\n")

	leaders := res.Leaders(topN)
	for i := 0; i < topN; i++ {
		if i < len(leaders) {
			s := leaders[i]
			sb.WriteString(fmt.Sprintf("%d. %s · %s\n", i+1, displayName(names, s.UserID), common.FormatPoints(s.Points)))
		} else {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, vacantRow))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatStatus строит короткую строку статуса.
// Имена обрезаются до nameBudget символов, записи добавляются,
// пока длина не превышает maxLength; дальше просто остановка.
func FormatStatus(res *Result, topN, maxLength, nameBudget int, names map[int64]string) string {
	leaders := res.Leaders(topN)
	if len(leaders) == 0 {
		return common.TruncateRunes(statusEmpty, maxLength)
	}

	out := statusTitle
	for i, s := range leaders {
		piece := fmt.Sprintf(" %d.%s:%d", i+1, common.TruncateRunes(displayName(names, s.UserID), nameBudget), s.Points)
		if common.RuneLen(out)+common.RuneLen(piece) > maxLength {
			break
		}
		out += piece
	}
	return out
}

func displayName(names map[int64]string, userID int64) string {
	if name, ok := names[userID]; ok && name != "" {
		return name
	}
	return members.UnknownName
}
