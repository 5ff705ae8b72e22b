// Package ranking считает и показывает рейтинги по журналу очков.
// window.go описывает период агрегации.
package ranking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"serotonyl.ru/points-bot/internal/common"
	"serotonyl.ru/points-bot/internal/features/ledger"
)

// WindowKind: вид периода. Используется и как метка метрик.
type WindowKind string

const (
	KindAllTime WindowKind = "all"
	KindMonth   WindowKind = "month"
	KindYear    WindowKind = "year"
	KindRange   WindowKind = "range"
)

// Window: полуоткрытый интервал [From, To) по effective_time.
// nil-граница означает «без ограничения».
type Window struct {
	Kind  WindowKind
	From  *time.Time
	To    *time.Time
	label string
}

var monthNames = [...]string{
	"январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
}

// AllTime: весь журнал.
func AllTime() Window {
	return Window{Kind: KindAllTime, label: "за всё время"}
}

// Month: календарный месяц в часовом поясе loc.
func Month(year int, month time.Month, loc *time.Location) Window {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)
	return Window{
		Kind:  KindMonth,
		From:  &from,
		To:    &to,
		label: fmt.Sprintf("за %s %d", monthNames[month-1], year),
	}
}

// Year: календарный год в часовом поясе loc.
func Year(year int, loc *time.Location) Window {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(1, 0, 0)
	return Window{
		Kind:  KindYear,
		From:  &from,
		To:    &to,
		label: fmt.Sprintf("за %d год", year),
	}
}

// Range: произвольный интервал [from, to). Любая граница может быть nil.
func Range(from, to *time.Time) Window {
	var parts []string
	if from != nil {
		parts = append(parts, "с "+from.Format("02.01.2006 15:04"))
	}
	if to != nil {
		parts = append(parts, "до "+to.Format("02.01.2006 15:04"))
	}
	label := strings.Join(parts, " ")
	if label == "" {
		label = "за всё время"
	}
	return Window{Kind: KindRange, From: from, To: to, label: label}
}

// Legacy: всё, что было до cutoff (старый рейтинг).
func Legacy(cutoff time.Time) Window {
	return Range(nil, &cutoff)
}

func (w Window) Label() string {
	return w.label
}

// Filter переводит период в фильтр журнала.
func (w Window) Filter() ledger.Filter {
	return ledger.Filter{From: w.From, To: w.To}
}

// ParseWindow разбирает аргумент команды /ranking.
//
//	""/all/всё: за всё время
//	month/месяц: текущий месяц
//	year/год: текущий год
//	2024-05: конкретный месяц
//	2024: конкретный год
//	legacy/старый: до LEGACY_CUTOFF
func ParseWindow(arg string, now time.Time, loc *time.Location, legacyCutoff *time.Time) (Window, error) {
	now = now.In(loc)
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "all", "всё", "все":
		return AllTime(), nil
	case "month", "месяц":
		return Month(now.Year(), now.Month(), loc), nil
	case "year", "год":
		return Year(now.Year(), loc), nil
	case "legacy", "старый":
		if legacyCutoff == nil {
			return Window{}, common.ErrNoLegacyCutoff
		}
		return Legacy(*legacyCutoff), nil
	}

	arg = strings.TrimSpace(arg)
	if t, err := time.ParseInLocation("2006-01", arg, loc); err == nil {
		return Month(t.Year(), t.Month(), loc), nil
	}
	if len(arg) == 4 {
		if year, err := strconv.Atoi(arg); err == nil && year > 0 {
			return Year(year, loc), nil
		}
	}
	return Window{}, common.ErrBadWindow
}
