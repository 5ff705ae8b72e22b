// Package common, pluralize.go содержит вспомогательные функции
// для правильного склонения русских числительных.
package common

import (
	"fmt"
	"strconv"
)

// PluralizePoints возвращает правильную форму слова «очко» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "очко" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "очка" (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → "очков" (0, 5-20, 25-30, 100, ...)
func PluralizePoints(n int64) string {
	u := magnitude(n)
	lastDigit := u % 10
	lastTwoDigits := u % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "очко"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "очка"
	}
	return "очков"
}

// FormatPoints форматирует сумму очков: FormatPoints(12) → "12 очков".
func FormatPoints(n int64) string {
	return fmt.Sprintf("%s %s", FormatNumber(n), PluralizePoints(n))
}

// FormatSignedPoints добавляет знак: "+2 очка", "-1 очко".
func FormatSignedPoints(n int64) string {
	if n >= 0 {
		return "+" + FormatPoints(n)
	}
	return FormatPoints(n)
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + formatUnsigned(magnitude(n))
	}
	return formatUnsigned(uint64(n))
}

func formatUnsigned(u uint64) string {
	if u < 1000 {
		return strconv.FormatUint(u, 10)
	}
	return fmt.Sprintf("%s %03d", formatUnsigned(u/1000), u%1000)
}

// magnitude: модуль числа без переполнения на math.MinInt64.
func magnitude(n int64) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}
	return uint64(n)
}
