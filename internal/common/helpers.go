// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, работа с текстом.
package common

import "unicode/utf8"

// TruncateRunes обрезает строку до budget символов (не байт).
// Обрезанная строка заканчивается на «…», которое входит в бюджет.
//
// Примеры:
//
//	TruncateRunes("Александра", 5) → "Алек…"
//	TruncateRunes("Ян", 5)         → "Ян"
func TruncateRunes(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= budget {
		return s
	}
	runes := []rune(s)
	return string(runes[:budget-1]) + "…"
}

// RuneLen: длина строки в символах.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
