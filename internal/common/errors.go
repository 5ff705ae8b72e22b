// Package common, errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки команд
var (
	// ErrNotAdmin: пользователь не входит в allow-list администраторов
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrUnknownCommunity: чат не является отслеживаемым сообществом
	ErrUnknownCommunity = errors.New("этот чат не участвует в рейтинге")
	// ErrBadWindow: не удалось разобрать период рейтинга
	ErrBadWindow = errors.New("неизвестный период: используйте all, month, year, ГГГГ-ММ, ГГГГ или legacy")
	// ErrNoLegacyCutoff: граница старого рейтинга не настроена
	ErrNoLegacyCutoff = errors.New("старый рейтинг не настроен")
	// ErrInvalidAmount: некорректная сумма ручной корректировки
	ErrInvalidAmount = errors.New("сумма должна быть ненулевым целым числом в допустимых пределах")
	// ErrNoTarget: команда требует ответа на сообщение участника
	ErrNoTarget = errors.New("ответьте этой командой на сообщение участника")
)
