package middleware

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic ловит панику обработчика апдейта. Вызывать через defer.
// onPanic (если задан) вызывается после логирования, например чтобы
// ответить пользователю общим сообщением об ошибке.
func RecoverFromPanic(onPanic func()) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"component": "panic_recovery",
			"panic":     fmt.Sprintf("%v", r),
			"stack":     string(debug.Stack()),
		}).Error("ПАНИКА в обработчике, восстановлено")
		if onPanic != nil {
			onPanic()
		}
	}
}
