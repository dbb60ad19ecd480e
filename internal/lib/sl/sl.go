// Package sl содержит небольшие помощники для структурированного
// логирования через slog.
package sl

import "log/slog"

// Err возвращает атрибут лога с ключом "error" и текстом ошибки.
// Используется сервисами и обработчиками для единообразного вывода ошибок:
//
//	log.Error("failed to confirm payment", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
