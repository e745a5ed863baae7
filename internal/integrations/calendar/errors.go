package calendar

import "errors"

var (
	// ErrInternal возвращается при ошибках инициализации клиента
	ErrInternal = errors.New("calendar client: internal error")

	// ErrPublish возвращается, если событие не удалось создать
	ErrPublish = errors.New("calendar client: failed to publish event")
)
