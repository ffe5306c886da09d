package apiclient

import (
	"errors"
	"fmt"
)

// ErrorKind класс ошибки обращения к бэкенду
type ErrorKind int

const (
	// KindUnauthorized бэкенд отверг токен или учетные данные (401)
	KindUnauthorized ErrorKind = iota + 1
	// KindRejected бэкенд ответил ошибкой с описанием (не 2xx и не 401)
	KindRejected
	// KindNetwork запрос не удалось выполнить
	KindNetwork
	// KindDecode ответ 2xx, но тело не удалось разобрать
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRejected:
		return "rejected"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error описывает проблему при запросах к бэкенду.
// Detail - сообщение бэкенда, если он его прислал.
type Error struct {
	Op     string
	Kind   ErrorKind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "api client error"
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %d %s", e.Op, e.Kind, e.Status, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: status %d", e.Op, e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf возвращает класс ошибки или 0, если err не *Error
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsUnauthorized ошибка 401
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// DetailOf сообщение бэкенда из ошибки, если есть
func DetailOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
