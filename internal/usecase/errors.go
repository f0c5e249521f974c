package usecase

import (
	"errors"
	"fmt"
	"time"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 時刻はusecaseに注入する（テストで固定できるように）。
type Clock interface {
	Now() time.Time
}

// リセットコードの採番。本物はmain.goでcrypto/rand実装を渡す。
type CodeGenerator interface {
	NewCode() string
}
