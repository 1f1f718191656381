package sweep_lifecycle

import "errors"

var (
	// ErrInternal возвращается, когда не удалось получить ни одну партию
	// записей для обхода. Ошибки по отдельным записям обход не прерывают.
	ErrInternal = errors.New("sweep_lifecycle: internal error")
)
