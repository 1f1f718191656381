package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись листа ожидания не найдена
	ErrEntryNotFound = errors.New("waitlist.repository: entry not found")

	// ErrTokenNotFound возвращается, когда токен оффера не найден
	// (никогда не существовал или уже погашен)
	ErrTokenNotFound = errors.New("waitlist.repository: offer token not found")

	// ErrStaleEntry возвращается, когда условный UPDATE не затронул ни одной
	// строки: конкурентный вызов уже перевел запись в другое состояние
	ErrStaleEntry = errors.New("waitlist.repository: entry state changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("waitlist.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("waitlist.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("waitlist.repository: failed to scan row")
)
