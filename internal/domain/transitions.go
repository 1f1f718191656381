package domain

// transitionMap допустимые переходы статусов записи листа ожидания.
// Любой переход вне этой карты - ошибка программирования вызывающего кода,
// репозиторий дополнительно защищает переходы условными UPDATE.
var transitionMap = map[EntryStatus][]EntryStatus{
	StatusWaiting:   {StatusNotified, StatusCancelled},
	StatusNotified:  {StatusBooked, StatusWaiting, StatusCancelled, StatusExpired},
	StatusExpired:   {StatusWaiting},
	StatusBooked:    {},
	StatusCancelled: {},
}

// ValidTransition returns true if the status change is allowed by the
// entry lifecycle.
func ValidTransition(from, to EntryStatus) bool {
	allowed, ok := transitionMap[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

// IsValidStatus returns true if the status value is known
func IsValidStatus(s EntryStatus) bool {
	_, ok := transitionMap[s]
	return ok
}
