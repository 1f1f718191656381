package sweep_lifecycle

// Config параметры планового обхода
type Config struct {
	// BatchSize максимум записей на один проход каждой фазы
	BatchSize int
}

// Response итоги одного прохода
type Response struct {
	OffersExpired    int // Истекших офферов возвращено в ожидание
	CooldownsCleared int // Снятых окон подавления
}
