package handle_cancellation

import "time"

// Config параметры координатора отмены
type Config struct {
	// CandidateLimit максимум кандидатов, рассматриваемых на один слот
	CandidateLimit int
}

// Request модель события отмены брони
type Request struct {
	SalonID    int64     // Салон (тенант), в котором отменили бронь
	ServiceID  int64     // Услуга отмененной брони
	Date       time.Time // День освободившегося слота
	EmployeeID *int64    // Мастер отмененной брони (опционально)
}

// Response итоги обработки отмены
type Response struct {
	OffersIssued         int // Выданных офферов (0 или 1 на один слот)
	CandidatesConsidered int // Рассмотренных кандидатов
}
