package domain

// Default configuration values
const (
	DefaultOfferTTLMinutes = 120 // 2 hours
	DefaultCooldownMinutes = 60  // 1 hour
	DefaultSweepBatchSize  = 100
)

// Business validation constants
const (
	MinOfferTTLMinutes = 5
	MaxOfferTTLMinutes = 1440 // 1 day
	MinCooldownMinutes = 0
	MaxCooldownMinutes = 10080 // 1 week
	MaxCustomerNameLength = 200
	MaxChannelLength      = 50

	// OfferTokenBytes количество байт энтропии в токене оффера
	OfferTokenBytes = 16
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses список терминальных статусов записи
// После них никакие переходы не допускаются
var TerminalStatuses = []EntryStatus{
	StatusBooked,
	StatusCancelled,
}

// ValidStatuses полный список допустимых статусов записи
var ValidStatuses = []EntryStatus{
	StatusWaiting,
	StatusNotified,
	StatusBooked,
	StatusCancelled,
	StatusExpired,
}
