package withdraw_entry

import "context"

type WaitlistService interface {
	Withdraw(ctx context.Context, salonID, id int64, channel string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
