package booking_cancelled

import (
	"context"

	handleCancellation "github.com/m04kA/SMC-WaitlistService/internal/usecase/handle_cancellation"
)

type HandleCancellationUseCase interface {
	Execute(ctx context.Context, req *handleCancellation.Request) (*handleCancellation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
