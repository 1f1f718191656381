package lifecycle_sweep

import (
	"context"

	sweepLifecycle "github.com/m04kA/SMC-WaitlistService/internal/usecase/sweep_lifecycle"
)

type SweepLifecycleUseCase interface {
	Execute(ctx context.Context) (*sweepLifecycle.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
