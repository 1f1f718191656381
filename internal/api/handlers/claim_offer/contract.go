package claim_offer

import (
	"context"

	resolveClaim "github.com/m04kA/SMC-WaitlistService/internal/usecase/resolve_claim"
)

type ResolveClaimUseCase interface {
	Execute(ctx context.Context, req *resolveClaim.Request) (*resolveClaim.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
