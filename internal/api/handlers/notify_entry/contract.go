package notify_entry

import (
	"context"

	issueOffer "github.com/m04kA/SMC-WaitlistService/internal/usecase/issue_offer"
)

type IssueOfferUseCase interface {
	Execute(ctx context.Context, req *issueOffer.Request) (*issueOffer.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
