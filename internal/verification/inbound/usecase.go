package inbound

import (
	"context"

	"github.com/shandysiswandi/otpverify/internal/verification/entity"
	"github.com/shandysiswandi/otpverify/internal/verification/usecase"
)

type ucStream interface {
	Subscribe(ctx context.Context, in usecase.SessionInput) (entity.View, <-chan entity.Instruction, error)
}

type uc interface {
	ucStream

	CreateSession(ctx context.Context) (entity.View, error)
	GetView(ctx context.Context, in usecase.SessionInput) (entity.View, error)
	CloseSession(ctx context.Context, id string) error

	RequestCode(ctx context.Context, in usecase.RequestCodeInput) (entity.View, error)
	VerifyCode(ctx context.Context, in usecase.SessionInput) (entity.View, error)
	ResendCode(ctx context.Context, in usecase.SessionInput) (entity.View, error)
	ChangeEmail(ctx context.Context, in usecase.SessionInput) (entity.View, error)
	ResetFlow(ctx context.Context, in usecase.SessionInput) (entity.View, error)

	InputSlot(ctx context.Context, in usecase.SlotInput) (entity.View, error)
	AdvanceSlot(ctx context.Context, in usecase.SlotInput) (entity.View, error)
	BackspaceSlot(ctx context.Context, in usecase.SlotInput) (entity.View, error)
}
