package inbound

import (
	"context"

	"github.com/shandysiswandi/otpverify/internal/devapi/entity"
	"github.com/shandysiswandi/otpverify/internal/devapi/usecase"
)

type uc interface {
	Generate(ctx context.Context, in usecase.GenerateInput) (entity.Result, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (entity.Result, error)
}
