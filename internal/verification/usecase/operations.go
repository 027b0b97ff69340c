package usecase

import (
	"context"

	"github.com/shandysiswandi/otpverify/internal/verification/entity"
)

type SessionInput struct {
	SessionID string
}

type RequestCodeInput struct {
	SessionID string
	Email     string
}

type SlotInput struct {
	SessionID string
	Index     int
	Value     string
}

func (s *Usecase) GetView(_ context.Context, in SessionInput) (entity.View, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, err
	}
	return ctrl.View(), nil
}

func (s *Usecase) Subscribe(ctx context.Context, in SessionInput) (entity.View, <-chan entity.Instruction, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, nil, err
	}
	return ctrl.Subscribe(ctx)
}

func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) (entity.View, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, err
	}
	return ctrl.RequestCode(ctx, in.Email)
}

func (s *Usecase) VerifyCode(ctx context.Context, in SessionInput) (entity.View, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, err
	}
	return ctrl.VerifyCode(ctx)
}

func (s *Usecase) ResendCode(ctx context.Context, in SessionInput) (entity.View, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, err
	}
	return ctrl.ResendCode(ctx)
}

func (s *Usecase) ChangeEmail(ctx context.Context, in SessionInput) (entity.View, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, err
	}
	return ctrl.ChangeEmail(ctx)
}

func (s *Usecase) ResetFlow(ctx context.Context, in SessionInput) (entity.View, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, err
	}
	return ctrl.ResetFlow(ctx)
}

func (s *Usecase) InputSlot(ctx context.Context, in SlotInput) (entity.View, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, err
	}
	return ctrl.InputSlot(ctx, in.Index, in.Value)
}

func (s *Usecase) BackspaceSlot(ctx context.Context, in SlotInput) (entity.View, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, err
	}
	return ctrl.HandleBackspaceNavigation(ctx, in.Index)
}

func (s *Usecase) AdvanceSlot(ctx context.Context, in SlotInput) (entity.View, error) {
	ctrl, err := s.Session(in.SessionID)
	if err != nil {
		return entity.View{}, err
	}
	return ctrl.AdvanceFocus(ctx, in.Index)
}
