package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/goerror"
	"github.com/shandysiswandi/otpverify/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_CreateAndLookup(t *testing.T) {
	uc, _ := newTestUsecase(t, newFakeAPI())

	view, err := uc.CreateSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, entity.StepEmailEntry, view.Step)
	assert.Equal(t, entity.FocusTarget{Field: entity.FieldEmail}, view.Focus)
	assert.Equal(t, "10:00", view.Countdown)
	assert.Equal(t, 600, view.Remaining)
	assert.False(t, view.Counting)
	assert.False(t, view.Expiring)
	assert.EqualValues(t, 1, uc.ActiveSessions())

	got, err := uc.GetView(context.Background(), SessionInput{SessionID: view.SessionID})
	require.NoError(t, err)
	assert.Equal(t, view, got)

	_, err = uc.Session("not-a-uuid")
	assert.Equal(t, goerror.CodeNotFound, goerror.CodeOf(err))

	_, err = uc.Session("0190d4e2-6a3c-7cc1-9d0e-3b2f6c1a8e11")
	assert.Equal(t, goerror.CodeNotFound, goerror.CodeOf(err))
}

func TestUsecase_SessionsAreIndependent(t *testing.T) {
	api := newFakeAPI()
	uc, _ := newTestUsecase(t, api)

	a, err := uc.CreateSession(context.Background())
	require.NoError(t, err)
	b, err := uc.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = uc.RequestCode(context.Background(), RequestCodeInput{SessionID: a.SessionID, Email: "a@example.com"})
	require.NoError(t, err)

	va, err := uc.GetView(context.Background(), SessionInput{SessionID: a.SessionID})
	require.NoError(t, err)
	vb, err := uc.GetView(context.Background(), SessionInput{SessionID: b.SessionID})
	require.NoError(t, err)

	assert.Equal(t, entity.StepCodeEntry, va.Step)
	assert.Equal(t, entity.StepEmailEntry, vb.Step)
}

func TestUsecase_MaxSessions(t *testing.T) {
	uc, _ := newTestUsecase(t, newFakeAPI())

	for range 3 {
		_, err := uc.CreateSession(context.Background())
		require.NoError(t, err)
	}

	_, err := uc.CreateSession(context.Background())
	assert.Equal(t, goerror.CodeTooManyRequest, goerror.CodeOf(err))
}

func TestUsecase_CloseSession(t *testing.T) {
	uc, clk := newTestUsecase(t, newFakeAPI())
	view, err := uc.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = uc.RequestCode(context.Background(), RequestCodeInput{SessionID: view.SessionID, Email: "user@example.com"})
	require.NoError(t, err)
	_, stream, err := uc.Subscribe(context.Background(), SessionInput{SessionID: view.SessionID})
	require.NoError(t, err)

	require.NoError(t, uc.CloseSession(context.Background(), view.SessionID))
	assert.Zero(t, uc.ActiveSessions())
	assert.Empty(t, clk.Active())

	for range stream {
	}

	err = uc.CloseSession(context.Background(), view.SessionID)
	assert.Equal(t, goerror.CodeNotFound, goerror.CodeOf(err))

	_, err = uc.VerifyCode(context.Background(), SessionInput{SessionID: view.SessionID})
	assert.Equal(t, goerror.CodeNotFound, goerror.CodeOf(err))
}

func TestUsecase_ReapIdle(t *testing.T) {
	uc, clk := newTestUsecase(t, newFakeAPI())

	idle, err := uc.CreateSession(context.Background())
	require.NoError(t, err)
	watched, err := uc.CreateSession(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, _, err = uc.Subscribe(ctx, SessionInput{SessionID: watched.SessionID})
	require.NoError(t, err)

	assert.Empty(t, uc.ReapIdle(context.Background(), clk.Now().Add(30*time.Second)))

	clk.Advance(2 * time.Minute)
	reaped := uc.ReapIdle(context.Background(), clk.Now())

	assert.Equal(t, []string{idle.SessionID}, reaped)
	_, err = uc.Session(idle.SessionID)
	assert.Equal(t, goerror.CodeNotFound, goerror.CodeOf(err))
	_, err = uc.Session(watched.SessionID)
	assert.NoError(t, err)
}

func TestUsecase_RunReaper(t *testing.T) {
	uc, clk := newTestUsecase(t, newFakeAPI())
	view, err := uc.CreateSession(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- uc.RunReaper(ctx) }()

	require.Eventually(t, func() bool { return len(clk.Active()) == 1 }, time.Second, 5*time.Millisecond)
	clk.Advance(5 * time.Minute)
	require.True(t, clk.Active()[0].Fire(time.Second))

	require.Eventually(t, func() bool {
		_, err := uc.Session(view.SessionID)
		return err != nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestUsecase_SlotOperations(t *testing.T) {
	api := newFakeAPI()
	uc, _ := newTestUsecase(t, api)
	view, err := uc.CreateSession(context.Background())
	require.NoError(t, err)
	id := view.SessionID

	_, err = uc.RequestCode(context.Background(), RequestCodeInput{SessionID: id, Email: "user@example.com"})
	require.NoError(t, err)

	view, err = uc.InputSlot(context.Background(), SlotInput{SessionID: id, Index: 0, Value: "4"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Focus.Slot)

	view, err = uc.BackspaceSlot(context.Background(), SlotInput{SessionID: id, Index: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Focus.Slot)

	view, err = uc.AdvanceSlot(context.Background(), SlotInput{SessionID: id, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Focus.Slot)

	view, err = uc.ResendCode(context.Background(), SessionInput{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", "", "", ""}, view.Slots)

	view, err = uc.ChangeEmail(context.Background(), SessionInput{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, entity.StepEmailEntry, view.Step)

	_, err = uc.ResetFlow(context.Background(), SessionInput{SessionID: id})
	assert.Equal(t, goerror.CodeConflict, goerror.CodeOf(err))
}
