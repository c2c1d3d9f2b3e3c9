package stepper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)

	_, err = New(3, WithInitialStep(3))
	assert.Error(t, err)

	_, err = New(3, WithCompletedSteps(5))
	assert.Error(t, err)

	n, err := New(3, WithInitialStep(2), WithCompletedSteps(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, n.CurrentStep())
	assert.True(t, n.IsStepComplete(0))
	assert.True(t, n.IsStepComplete(1))
}

func TestGoToStep_OutOfRange(t *testing.T) {
	n, err := New(6)
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, RejectedOutOfRange, n.GoToStep(ctx, 6))
	assert.Equal(t, RejectedOutOfRange, n.GoToStep(ctx, 10))
	assert.Equal(t, RejectedOutOfRange, n.GoToStep(ctx, -1))
	assert.Equal(t, RejectedOutOfRange, n.PreviousStep(ctx))
	assert.Equal(t, 0, n.CurrentStep())
	assert.Empty(t, n.State().CompletedSteps)
}

func TestGoToStep_ForwardMarksCurrentComplete(t *testing.T) {
	var calls [][2]int
	n, err := New(6, WithObserver(func(newStep, previousStep int) {
		calls = append(calls, [2]int{newStep, previousStep})
	}))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, Accepted, n.NextStep(ctx))
	assert.Equal(t, Accepted, n.GoToStep(ctx, 3))
	assert.Equal(t, Accepted, n.PreviousStep(ctx))

	state := n.State()
	assert.Equal(t, 2, state.CurrentStep)
	assert.Equal(t, []int{0, 1}, state.CompletedSteps)
	assert.False(t, n.IsStepComplete(3), "переход назад не завершает шаг")
	assert.Equal(t, [][2]int{{1, 0}, {3, 1}, {2, 3}}, calls)
}

func TestGoToStep_ValidatorRejects(t *testing.T) {
	var validated []int
	n, err := New(4, WithValidator(func(ctx context.Context, step int) (bool, error) {
		validated = append(validated, step)
		return step != 1, nil
	}))
	require.NoError(t, err)
	ctx := context.Background()

	require.Equal(t, Accepted, n.NextStep(ctx))
	assert.Equal(t, RejectedInvalid, n.NextStep(ctx))
	assert.Equal(t, 1, n.CurrentStep())
	assert.False(t, n.IsStepComplete(1))
	assert.Equal(t, []int{0, 1}, validated)
}

func TestGoToStep_ValidatorError(t *testing.T) {
	n, err := New(4, WithValidator(func(ctx context.Context, step int) (bool, error) {
		return false, errors.New("remote check failed")
	}))
	require.NoError(t, err)

	assert.Equal(t, RejectedValidationError, n.NextStep(context.Background()))
	assert.Equal(t, 0, n.CurrentStep())
}

func TestGoToStep_BusyWhileValidationPending(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	n, err := New(4, WithValidator(func(ctx context.Context, step int) (bool, error) {
		close(started)
		<-release
		return true, nil
	}))
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	var first Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = n.GoToStep(ctx, 2)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("проверка не стартовала")
	}

	assert.Equal(t, RejectedBusy, n.GoToStep(ctx, 1))
	close(release)
	wg.Wait()

	assert.Equal(t, Accepted, first)
	assert.Equal(t, 2, n.CurrentStep())
	assert.Equal(t, []int{0}, n.State().CompletedSteps)
}

func TestMarkStepComplete_Idempotent(t *testing.T) {
	n, err := New(3)
	require.NoError(t, err)

	assert.True(t, n.MarkStepComplete(1))
	assert.True(t, n.MarkStepComplete(1))
	assert.False(t, n.MarkStepComplete(3))

	assert.Equal(t, []int{1}, n.State().CompletedSteps)
	assert.Equal(t, 0, n.CurrentStep())
	assert.Equal(t, 1, n.LastCompletedStep())
}

func TestState_FinishedOnlyWhenLastStepComplete(t *testing.T) {
	n, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.Equal(t, Accepted, n.NextStep(ctx))
	state := n.State()
	assert.True(t, state.IsLastStep)
	assert.False(t, state.IsFirstStep)
	assert.False(t, state.IsFinished)

	n.MarkStepComplete(1)
	assert.True(t, n.State().IsFinished)
}

func TestReset_RestoresInitialStep(t *testing.T) {
	n, err := New(5, WithInitialStep(1), WithCompletedSteps(0))
	require.NoError(t, err)
	ctx := context.Background()

	require.Equal(t, Accepted, n.GoToStep(ctx, 4))
	assert.Equal(t, Accepted, n.Reset())

	assert.Equal(t, 1, n.CurrentStep())
	assert.Empty(t, n.State().CompletedSteps)
	assert.Equal(t, -1, n.LastCompletedStep())
}

func TestWithResumeStep_KeepsResetTarget(t *testing.T) {
	n, err := New(4, WithResumeStep(2), WithCompletedSteps(0, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, n.CurrentStep())
	assert.Equal(t, 1, n.LastCompletedStep())

	n.Reset()
	assert.Equal(t, 0, n.CurrentStep())

	_, err = New(4, WithResumeStep(4))
	assert.Error(t, err)
}

// blockingNavigator возвращает навигатор, проверка которого ждёт release.
func blockingNavigator(t *testing.T, opts ...Option) (n *Navigator, started, release chan struct{}) {
	t.Helper()
	started = make(chan struct{})
	release = make(chan struct{})
	var once sync.Once
	opts = append(opts, WithValidator(func(ctx context.Context, step int) (bool, error) {
		once.Do(func() { close(started) })
		<-release
		return true, nil
	}))
	n, err := New(6, opts...)
	require.NoError(t, err)
	return n, started, release
}

func waitStarted(t *testing.T, started chan struct{}) {
	t.Helper()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("проверка не стартовала")
	}
}

func TestReset_RejectedWhileValidationPending(t *testing.T) {
	n, started, release := blockingNavigator(t, WithResumeStep(3))
	ctx := context.Background()

	done := make(chan Outcome, 1)
	go func() { done <- n.GoToStep(ctx, 4) }()
	waitStarted(t, started)

	assert.Equal(t, RejectedBusy, n.Reset())
	assert.False(t, n.MarkStepComplete(5))
	assert.Equal(t, RejectedBusy, n.CompleteStep(ctx, 5))

	close(release)
	assert.Equal(t, Accepted, <-done)

	state := n.State()
	assert.Equal(t, 4, state.CurrentStep)
	assert.Equal(t, []int{3}, state.CompletedSteps)

	assert.Equal(t, Accepted, n.Reset())
	state = n.State()
	assert.Equal(t, 0, state.CurrentStep)
	assert.Empty(t, state.CompletedSteps)
}

func TestNextStep_BusyWhileCompletePending(t *testing.T) {
	n, started, release := blockingNavigator(t)
	ctx := context.Background()

	done := make(chan Outcome, 1)
	go func() { done <- n.CompleteStep(ctx, 5) }()
	waitStarted(t, started)

	assert.Equal(t, RejectedBusy, n.NextStep(ctx))
	assert.Equal(t, RejectedBusy, n.PreviousStep(ctx))

	close(release)
	assert.Equal(t, Accepted, <-done)
	assert.True(t, n.IsStepComplete(5))
	assert.Equal(t, 0, n.CurrentStep())
}

func TestCompleteStep_Validation(t *testing.T) {
	n, err := New(3, WithValidator(func(ctx context.Context, step int) (bool, error) {
		if step == 2 {
			return false, errors.New("remote check failed")
		}
		return step == 1, nil
	}))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, RejectedOutOfRange, n.CompleteStep(ctx, 3))
	assert.Equal(t, RejectedInvalid, n.CompleteStep(ctx, 0))
	assert.Equal(t, RejectedValidationError, n.CompleteStep(ctx, 2))
	assert.Equal(t, Accepted, n.CompleteStep(ctx, 1))
	assert.Equal(t, Accepted, n.CompleteStep(ctx, 1))

	assert.Equal(t, []int{1}, n.State().CompletedSteps)
	assert.Equal(t, 0, n.CurrentStep())
}
