// Package stepper реализует конечный автомат шагов многошаговой анкеты.
package stepper

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Outcome - результат попытки перехода.
type Outcome string

const (
	Accepted                Outcome = "accepted"
	RejectedOutOfRange      Outcome = "out_of_range"
	RejectedInvalid         Outcome = "invalid"
	RejectedValidationError Outcome = "validation_error"
	RejectedBusy            Outcome = "busy"
)

// OK сообщает, что переход выполнен.
func (o Outcome) OK() bool {
	return o == Accepted
}

// Validator проверяет текущий шаг перед уходом с него. Может блокироваться.
type Validator func(ctx context.Context, step int) (bool, error)

// Observer получает уведомление после успешного перехода.
type Observer func(newStep, previousStep int)

// Option настраивает навигатор.
type Option func(*Navigator)

// WithValidator задаёт проверку шага.
func WithValidator(v Validator) Option {
	return func(n *Navigator) { n.validate = v }
}

// WithObserver задаёт наблюдателя переходов.
func WithObserver(o Observer) Option {
	return func(n *Navigator) { n.observe = o }
}

// WithInitialStep задаёт начальный шаг; к нему же возвращает Reset.
func WithInitialStep(step int) Option {
	return func(n *Navigator) { n.initial = step }
}

// WithResumeStep восстанавливает активный шаг, не меняя шаг для Reset.
func WithResumeStep(step int) Option {
	return func(n *Navigator) {
		n.resume = &step
	}
}

// WithCompletedSteps восстанавливает ранее завершённые шаги.
func WithCompletedSteps(steps ...int) Option {
	return func(n *Navigator) {
		n.restored = append(n.restored, steps...)
	}
}

// State - read-only проекция состояния навигатора.
type State struct {
	CurrentStep    int   `json:"current_step"`
	TotalSteps     int   `json:"total_steps"`
	IsFirstStep    bool  `json:"is_first_step"`
	IsLastStep     bool  `json:"is_last_step"`
	CompletedSteps []int `json:"completed_steps"`
	IsFinished     bool  `json:"is_finished"`
}

// Navigator управляет активным шагом и множеством завершённых шагов.
// Одновременно выполняется не больше одной операции, меняющей состояние:
// переход, Reset или отметка шага во время ожидания проверки отклоняются.
type Navigator struct {
	mu        sync.Mutex
	busy      atomic.Bool
	total     int
	initial   int
	current   int
	completed map[int]struct{}
	restored  []int
	resume    *int
	validate  Validator
	observe   Observer
}

// New создаёт навигатор на totalSteps шагов.
func New(totalSteps int, opts ...Option) (*Navigator, error) {
	if totalSteps <= 0 {
		return nil, fmt.Errorf("stepper: количество шагов должно быть положительным, получено %d", totalSteps)
	}

	n := &Navigator{
		total:     totalSteps,
		completed: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}

	if !n.inRange(n.initial) {
		return nil, fmt.Errorf("stepper: начальный шаг %d вне диапазона [0, %d)", n.initial, totalSteps)
	}
	n.current = n.initial
	if n.resume != nil {
		if !n.inRange(*n.resume) {
			return nil, fmt.Errorf("stepper: восстановленный шаг %d вне диапазона [0, %d)", *n.resume, totalSteps)
		}
		n.current = *n.resume
		n.resume = nil
	}

	for _, s := range n.restored {
		if !n.inRange(s) {
			return nil, fmt.Errorf("stepper: завершённый шаг %d вне диапазона [0, %d)", s, totalSteps)
		}
		n.completed[s] = struct{}{}
	}
	n.restored = nil

	return n, nil
}

// GoToStep пытается перейти на шаг target.
func (n *Navigator) GoToStep(ctx context.Context, target int) Outcome {
	if !n.inRange(target) {
		return RejectedOutOfRange
	}
	return n.move(ctx, func(int) int { return target })
}

// NextStep переходит на следующий шаг.
func (n *Navigator) NextStep(ctx context.Context) Outcome {
	return n.move(ctx, func(from int) int { return from + 1 })
}

// PreviousStep переходит на предыдущий шаг.
func (n *Navigator) PreviousStep(ctx context.Context) Outcome {
	return n.move(ctx, func(from int) int { return from - 1 })
}

// MarkStepComplete отмечает шаг завершённым, не меняя активный шаг.
// Пока выполняется переход, возвращает false.
func (n *Navigator) MarkStepComplete(step int) bool {
	if !n.inRange(step) {
		return false
	}
	if !n.busy.CompareAndSwap(false, true) {
		return false
	}
	defer n.busy.Store(false)

	n.mu.Lock()
	n.completed[step] = struct{}{}
	n.mu.Unlock()
	return true
}

// CompleteStep проверяет шаг и отмечает его завершённым, не меняя активный шаг.
func (n *Navigator) CompleteStep(ctx context.Context, step int) Outcome {
	if !n.inRange(step) {
		return RejectedOutOfRange
	}
	if !n.busy.CompareAndSwap(false, true) {
		return RejectedBusy
	}
	defer n.busy.Store(false)

	if outcome := n.check(ctx, step); !outcome.OK() {
		return outcome
	}

	n.mu.Lock()
	n.completed[step] = struct{}{}
	n.mu.Unlock()
	return Accepted
}

// move выполняет переход под флагом занятости: шаг "откуда" читается и
// фиксируется без вмешательства Reset и MarkStepComplete.
func (n *Navigator) move(ctx context.Context, pick func(from int) int) Outcome {
	if !n.busy.CompareAndSwap(false, true) {
		return RejectedBusy
	}
	defer n.busy.Store(false)

	n.mu.Lock()
	from := n.current
	n.mu.Unlock()

	target := pick(from)
	if !n.inRange(target) {
		return RejectedOutOfRange
	}
	if outcome := n.check(ctx, from); !outcome.OK() {
		return outcome
	}

	n.mu.Lock()
	if target > from {
		n.completed[from] = struct{}{}
	}
	n.current = target
	n.mu.Unlock()

	if n.observe != nil {
		n.observe(target, from)
	}

	return Accepted
}

func (n *Navigator) check(ctx context.Context, step int) Outcome {
	if n.validate == nil {
		return Accepted
	}
	ok, err := n.validate(ctx, step)
	switch {
	case err != nil:
		return RejectedValidationError
	case !ok:
		return RejectedInvalid
	case ctx.Err() != nil:
		return RejectedValidationError
	}
	return Accepted
}

// IsStepComplete сообщает, завершён ли шаг.
func (n *Navigator) IsStepComplete(step int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.completed[step]
	return ok
}

// Reset возвращает навигатор в начальное состояние.
// Во время незавершённого перехода отклоняется как RejectedBusy.
func (n *Navigator) Reset() Outcome {
	if !n.busy.CompareAndSwap(false, true) {
		return RejectedBusy
	}
	defer n.busy.Store(false)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = n.initial
	n.completed = make(map[int]struct{})
	return Accepted
}

// CurrentStep возвращает индекс активного шага.
func (n *Navigator) CurrentStep() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// TotalSteps возвращает количество шагов.
func (n *Navigator) TotalSteps() int {
	return n.total
}

// State возвращает снимок состояния.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()

	completed := make([]int, 0, len(n.completed))
	for s := range n.completed {
		completed = append(completed, s)
	}
	sort.Ints(completed)

	last := n.total - 1
	_, lastDone := n.completed[last]

	return State{
		CurrentStep:    n.current,
		TotalSteps:     n.total,
		IsFirstStep:    n.current == 0,
		IsLastStep:     n.current == last,
		CompletedSteps: completed,
		IsFinished:     n.current == last && lastDone,
	}
}

// LastCompletedStep возвращает наибольший завершённый шаг или -1.
func (n *Navigator) LastCompletedStep() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	last := -1
	for s := range n.completed {
		if s > last {
			last = s
		}
	}
	return last
}

func (n *Navigator) inRange(step int) bool {
	return step >= 0 && step < n.total
}
