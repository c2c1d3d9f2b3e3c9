package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/applicant-intake/internal/logger"
)

// Logger принимает сообщения о восстановленных panic.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler запускает горутины с перехватом panic.
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создаёт обработчик.
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает горутину с обработкой panic.
func (rh *RecoveryHandler) SafeGo(name string, fn func()) {
	go func() {
		defer rh.recover(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.recover(name)
		fn(ctx)
	}()
}

func (rh *RecoveryHandler) recover(name string) {
	if r := recover(); r != nil {
		rh.logger.Errorf("panic в горутине %s: %v\n%s", name, r, debug.Stack())
	}
}

// SafeGo запускает горутину, логируя panic через logrus.
func SafeGo(name string, fn func()) {
	NewRecoveryHandler(logger.Entry("goroutine")).SafeGo(name, fn)
}

// SafeGoWithContext запускает горутину с контекстом, логируя panic через logrus.
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	NewRecoveryHandler(logger.Entry("goroutine")).SafeGoWithContext(ctx, name, fn)
}
