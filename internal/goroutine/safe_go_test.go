package goroutine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	mu   sync.Mutex
	msgs []string
	done chan struct{}
}

func (l *captureLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
	l.mu.Unlock()
	close(l.done)
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	log := &captureLogger{done: make(chan struct{})}
	rh := NewRecoveryHandler(log)

	rh.SafeGo("boom", func() { panic("oops") })

	select {
	case <-log.done:
	case <-time.After(time.Second):
		t.Fatal("panic не был залогирован")
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	require.Len(t, log.msgs, 1)
	assert.Contains(t, log.msgs[0], "boom")
	assert.Contains(t, log.msgs[0], "oops")
}

func TestSafeGoWithContext_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	got := make(chan interface{}, 1)

	NewRecoveryHandler(&captureLogger{done: make(chan struct{})}).
		SafeGoWithContext(ctx, "ctx", func(c context.Context) { got <- c.Value(key{}) })

	select {
	case v := <-got:
		assert.Equal(t, "v", v)
	case <-time.After(time.Second):
		t.Fatal("горутина не выполнилась")
	}
}
