package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ignatzorin/applicant-intake/internal/stepper"
)

// NavigatorCache хранит навигаторы активных соискателей в памяти со скользящим TTL.
type NavigatorCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*navigatorEntry
	ttl     time.Duration
	loads   singleflight.Group
	now     func() time.Time
}

type navigatorEntry struct {
	nav       *stepper.Navigator
	expiresAt time.Time
}

// NewNavigatorCache создаёт кэш; очистку запускает Run.
func NewNavigatorCache(ttl time.Duration) *NavigatorCache {
	return &NavigatorCache{
		entries: make(map[uuid.UUID]*navigatorEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get возвращает навигатор и продлевает его срок жизни.
func (c *NavigatorCache) Get(applicantID uuid.UUID) (*stepper.Navigator, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[applicantID]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	entry.expiresAt = c.now().Add(c.ttl)
	return entry.nav, true
}

// GetOrLoad возвращает навигатор из кэша или создаёт его через load.
// Параллельные загрузки одного соискателя объединяются, чтобы навигатор был единственным;
// загрузка не отменяется вместе с контекстом первого вызвавшего.
func (c *NavigatorCache) GetOrLoad(ctx context.Context, applicantID uuid.UUID, load func(context.Context) (*stepper.Navigator, error)) (*stepper.Navigator, error) {
	if nav, ok := c.Get(applicantID); ok {
		return nav, nil
	}

	v, err, _ := c.loads.Do(applicantID.String(), func() (interface{}, error) {
		if nav, ok := c.Get(applicantID); ok {
			return nav, nil
		}
		nav, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[applicantID] = &navigatorEntry{nav: nav, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return nav, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*stepper.Navigator), nil
}

// Delete убирает навигатор соискателя.
func (c *NavigatorCache) Delete(applicantID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, applicantID)
}

// Len возвращает число навигаторов в кэше.
func (c *NavigatorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Run периодически удаляет истёкшие записи до отмены контекста.
func (c *NavigatorCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.purgeExpired()
		}
	}
}

func (c *NavigatorCache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}
