package clock

import (
	"sync"
	"time"
)

// Clock отдает текущее время. Все сравнения с дедлайнами идут через этот
// интерфейс, чтобы переходы состояний были детерминированно тестируемы.
type Clock interface {
	Now() time.Time
}

// Real - часы на основе системного времени.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Fake - управляемые часы для тестов.
type Fake struct {
	mu      sync.Mutex
	current time.Time
}

// NewFake создает часы, остановленные на заданном моменте.
func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Advance сдвигает часы вперед.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}

// Set выставляет часы на заданный момент.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = t
}
