package discovery

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Coordinator сериализует bind и настройку сокетов слушателей одного запуска.
// Разрешение держится только на время настройки, не на время приема.
type Coordinator struct {
	sem *semaphore.Weighted
}

// NewCoordinator создает координатор с единственным разрешением
func NewCoordinator() *Coordinator {
	return &Coordinator{sem: semaphore.NewWeighted(1)}
}

// Acquire блокирует до получения разрешения или отмены ctx.
// Возвращенную функцию нужно вызвать ровно один раз.
func (c *Coordinator) Acquire(ctx context.Context) (release func(), err error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { c.sem.Release(1) }, nil
}
