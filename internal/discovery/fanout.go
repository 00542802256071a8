package discovery

import (
	"context"
	"net"

	"golang.org/x/sync/errgroup"
)

// Plan строит по одной задаче на интерфейс. Пустой список дает пустой план.
func Plan(ifaces []net.IP, build func(iface net.IP) (Task, error)) ([]Task, error) {
	tasks := make([]Task, 0, len(ifaces))
	for _, iface := range ifaces {
		task, err := build(iface)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// RunAll запускает задачи параллельно и ждет их завершения. Первая ошибка
// становится результатом и отменяет общий контекст, остальные задачи
// закрывают свои сокеты и выходят.
func RunAll(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return task.Run(gctx)
		})
	}
	return g.Wait()
}
