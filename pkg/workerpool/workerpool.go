// Package workerpool runs long-lived tasks as one group.
package workerpool

import (
	"context"
	"sync"
)

// Task is a named unit of work that runs until ctx ends or it fails.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Run starts every task in its own goroutine and waits for all of them.
// The first task to fail cancels the shared context and onCancel, when set,
// receives its name and error. Run returns that first error. Tasks that
// return nil leave the others running.
func Run(ctx context.Context, tasks []Task, onCancel func(name string, err error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	for _, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := task.Run(ctx); err != nil {
				once.Do(func() {
					firstErr = err
					if onCancel != nil {
						onCancel(task.Name, err)
					}
					cancel()
				})
			}
		}()
	}
	wg.Wait()

	return firstErr
}
