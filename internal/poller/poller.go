// Package poller запускает проверку ленты сразу и затем с фиксированным интервалом.
package poller

import (
	"context"
	"time"

	"freebies/internal/logger"
	"freebies/internal/worker"
)

// DefaultInterval — период между проверками.
const DefaultInterval = time.Hour

// Checker выполняет одну проверку.
type Checker interface {
	Check(ctx context.Context) worker.Result
}

// Run выполняет первую проверку синхронно, затем повторяет её по тикеру.
// Проверки не перекрываются: следующая начинается только после завершения предыдущей.
// Восстановимые сбои не прерывают цикл; при StatusFatal Run возвращает ошибку проверки.
// Отмена ctx завершает Run с nil.
func Run(ctx context.Context, c Checker, interval time.Duration) error {
	log := logger.Log.WithFields(logger.Fields{
		"service":  "poller",
		"interval": interval.String(),
	})

	log.Info("Running first check")
	if res := c.Check(ctx); res.Status == worker.StatusFatal {
		return res.Err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Starting polling loop")
	for {
		select {
		case <-ticker.C:
			res := c.Check(ctx)
			if res.Status == worker.StatusFatal {
				return res.Err
			}
			if ctx.Err() != nil {
				log.Info("Stopping poller by context")
				return nil
			}

		case <-ctx.Done():
			log.Info("Stopping poller by context")
			return nil
		}
	}
}
