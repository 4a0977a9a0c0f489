package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"freebies/internal/logger"
	"freebies/internal/mailer"
	"freebies/internal/metrics"
	"freebies/internal/models"
	"freebies/internal/recent"
)

// Marker — подстрока заголовка, по которой запись считается раздачей.
const Marker = "FREE"

// ErrFatal оборачивает ошибки, после которых процесс должен завершиться.
var ErrFatal = errors.New("fatal check failure")

// Status — итог одной проверки.
type Status int

const (
	StatusOK Status = iota
	StatusRecoverable
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRecoverable:
		return "recoverable"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result описывает одну проверку. Err равен nil только при StatusOK.
type Result struct {
	Status     Status
	Items      int
	Qualifying int
	Duplicates int
	Notified   int
	Rejected   int
	Err        error
}

// FeedSource отдаёт записи ленты в исходном порядке.
type FeedSource interface {
	URL() string
	Fetch(ctx context.Context) ([]models.FeedItem, error)
}

// Notifier отправляет одно письмо. Ошибка означает сбой транспорта.
type Notifier interface {
	Send(ctx context.Context, subject, body string) (mailer.Delivery, error)
}

// Worker выполняет проверки ленты и помнит отправленные заголовки в окне recent.
type Worker struct {
	source   FeedSource
	notifier Notifier
	recent   *recent.Set
	now      func() time.Time

	mu       sync.Mutex
	last     Result
	lastAt   time.Time
	finished bool
}

func NewWorker(source FeedSource, notifier Notifier, seen *recent.Set) *Worker {
	return &Worker{
		source:   source,
		notifier: notifier,
		recent:   seen,
		now:      time.Now,
	}
}

// Check выполняет одну проверку: загрузка ленты, отбор новых раздач, отправка писем.
// Сбой загрузки даёт StatusRecoverable, пропуск обязательного поля или сбой SMTP-транспорта — StatusFatal.
func (w *Worker) Check(ctx context.Context) Result {
	log := logger.Log.WithField("url", w.source.URL())
	log.Info("Starting check")

	res := w.check(ctx, log)

	fields := logger.Fields{
		"status":     res.Status.String(),
		"items":      res.Items,
		"qualifying": res.Qualifying,
		"duplicates": res.Duplicates,
		"notified":   res.Notified,
		"rejected":   res.Rejected,
		"recent":     w.recent.Len(),
	}
	switch res.Status {
	case StatusOK:
		log.WithFields(fields).Info("Finished check")
	case StatusRecoverable:
		log.WithFields(fields).Warnf("Check failed: %v", res.Err)
	default:
		log.WithFields(fields).Errorf("Check aborted: %v", res.Err)
	}

	at := w.now()
	metrics.RecordCycle(res.Status.String(), w.recent.Len(), at)

	w.mu.Lock()
	w.last, w.lastAt, w.finished = res, at, true
	w.mu.Unlock()

	return res
}

// Last возвращает итог последней завершённой проверки; ok равен false, пока проверок не было.
func (w *Worker) Last() (res Result, at time.Time, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.lastAt, w.finished
}

func (w *Worker) check(ctx context.Context, log *logger.Entry) Result {
	var res Result

	items, err := w.source.Fetch(ctx)
	if err != nil {
		log.Errorf("Error retrieving feed: %v", err)
		res.Status = StatusRecoverable
		res.Err = fmt.Errorf("fetch %s: %w", w.source.URL(), err)
		return res
	}
	res.Items = len(items)
	log.WithField("items_count", len(items)).Debug("Got feed")

	for _, item := range items {
		if !strings.Contains(item.Title, Marker) {
			metrics.RecordItem("skipped")
			continue
		}
		res.Qualifying++

		if w.recent.Contains(item.Title) {
			res.Duplicates++
			metrics.RecordItem("duplicate")
			continue
		}
		metrics.RecordItem("qualifying")

		if err := item.Validate(); err != nil {
			res.Status = StatusFatal
			res.Err = fmt.Errorf("%w: %w", ErrFatal, err)
			return res
		}

		// заголовок запоминается до отправки: при сбое письмо не будет отправлено повторно
		w.recent.Add(item.Title)

		n := Compose(item)
		itemLog := log.WithField("title", n.Subject)
		itemLog.Info("Sending notification")

		// начатая отправка доводится до конца: остановка по сигналу не должна превращаться в фатальную ошибку
		d, err := w.notifier.Send(context.WithoutCancel(ctx), n.Subject, n.Body)
		if err != nil {
			metrics.RecordNotification("error")
			res.Status = StatusFatal
			res.Err = fmt.Errorf("%w: could not send email: %w", ErrFatal, err)
			return res
		}

		metrics.RecordNotification(d.Outcome.String())
		itemLog = itemLog.WithField("code", d.Code)
		if d.Outcome == mailer.Accepted {
			res.Notified++
			itemLog.Info("Notification sent")
			continue
		}
		res.Rejected++
		itemLog.WithField("response", d.Lines).Warn("Notification rejected by relay")
	}

	return res
}

// Compose собирает письмо по записи ленты: тема — заголовок, тело — четыре подписанные строки.
func Compose(item models.FeedItem) models.Notification {
	return models.Notification{
		Subject: item.Title,
		Body: fmt.Sprintf("Description: %s\nLink: %s\nPublished: %s\nAuthor: %s",
			Summarize(item.Description), item.Link, item.Published, item.Author),
	}
}
