package notifications

import (
	"context"
	"sync"
	"time"

	"crimewatch/internal/models"
	"crimewatch/internal/utils"
	"crimewatch/pkg/logger"

	"github.com/google/uuid"
)

// Queue is the in-process dispatch queue for transactional email. One Queue
// is constructed per process and injected where needed. A single background
// worker goroutine owns the drain loop, which is the queue's only consumer;
// retries re-enter at the front of the task list after a growing delay and
// wake that same worker.
//
// Tasks exist only in memory. A task is abandoned after MaxAttempts failed
// deliveries; failure is logged, never surfaced to the enqueuing caller.
type Queue struct {
	mailer Mailer
	logger *logger.Logger

	mu     sync.Mutex
	tasks  []*models.NotificationTask
	timers map[string]*time.Timer
	active bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
	stop sync.Once

	maxAttempts int
	retryBase   time.Duration
	sendSpacing time.Duration
}

func NewQueue(mailer Mailer, log *logger.Logger) *Queue {
	q := &Queue{
		mailer:      mailer,
		logger:      log,
		timers:      make(map[string]*time.Timer),
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		maxAttempts: utils.NotificationMaxAttempts,
		retryBase:   utils.NotificationRetryBase,
		sendSpacing: utils.NotificationSendSpacing,
	}

	q.wg.Add(1)
	go q.worker()

	return q
}

// EnqueueFIRConfirmation queues the confirmation email sent when a report is
// created with an FIR request.
func (q *Queue) EnqueueFIRConfirmation(email, userName string, report *models.Report) {
	q.Enqueue(&models.NotificationTask{
		Kind:     models.NotificationFIRConfirmation,
		Email:    email,
		UserName: userName,
		Payload: map[string]interface{}{
			"report_id": report.ID.Hex(),
			"title":     report.Title,
			"category":  string(report.Category),
			"severity":  string(report.Severity),
			"address":   report.Location.Address,
			"date_time": report.DateTime.Format(time.RFC1123),
		},
	})
}

// EnqueuePasswordReset queues the reset-link email for a forgot-password
// request.
func (q *Queue) EnqueuePasswordReset(email, userName, resetURL string) {
	q.Enqueue(&models.NotificationTask{
		Kind:     models.NotificationPasswordReset,
		Email:    email,
		UserName: userName,
		Payload: map[string]interface{}{
			"reset_url": resetURL,
		},
	})
}

// Enqueue appends the task and wakes the worker. Safe to call from request
// handlers and from retry timers concurrently.
func (q *Queue) Enqueue(task *models.NotificationTask) {
	task.ID = uuid.NewString()
	task.Attempts = 0
	task.MaxAttempts = q.maxAttempts
	task.CreatedAt = time.Now()

	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	q.signal()
}

// Status reports queue depth, whether the worker is mid-drain, and a
// redacted view of pending tasks.
func (q *Queue) Status() *models.QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks := make([]models.TaskSummary, 0, len(q.tasks))
	for _, task := range q.tasks {
		tasks = append(tasks, models.TaskSummary{
			ID:        task.ID,
			Kind:      task.Kind,
			Email:     task.Email,
			Attempts:  task.Attempts,
			CreatedAt: task.CreatedAt,
		})
	}

	return &models.QueueStatus{
		Pending:    len(q.tasks),
		Processing: q.active,
		Tasks:      tasks,
	}
}

// Shutdown stops the worker and cancels pending retry timers. Queued tasks
// are dropped; the queue offers no durability beyond process lifetime.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.stop.Do(func() {
		close(q.done)

		q.mu.Lock()
		for id, timer := range q.timers {
			timer.Stop()
			delete(q.timers, id)
		}
		q.mu.Unlock()
	})

	stopped := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.done:
			return
		case <-q.wake:
			q.drain()
		}
	}
}

// drain is one pass over the queue: process head tasks until the list is
// empty or shutdown. Only the worker goroutine calls this.
func (q *Queue) drain() {
	q.mu.Lock()
	q.active = true
	pending := len(q.tasks)
	q.mu.Unlock()

	if pending > 0 {
		q.logger.Infof("Processing email queue: %d emails pending", pending)
	}

	for {
		select {
		case <-q.done:
			q.setIdle()
			return
		default:
		}

		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.active = false
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.process(task)

		// Spacing between successive sends avoids burst rate limiting
		// at the mail provider.
		select {
		case <-q.done:
			q.setIdle()
			return
		case <-time.After(q.sendSpacing):
		}
	}
}

func (q *Queue) process(task *models.NotificationTask) {
	subject, body, err := Render(task)
	if err != nil {
		q.logger.WithError(err).Errorf("Discarding notification task %s: unrenderable", task.ID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = q.mailer.Send(ctx, task.Email, subject, body)
	if err == nil {
		q.logger.LogEmailEvent(string(task.Kind), task.Email, task.Attempts+1, true)
		return
	}

	task.Attempts++
	q.logger.WithError(err).LogEmailEvent(string(task.Kind), task.Email, task.Attempts, false)

	if task.Attempts >= task.MaxAttempts {
		q.logger.Errorf("Email permanently failed after %d attempts: %s to %s",
			task.MaxAttempts, task.Kind, task.Email)
		return
	}

	q.scheduleRetry(task)
}

// scheduleRetry re-inserts the task at the front of the queue after
// retryBase*attempts (5s, 10s for the default base), then wakes the worker.
func (q *Queue) scheduleRetry(task *models.NotificationTask) {
	delay := q.retryBase * time.Duration(task.Attempts)
	q.logger.Infof("Retrying email (attempt %d/%d) in %s", task.Attempts+1, task.MaxAttempts, delay)

	q.mu.Lock()
	defer q.mu.Unlock()

	select {
	case <-q.done:
		return
	default:
	}

	q.timers[task.ID] = time.AfterFunc(delay, func() {
		q.mu.Lock()
		delete(q.timers, task.ID)
		q.tasks = append([]*models.NotificationTask{task}, q.tasks...)
		q.mu.Unlock()

		q.signal()
	})
}

func (q *Queue) setIdle() {
	q.mu.Lock()
	q.active = false
	q.mu.Unlock()
}
