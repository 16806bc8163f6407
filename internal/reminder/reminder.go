// Package reminder runs the periodic due-item check and notifies the
// configured chat when reviews are waiting.
package reminder

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/lingobot/pkg/models"
)

// DefaultReminderHour is the hour of day (UTC) reminders are sent when
// REMINDER_HOUR is not set.
const DefaultReminderHour = 9

// Notifier delivers the reminder to the user.
type Notifier interface {
	SendDueReminder(recognition, production int) error
}

// PoolSource loads a snapshot of the persisted pool. The check runs on its
// own goroutine, so it reads storage rather than the bot's live pool.
type PoolSource interface {
	LoadPool(ctx context.Context) (*models.Pool, error)
}

// Reminder schedules the hourly due-item check.
type Reminder struct {
	scheduler *gocron.Scheduler
	source    PoolSource
	notifier  Notifier
}

// New creates a reminder instance.
func New(source PoolSource, notifier Notifier) *Reminder {
	return &Reminder{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		notifier:  notifier,
	}
}

// Start begins running the scheduled check in the background.
func (r *Reminder) Start() {
	r.scheduler.Every(1).Hour().Do(r.checkAndNotify)
	r.scheduler.StartAsync()
}

// Stop terminates the scheduled check.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

func (r *Reminder) checkAndNotify() {
	reminderHour := DefaultReminderHour
	if hourStr := os.Getenv("REMINDER_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			reminderHour = h
		}
	}
	if time.Now().UTC().Hour() != reminderHour {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := r.source.LoadPool(ctx)
	if err != nil {
		log.Printf("Error loading pool for due reminder: %v", err)
		return
	}

	recognition, production := CountDue(pool, time.Now())
	if recognition == 0 && production == 0 {
		return
	}
	if err := r.notifier.SendDueReminder(recognition, production); err != nil {
		log.Printf("Error sending due reminder: %v", err)
	}
}

// CountDue returns how many items are due for review in each study mode.
func CountDue(pool *models.Pool, now time.Time) (recognition, production int) {
	for _, item := range pool.Items {
		if item.ScheduleFor(models.Recognition).Due(now) {
			recognition++
		}
		if item.ScheduleFor(models.Production).Due(now) {
			production++
		}
	}
	return recognition, production
}
