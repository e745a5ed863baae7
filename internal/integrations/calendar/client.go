// Package calendar публикует сессии плана лечения в Google Calendar.
package calendar

import (
	"context"
	"fmt"
	"time"

	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

const (
	defaultCalendarID = "primary"
	defaultTimeout    = 10 * time.Second
	sendUpdates       = "all"
)

// Config параметры клиента
type Config struct {
	CredentialsFile string
	CalendarID      string
	Timezone        string
	Timeout         time.Duration
}

// Client клиент Google Calendar
type Client struct {
	service    *gcalendar.Service
	calendarID string
	location   *time.Location
	timeout    time.Duration
	log        Logger
}

// NewClient создает клиента по файлу сервисного аккаунта
func NewClient(ctx context.Context, cfg Config, log Logger) (*Client, error) {
	svc, err := gcalendar.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gcalendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create calendar service: %v", ErrInternal, err)
	}

	return NewClientWithService(svc, cfg, log)
}

// NewClientWithService создает клиента поверх готового сервиса
func NewClientWithService(svc *gcalendar.Service, cfg Config, log Logger) (*Client, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %v", ErrInternal, cfg.Timezone, err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = defaultCalendarID
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		service:    svc,
		calendarID: calendarID,
		location:   loc,
		timeout:    timeout,
		log:        log,
	}, nil
}

// PublishSessions создает по событию на каждую сессию и возвращает ID созданных событий
// Останавливается на первой ошибке, уже созданные события не откатываются
func (c *Client) PublishSessions(
	ctx context.Context,
	patient *domain.Patient,
	bookings []*domain.Booking,
	block *domain.TimeBlock,
) ([]string, error) {
	eventIDs := make([]string, 0, len(bookings))

	for _, b := range bookings {
		id, err := c.insert(ctx, c.buildEvent(patient, b, block))
		if err != nil {
			return eventIDs, fmt.Errorf("%w: booking id=%d date=%s: %v",
				ErrPublish, b.ID, b.Date.Format(domain.DateFormat), err)
		}
		c.log.Debug("Calendar: created event id=%s for booking id=%d", id, b.ID)
		eventIDs = append(eventIDs, id)
	}

	return eventIDs, nil
}

func (c *Client) insert(ctx context.Context, event *gcalendar.Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.service.Events.
		Insert(c.calendarID, event).
		SendUpdates(sendUpdates).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	return created.Id, nil
}

func (c *Client) buildEvent(patient *domain.Patient, b *domain.Booking, block *domain.TimeBlock) *gcalendar.Event {
	start := block.StartTime.On(b.Date, c.location)
	end := block.EndTime.On(b.Date, c.location)

	event := &gcalendar.Event{
		Summary:     fmt.Sprintf("Therapy session: %s", patient.Name),
		Description: fmt.Sprintf("Booking #%d, space %d", b.ID, b.SpaceID),
		Start: &gcalendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		End: &gcalendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
	}
	if b.MachineID != nil {
		event.Description += fmt.Sprintf(", machine %d", *b.MachineID)
	}
	if patient.Email != "" {
		event.Attendees = []*gcalendar.EventAttendee{{Email: patient.Email}}
	}

	return event
}
