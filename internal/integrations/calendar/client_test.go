package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/logger"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/ptr"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []gcalendar.Event
	query  []string
}

func newTestClient(t *testing.T, failAfter int) (*Client, *recordedEvents) {
	t.Helper()
	return newTestClientWithOutput(t, failAfter, io.Discard)
}

func newTestClientWithOutput(t *testing.T, failAfter int, out io.Writer) (*Client, *recordedEvents) {
	t.Helper()
	rec := &recordedEvents{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		defer rec.mu.Unlock()

		if r.Method != http.MethodPost || r.URL.Path != "/calendars/clinic/events" {
			http.NotFound(w, r)
			return
		}
		if failAfter >= 0 && len(rec.events) >= failAfter {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":{"code":403,"message":"quota exceeded"}}`)
			return
		}

		var ev gcalendar.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rec.events = append(rec.events, ev)
		rec.query = append(rec.query, r.URL.Query().Get("sendUpdates"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"id":"evt-%d"}`, len(rec.events))
	}))
	t.Cleanup(srv.Close)

	svc, err := gcalendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	log, err := logger.New("", "debug", logger.WithOutput(out))
	require.NoError(t, err)

	client, err := NewClientWithService(svc, Config{
		CalendarID: "clinic",
		Timezone:   "UTC",
		Timeout:    time.Second,
	}, log)
	require.NoError(t, err)

	return client, rec
}

func sessions() (*domain.Patient, []*domain.Booking, *domain.TimeBlock) {
	patient := &domain.Patient{ID: 7, Name: "Ana", Email: "ana@example.com"}
	block := &domain.TimeBlock{ID: 1, StartTime: "09:00", EndTime: "09:40"}
	bookings := []*domain.Booking{
		{ID: 1, PatientID: 7, SpaceID: 1, BlockID: 1, Date: time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)},
		{ID: 2, PatientID: 7, SpaceID: 1, BlockID: 1, MachineID: ptr.Ptr(int64(2)), Date: time.Date(2030, 1, 8, 0, 0, 0, 0, time.UTC)},
	}
	return patient, bookings, block
}

func TestPublishSessions(t *testing.T) {
	client, rec := newTestClient(t, -1)
	patient, bookings, block := sessions()

	ids, err := client.PublishSessions(context.Background(), patient, bookings, block)
	require.NoError(t, err)
	assert.Equal(t, []string{"evt-1", "evt-2"}, ids)

	require.Len(t, rec.events, 2)
	first := rec.events[0]
	assert.Equal(t, "Therapy session: Ana", first.Summary)
	assert.Equal(t, "2030-01-07T09:00:00Z", first.Start.DateTime)
	assert.Equal(t, "2030-01-07T09:40:00Z", first.End.DateTime)
	assert.Equal(t, "UTC", first.Start.TimeZone)
	require.Len(t, first.Attendees, 1)
	assert.Equal(t, "ana@example.com", first.Attendees[0].Email)
	assert.Contains(t, rec.events[1].Description, "machine 2")
	assert.Equal(t, []string{"all", "all"}, rec.query)
}

func TestPublishSessions_StopsOnFirstError(t *testing.T) {
	client, _ := newTestClient(t, 1)
	patient, bookings, block := sessions()

	ids, err := client.PublishSessions(context.Background(), patient, bookings, block)
	assert.ErrorIs(t, err, ErrPublish)
	assert.Equal(t, []string{"evt-1"}, ids)
}

func TestPublishSessions_FailureIsReturnedNotLogged(t *testing.T) {
	var out bytes.Buffer
	client, _ := newTestClientWithOutput(t, 0, &out)
	patient, bookings, block := sessions()

	_, err := client.PublishSessions(context.Background(), patient, bookings, block)
	require.ErrorIs(t, err, ErrPublish)
	assert.Contains(t, err.Error(), bookings[0].Date.Format(domain.DateFormat))
	assert.NotContains(t, out.String(), "ERROR")
}

func TestNewClientWithService_UnknownTimezone(t *testing.T) {
	_, err := NewClientWithService(nil, Config{Timezone: "Mars/Olympus"}, nil)
	assert.ErrorIs(t, err, ErrInternal)
}
