package get_booking

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/logger"
)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	log, err := logger.New("", "debug", logger.WithOutput(io.Discard))
	require.NoError(t, err)

	store := memory.NewClinic(1, &domain.TimeBlock{StartTime: "09:00", EndTime: "09:40"})
	store.AddPatient(&domain.Patient{ID: 1, Name: "A"})
	_, err = store.Create(context.Background(), &domain.Booking{
		PatientID: 1, TherapistID: 1, SpaceID: 1, BlockID: 1,
		Date: time.Date(2040, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	h := NewHandler(bookings.NewService(store, store, log), log)
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}", h.Handle).Methods(http.MethodGet)
	return r
}

func TestHandle(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"found", "/api/v1/bookings/1", http.StatusOK},
		{"not found", "/api/v1/bookings/42", http.StatusNotFound},
		{"invalid id", "/api/v1/bookings/abc", http.StatusBadRequest},
		{"zero id", "/api/v1/bookings/0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.PatientID)
	assert.Equal(t, "2040-01-02", body.Date)
	assert.Equal(t, "09:00", body.HourStart)
	assert.Equal(t, "09:40", body.HourEnd)
}
