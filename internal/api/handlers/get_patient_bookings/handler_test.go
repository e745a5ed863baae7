package get_patient_bookings

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
	store.AddPatient(&domain.Patient{ID: 2, Name: "B"})
	for _, day := range []int{3, 2} {
		_, err = store.Create(context.Background(), &domain.Booking{
			PatientID: 1, TherapistID: 1, SpaceID: 1, BlockID: 1,
			Date: time.Date(2040, 1, day, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	h := NewHandler(bookings.NewService(store, store, log), log)
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/patients/{patientId}/bookings", h.Handle).Methods(http.MethodGet)
	return r
}

func TestHandle_ListsByDate(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients/1/bookings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.BookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Total)
	assert.Equal(t, "2040-01-02", body.Bookings[0].Date)
	assert.Equal(t, "2040-01-03", body.Bookings[1].Date)
}

func TestHandle_Errors(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"no bookings", "/api/v1/patients/2/bookings", http.StatusOK},
		{"unknown patient", "/api/v1/patients/9/bookings", http.StatusNotFound},
		{"invalid id", "/api/v1/patients/x/bookings", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
