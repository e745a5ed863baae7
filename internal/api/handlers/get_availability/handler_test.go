package get_availability

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailability "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/logger"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/ptr"
)

type stubUseCase struct {
	resp *getAvailability.Response
	err  error
	got  *getAvailability.Request
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	s.got = req
	return s.resp, s.err
}

func newHandler(t *testing.T, uc *stubUseCase) *Handler {
	t.Helper()
	log, err := logger.New("", "debug", logger.WithOutput(io.Discard))
	require.NoError(t, err)
	return NewHandler(uc, log)
}

func TestHandle_Success(t *testing.T) {
	day := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &getAvailability.Response{
		StartDate: day,
		EndDate:   day,
		Slots: []getAvailability.Slot{
			{Date: day, BlockID: 1, HourStart: "09:00", HourEnd: "09:40", SpacesFree: 9, MachinesFree: ptr.Ptr(3)},
		},
		Total: 1,
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?startDate=2030-01-07&endDate=2030-01-07&patientId=5", nil)
	rec := httptest.NewRecorder()
	newHandler(t, uc).Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got.PatientID)
	assert.Equal(t, int64(5), *uc.got.PatientID)
	assert.Nil(t, uc.got.TherapistID)

	var body AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Slots, 1)
	assert.Equal(t, "2030-01-07", body.Slots[0].Date)
	assert.Equal(t, "09:00", body.Slots[0].HourStart)
	assert.Equal(t, 9, body.Slots[0].SpacesFree)
	require.NotNil(t, body.Slots[0].MachinesFree)
	assert.Equal(t, 3, *body.Slots[0].MachinesFree)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
	}{
		{"missing dates", "startDate=2030-01-07", nil, http.StatusBadRequest},
		{"bad date", "startDate=07.01.2030&endDate=2030-01-07", nil, http.StatusBadRequest},
		{"bad patient id", "startDate=2030-01-07&endDate=2030-01-07&patientId=x", nil, http.StatusBadRequest},
		{"invalid range", "startDate=2030-01-08&endDate=2030-01-07", getAvailability.ErrInvalidRange, http.StatusBadRequest},
		{"patient not found", "startDate=2030-01-07&endDate=2030-01-07&patientId=9", getAvailability.ErrPatientNotFound, http.StatusNotFound},
		{"therapist not found", "startDate=2030-01-07&endDate=2030-01-07&therapistId=9", getAvailability.ErrTherapistNotFound, http.StatusNotFound},
		{"internal", "startDate=2030-01-07&endDate=2030-01-07", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{err: tt.err}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?"+tt.query, nil)
			rec := httptest.NewRecorder()

			newHandler(t, uc).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
