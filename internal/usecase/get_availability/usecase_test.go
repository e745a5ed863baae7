package get_availability

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/logger"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/ptr"
)

var monday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("", "debug", logger.WithOutput(io.Discard))
	require.NoError(t, err)
	return l
}

type fixture struct {
	store   *memory.Store
	uc      *UseCase
	regular *domain.Patient
	machine *domain.Patient
	special *domain.Patient
	block   *domain.TimeBlock
}

func newFixture(t *testing.T, maxRangeDays int) *fixture {
	store := memory.NewClinic(2, &domain.TimeBlock{StartTime: "09:00", EndTime: "09:40"})
	blocks, err := store.ListTimeBlocks(context.Background())
	require.NoError(t, err)

	return &fixture{
		store:   store,
		uc:      NewUseCase(store, store, maxRangeDays, newTestLogger(t)),
		regular: store.AddPatient(&domain.Patient{Name: "Regular"}),
		machine: store.AddPatient(&domain.Patient{Name: "Machine", UsesMachine: true}),
		special: store.AddPatient(&domain.Patient{Name: "Special", RequiresSpecialHandling: true}),
		block:   blocks[0],
	}
}

func (f *fixture) book(t *testing.T, patientID, therapistID, spaceID int64, machineID *int64, date time.Time) {
	t.Helper()
	_, err := f.store.Create(context.Background(), &domain.Booking{
		PatientID:   patientID,
		TherapistID: therapistID,
		SpaceID:     spaceID,
		BlockID:     f.block.ID,
		MachineID:   machineID,
		Date:        date,
	})
	require.NoError(t, err)
}

func TestExecute_EmptyStore(t *testing.T) {
	f := newFixture(t, 0)

	resp, err := f.uc.Execute(context.Background(), &Request{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	require.Equal(t, 3, resp.Total)
	for i, slot := range resp.Slots {
		assert.Equal(t, monday.AddDate(0, 0, i), slot.Date)
		assert.Equal(t, f.block.ID, slot.BlockID)
		assert.Equal(t, "09:00", slot.HourStart.String())
		assert.Equal(t, "09:40", slot.HourEnd.String())
		assert.Equal(t, domain.SpaceCapacity, slot.SpacesFree)
		assert.Nil(t, slot.MachinesFree)
	}
}

func TestExecute_SingleDayRange(t *testing.T) {
	f := newFixture(t, 0)

	resp, err := f.uc.Execute(context.Background(), &Request{StartDate: monday, EndDate: monday})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestExecute_EmptyCatalog(t *testing.T) {
	store := memory.NewClinic(1)
	uc := NewUseCase(store, store, 0, newTestLogger(t))

	resp, err := uc.Execute(context.Background(), &Request{StartDate: monday, EndDate: monday.AddDate(0, 0, 6)})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 0, resp.Total)
}

func TestExecute_SpacesExhausted(t *testing.T) {
	f := newFixture(t, 0)
	for i := int64(1); i <= domain.SpaceCapacity; i++ {
		f.book(t, 100+i, 1+i%2, i, nil, monday)
	}

	resp, err := f.uc.Execute(context.Background(), &Request{StartDate: monday, EndDate: monday.AddDate(0, 0, 1)})
	require.NoError(t, err)

	require.Equal(t, 1, resp.Total)
	assert.Equal(t, monday.AddDate(0, 0, 1), resp.Slots[0].Date)
}

func TestExecute_TherapistRules(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, f *fixture)
		available bool
	}{
		{
			name:      "free therapist",
			setup:     func(t *testing.T, f *fixture) {},
			available: true,
		},
		{
			name: "one regular occupant leaves room",
			setup: func(t *testing.T, f *fixture) {
				f.book(t, f.regular.ID, 1, 1, nil, monday)
			},
			available: true,
		},
		{
			name: "two occupants exhaust capacity",
			setup: func(t *testing.T, f *fixture) {
				f.book(t, f.regular.ID, 1, 1, nil, monday)
				f.book(t, f.machine.ID, 1, 2, nil, monday)
			},
			available: false,
		},
		{
			name: "special occupant reserves therapist",
			setup: func(t *testing.T, f *fixture) {
				f.book(t, f.special.ID, 1, 1, nil, monday)
			},
			available: false,
		},
		{
			name: "other therapist busy does not matter",
			setup: func(t *testing.T, f *fixture) {
				f.book(t, f.special.ID, 2, 1, nil, monday)
			},
			available: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			tt.setup(t, f)

			resp, err := f.uc.Execute(context.Background(), &Request{
				StartDate:   monday,
				EndDate:     monday,
				TherapistID: ptr.Ptr(int64(1)),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.available, resp.Total == 1)
		})
	}
}

func TestExecute_MachinesOnlyForMachinePatients(t *testing.T) {
	f := newFixture(t, 0)
	for i := int64(1); i <= domain.MachineCapacity; i++ {
		f.book(t, 200+i, 1, i, ptr.Ptr(i), monday)
	}
	f.book(t, 300, 2, 5, nil, monday.AddDate(0, 0, 1))

	// Пациенту без аппарата слот доступен, аппараты не сообщаются
	resp, err := f.uc.Execute(context.Background(), &Request{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 1),
		PatientID: ptr.Ptr(f.regular.ID),
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Nil(t, resp.Slots[0].MachinesFree)
	assert.Equal(t, domain.SpaceCapacity-domain.MachineCapacity, resp.Slots[0].SpacesFree)

	// Пациенту с аппаратом понедельник недоступен
	resp, err = f.uc.Execute(context.Background(), &Request{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 1),
		PatientID: ptr.Ptr(f.machine.ID),
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, monday.AddDate(0, 0, 1), resp.Slots[0].Date)
	require.NotNil(t, resp.Slots[0].MachinesFree)
	assert.Equal(t, domain.MachineCapacity, *resp.Slots[0].MachinesFree)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		maxDays int
		wantErr error
	}{
		{
			name:    "start after end",
			req:     &Request{StartDate: monday.AddDate(0, 0, 1), EndDate: monday},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "range too long",
			req:     &Request{StartDate: monday, EndDate: monday.AddDate(0, 0, 7)},
			maxDays: 7,
			wantErr: ErrInvalidRange,
		},
		{
			name:    "missing dates",
			req:     &Request{StartDate: monday},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "non-positive therapist",
			req:     &Request{StartDate: monday, EndDate: monday, TherapistID: ptr.Ptr(int64(0))},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown patient",
			req:     &Request{StartDate: monday, EndDate: monday, PatientID: ptr.Ptr(int64(999))},
			wantErr: ErrPatientNotFound,
		},
		{
			name:    "unknown therapist",
			req:     &Request{StartDate: monday, EndDate: monday, TherapistID: ptr.Ptr(int64(999))},
			wantErr: ErrTherapistNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.maxDays)
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_RangeAtLimitIsAllowed(t *testing.T) {
	f := newFixture(t, 7)
	resp, err := f.uc.Execute(context.Background(), &Request{StartDate: monday, EndDate: monday.AddDate(0, 0, 6)})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Total)
}

func TestExecute_DefaultRangeLimit(t *testing.T) {
	f := newFixture(t, 0)

	resp, err := f.uc.Execute(context.Background(), &Request{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, domain.DefaultMaxRangeDays-1),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxRangeDays, resp.Total)

	_, err = f.uc.Execute(context.Background(), &Request{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, domain.DefaultMaxRangeDays),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_NegativeRangeLimitUsesDefault(t *testing.T) {
	f := newFixture(t, -5)

	_, err := f.uc.Execute(context.Background(), &Request{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 400),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_CancelledContext(t *testing.T) {
	f := newFixture(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := f.uc.Execute(ctx, &Request{StartDate: monday, EndDate: monday.AddDate(0, 0, 30)})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_NotFoundUnwrapsToCommonSentinel(t *testing.T) {
	assert.True(t, errors.Is(ErrPatientNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrTherapistNotFound, ErrNotFound))
}

type failingResources struct {
	ResourceQuery
}

func (failingResources) OccupiedSpaces(context.Context, time.Time, int64) ([]int64, error) {
	return nil, errors.New("connection reset")
}

func TestExecute_ResourceFailure(t *testing.T) {
	store := memory.NewClinic(1, &domain.TimeBlock{StartTime: "09:00", EndTime: "09:40"})
	uc := NewUseCase(failingResources{}, store, 0, newTestLogger(t))

	_, err := uc.Execute(context.Background(), &Request{StartDate: monday, EndDate: monday})
	assert.ErrorIs(t, err, ErrInternal)
}
