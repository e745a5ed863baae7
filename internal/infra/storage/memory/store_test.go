package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/ptr"
)

var monday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return NewClinic(2,
		&domain.TimeBlock{StartTime: "10:00", EndTime: "10:40"},
		&domain.TimeBlock{StartTime: "09:00", EndTime: "09:40"},
	)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	blocks, err := s.ListTimeBlocks(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "09:00", blocks[0].StartTime.String())
	assert.Equal(t, int64(2), blocks[0].ID)

	spaces, err := s.ListSpaces(ctx)
	require.NoError(t, err)
	require.Len(t, spaces, domain.SpaceCapacity)
	assert.Equal(t, int64(1), spaces[0].ID)

	_, err = s.GetPatient(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
	_, err = s.GetTherapist(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrTherapistNotFound)
	_, err = s.GetTimeBlock(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrTimeBlockNotFound)
}

func TestResourceQueries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	regular := s.AddPatient(&domain.Patient{Name: "A"})
	special := s.AddPatient(&domain.Patient{Name: "B", RequiresSpecialHandling: true})

	_, err := s.Create(ctx, &domain.Booking{PatientID: regular.ID, TherapistID: 1, SpaceID: 3, BlockID: 1, Date: monday, MachineID: ptr.Ptr(int64(1))})
	require.NoError(t, err)
	_, err = s.Create(ctx, &domain.Booking{PatientID: special.ID, TherapistID: 2, SpaceID: 1, BlockID: 1, Date: monday.Add(5 * time.Hour)})
	require.NoError(t, err)

	spaces, err := s.OccupiedSpaces(ctx, monday, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, spaces)

	count, err := s.TherapistBookingCount(ctx, monday, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hasSpecial, err := s.TherapistHasSpecialHandlingOccupant(ctx, monday, 1, 2)
	require.NoError(t, err)
	assert.True(t, hasSpecial)
	hasSpecial, err = s.TherapistHasSpecialHandlingOccupant(ctx, monday, 1, 1)
	require.NoError(t, err)
	assert.False(t, hasSpecial)

	inUse, err := s.MachinesInUse(ctx, monday, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inUse)

	free, err := s.FirstFreeMachine(ctx, monday, 1)
	require.NoError(t, err)
	require.NotNil(t, free)
	assert.Equal(t, int64(2), *free)

	booked, err := s.PatientBookedOn(ctx, regular.ID, monday)
	require.NoError(t, err)
	assert.True(t, booked)
	booked, err = s.PatientBookedOn(ctx, regular.ID, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, booked)

	// Другой блок не затронут
	spaces, err = s.OccupiedSpaces(ctx, monday, 2)
	require.NoError(t, err)
	assert.Empty(t, spaces)
}

func TestCreate_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Create(ctx, &domain.Booking{PatientID: 1, TherapistID: 1, SpaceID: 1, BlockID: 1, Date: monday, MachineID: ptr.Ptr(int64(1))})
	require.NoError(t, err)

	tests := []struct {
		name    string
		booking domain.Booking
	}{
		{"same space", domain.Booking{PatientID: 2, TherapistID: 2, SpaceID: 1, BlockID: 1, Date: monday}},
		{"same machine", domain.Booking{PatientID: 2, TherapistID: 2, SpaceID: 2, BlockID: 1, Date: monday, MachineID: ptr.Ptr(int64(1))}},
		{"same patient same day", domain.Booking{PatientID: 1, TherapistID: 2, SpaceID: 2, BlockID: 2, Date: monday}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.booking
			_, err := s.Create(ctx, &b)
			assert.ErrorIs(t, err, domain.ErrSlotConflict)
		})
	}
	assert.Equal(t, 1, s.Count())
}

func TestDoSerializable_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	err := s.DoSerializable(ctx, func(txCtx context.Context) error {
		_, err := s.Create(txCtx, &domain.Booking{PatientID: 1, TherapistID: 1, SpaceID: 1, BlockID: 1, Date: monday})
		require.NoError(t, err)

		// Внутри транзакции запись видна, снаружи нет
		spaces, err := s.OccupiedSpaces(txCtx, monday, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, spaces)
		assert.Equal(t, 0, s.Count())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())

	boom := errors.New("boom")
	err = s.DoSerializable(ctx, func(txCtx context.Context) error {
		_, err := s.Create(txCtx, &domain.Booking{PatientID: 2, TherapistID: 1, SpaceID: 2, BlockID: 1, Date: monday})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Count())
}

func TestBookingReads(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	tuesday := monday.AddDate(0, 0, 1)
	first, err := s.Create(ctx, &domain.Booking{PatientID: 1, TherapistID: 1, SpaceID: 1, BlockID: 1, Date: tuesday})
	require.NoError(t, err)
	_, err = s.Create(ctx, &domain.Booking{PatientID: 1, TherapistID: 1, SpaceID: 1, BlockID: 1, Date: monday})
	require.NoError(t, err)
	_, err = s.Create(ctx, &domain.Booking{PatientID: 2, TherapistID: 2, SpaceID: 2, BlockID: 1, Date: monday})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, tuesday, got.Date)

	_, err = s.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	patientBookings, err := s.GetByPatient(ctx, 1)
	require.NoError(t, err)
	require.Len(t, patientBookings, 2)
	assert.Equal(t, monday, patientBookings[0].Date)

	therapistBookings, err := s.GetByTherapistWithFilter(ctx, domain.TherapistBookingsFilter{
		TherapistID: 1,
		From:        &tuesday,
	})
	require.NoError(t, err)
	require.Len(t, therapistBookings, 1)
	assert.Equal(t, first.ID, therapistBookings[0].ID)
}
