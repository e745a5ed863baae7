package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"patient_id",
	"therapist_id",
	"space_id",
	"block_id",
	"machine_id",
	"booking_date",
	"created_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Уникальные индексы таблицы гарантируют эксклюзивность кабинета и аппарата в слоте
// и одну сессию пациента в день, нарушение возвращается как ErrSlotConflict
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildInsertQuery(booking)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *booking
	created.Date = domain.DateOnly(booking.Date)

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&created.ID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %w", ErrSlotConflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	created.CreatedAt = createdAt.Time
	return &created, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByPatient получает сессии пациента по возрастанию даты
func (r *Repository) GetByPatient(ctx context.Context, patientID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("booking_date ASC", "block_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPatient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPatient - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByTherapistWithFilter получает сессии терапевта с фильтрацией по периоду
//
// Примеры использования:
//
// 1. Все сессии терапевта:
//    filter := domain.TherapistBookingsFilter{TherapistID: 1}
//
// 2. Сессии за неделю:
//    filter := domain.TherapistBookingsFilter{TherapistID: 1, From: &monday, To: &sunday}
func (r *Repository) GetByTherapistWithFilter(ctx context.Context, filter domain.TherapistBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildTherapistQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func buildInsertQuery(booking *domain.Booking) (string, []interface{}, error) {
	var machineID interface{}
	if booking.MachineID != nil {
		machineID = *booking.MachineID
	}

	return psqlbuilder.Insert(table).
		Columns("patient_id", "therapist_id", "space_id", "block_id", "machine_id", "booking_date").
		Values(
			booking.PatientID,
			booking.TherapistID,
			booking.SpaceID,
			booking.BlockID,
			machineID,
			domain.DateOnly(booking.Date),
		).
		Suffix("RETURNING id, created_at").
		ToSql()
}

func buildTherapistQuery(filter domain.TherapistBookingsFilter) (string, []interface{}, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"therapist_id": filter.TherapistID})

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"booking_date": domain.DateOnly(*filter.From)})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"booking_date": domain.DateOnly(*filter.To)})
	}

	return builder.OrderBy("booking_date ASC", "block_id ASC", "id ASC").ToSql()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking   domain.Booking
		machineID sql.NullInt64
		createdAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.PatientID,
		&booking.TherapistID,
		&booking.SpaceID,
		&booking.BlockID,
		&machineID,
		&booking.Date,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if machineID.Valid {
		id := machineID.Int64
		booking.MachineID = &id
	}
	booking.Date = domain.DateOnly(booking.Date)
	booking.CreatedAt = createdAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows iteration: %w", ErrScanRow, err)
	}

	return bookings, nil
}
