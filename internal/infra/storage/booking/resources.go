package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/psqlbuilder"
)

// Запросы занятости ресурсов в слоте (дата, блок).
// Агрегаты нельзя блокировать через FOR UPDATE, конкурентные коммиты
// сериализуются уровнем изоляции SERIALIZABLE и уникальными индексами bookings

func slotWhere(builder squirrel.SelectBuilder, prefix string, date time.Time, blockID int64) squirrel.SelectBuilder {
	return builder.
		Where(squirrel.Eq{prefix + "booking_date": domain.DateOnly(date)}).
		Where(squirrel.Eq{prefix + "block_id": blockID})
}

// OccupiedSpaces ID занятых кабинетов в слоте по возрастанию
func (r *Repository) OccupiedSpaces(ctx context.Context, date time.Time, blockID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildOccupiedSpacesQuery(date, blockID)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedSpaces - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedSpaces - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: OccupiedSpaces - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: OccupiedSpaces - rows iteration: %w", ErrScanRow, err)
	}

	return ids, nil
}

// TherapistBookingCount количество бронирований терапевта в слоте
func (r *Repository) TherapistBookingCount(ctx context.Context, date time.Time, blockID, therapistID int64) (int, error) {
	builder := slotWhere(psqlbuilder.Select("COUNT(*)").From(table), "", date, blockID).
		Where(squirrel.Eq{"therapist_id": therapistID})

	return r.count(ctx, "TherapistBookingCount", builder)
}

// TherapistHasSpecialHandlingOccupant занят ли терапевт в слоте пациентом с особым режимом
func (r *Repository) TherapistHasSpecialHandlingOccupant(ctx context.Context, date time.Time, blockID, therapistID int64) (bool, error) {
	count, err := r.count(ctx, "TherapistHasSpecialHandlingOccupant", buildSpecialOccupantQuery(date, blockID, therapistID))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MachinesInUse количество бронирований с аппаратом в слоте
func (r *Repository) MachinesInUse(ctx context.Context, date time.Time, blockID int64) (int, error) {
	builder := slotWhere(psqlbuilder.Select("COUNT(*)").From(table), "", date, blockID).
		Where(squirrel.NotEq{"machine_id": nil})

	return r.count(ctx, "MachinesInUse", builder)
}

// FirstFreeMachine аппарат с наименьшим ID, не занятый в слоте, или nil
func (r *Repository) FirstFreeMachine(ctx context.Context, date time.Time, blockID int64) (*int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildFirstFreeMachineQuery(date, blockID)
	if err != nil {
		return nil, fmt.Errorf("%w: FirstFreeMachine - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FirstFreeMachine - scan row: %w", ErrScanRow, err)
	}

	return &id, nil
}

// PatientBookedOn есть ли у пациента сессия на дату в любом блоке
func (r *Repository) PatientBookedOn(ctx context.Context, patientID int64, date time.Time) (bool, error) {
	builder := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"patient_id": patientID}).
		Where(squirrel.Eq{"booking_date": domain.DateOnly(date)})

	count, err := r.count(ctx, "PatientBookedOn", builder)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) count(ctx context.Context, op string, builder squirrel.SelectBuilder) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %s - scan count: %w", ErrScanRow, op, err)
	}

	return count, nil
}

func buildOccupiedSpacesQuery(date time.Time, blockID int64) (string, []interface{}, error) {
	return slotWhere(psqlbuilder.Select("space_id").Distinct().From(table), "", date, blockID).
		OrderBy("space_id ASC").
		ToSql()
}

func buildSpecialOccupantQuery(date time.Time, blockID, therapistID int64) squirrel.SelectBuilder {
	return slotWhere(
		psqlbuilder.Select("COUNT(*)").
			From(table+" b").
			Join("patients p ON p.id = b.patient_id"),
		"b.", date, blockID,
	).
		Where(squirrel.Eq{"b.therapist_id": therapistID}).
		Where(squirrel.Eq{"p.requires_special_handling": true})
}

func buildFirstFreeMachineQuery(date time.Time, blockID int64) (string, []interface{}, error) {
	// Подзапрос собирается с плейсхолдерами "?", внешний builder перенумерует их в $n
	used := slotWhere(squirrel.Select("1").From(table+" b"), "b.", date, blockID).
		Where("b.machine_id = m.id")

	usedSQL, usedArgs, err := used.ToSql()
	if err != nil {
		return "", nil, err
	}

	return psqlbuilder.Select("m.id").
		From("machines m").
		Where(squirrel.Expr("NOT EXISTS ("+usedSQL+")", usedArgs...)).
		OrderBy("m.id ASC").
		Limit(1).
		ToSql()
}
