package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// pgUniqueViolation код ошибки PostgreSQL при нарушении уникального ограничения
const pgUniqueViolation = "23505"

// Repository слот-леджер: таблица slot_reservations с уникальным ключом
// (doctor_id, slot_date, slot_time). Атомарность резервирования обеспечивает
// сама БД — два конкурентных Reserve на один ключ не могут оба пройти
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Reserve атомарно занимает слот.
// INSERT ... ON CONFLICT DO NOTHING: при занятом слоте вставка не происходит
// и возвращается ErrSlotTaken. Конкурентная вставка того же ключа внутри
// транзакции может проявиться и как unique violation — трактуется так же
func (r *Repository) Reserve(ctx context.Context, key domain.SlotKey) (*domain.SlotReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_reservations").
		Columns(
			"doctor_id",
			"slot_date",
			"slot_time",
		).
		Values(
			key.DoctorID,
			key.SlotDate,
			key.SlotTime,
		).
		Suffix("ON CONFLICT (doctor_id, slot_date, slot_time) DO NOTHING RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - build insert query: %v", ErrBuildQuery, err)
	}

	res := domain.SlotReservation{
		DoctorID: key.DoctorID,
		SlotDate: key.SlotDate,
		SlotTime: key.SlotTime,
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt)

	if err == sql.ErrNoRows {
		// Конфликт: слот уже занят
		return nil, ErrSlotTaken
	}
	if isUniqueViolation(err) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	return &res, nil
}

// LinkAppointment привязывает резервацию к созданной записи.
// Вызывается в той же транзакции, что и Reserve
func (r *Repository) LinkAppointment(ctx context.Context, reservationID, appointmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_reservations").
		Set("appointment_id", appointmentID).
		Where(squirrel.Eq{"id": reservationID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LinkAppointment - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: LinkAppointment - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: LinkAppointment - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// Release освобождает слот
func (r *Repository) Release(ctx context.Context, key domain.SlotKey) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_reservations").
		Where(squirrel.Eq{
			"doctor_id": key.DoctorID,
			"slot_date": key.SlotDate,
			"slot_time": key.SlotTime,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// GetByDoctorAndDate возвращает занятые слоты врача на дату,
// отсортированные по времени создания
func (r *Repository) GetByDoctorAndDate(ctx context.Context, doctorID int64, date types.SlotDate) ([]*domain.SlotReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"doctor_id",
		"slot_date",
		"slot_time",
		"appointment_id",
		"created_at",
	).
		From("slot_reservations").
		Where(squirrel.Eq{
			"doctor_id": doctorID,
			"slot_date": date,
		}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetAllByDoctor возвращает все занятые слоты врача (для отображения занятости)
func (r *Repository) GetAllByDoctor(ctx context.Context, doctorID int64) ([]*domain.SlotReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"doctor_id",
		"slot_date",
		"slot_time",
		"appointment_id",
		"created_at",
	).
		From("slot_reservations").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		OrderBy("slot_date ASC, created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByDoctor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByDoctor - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// scanReservations сканирует результаты запроса в слайс резерваций
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.SlotReservation, error) {
	reservations := make([]*domain.SlotReservation, 0)

	for rows.Next() {
		var res domain.SlotReservation
		var createdAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.DoctorID,
			&res.SlotDate,
			&res.SlotTime,
			&res.AppointmentID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
