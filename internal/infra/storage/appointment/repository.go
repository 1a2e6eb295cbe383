package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"id",
	"user_id",
	"doctor_id",
	"slot_date",
	"slot_time",
	"amount",
	"cancelled",
	"payment",
	"payment_intent_id",
	"payment_status",
	"is_completed",
	"user_name",
	"user_email",
	"doctor_name",
	"doctor_speciality",
	"doctor_degree",
	"doctor_fee",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на приём.
// Все переходы состояния (отмена, оплата) — условные UPDATE с проверкой
// RowsAffected: конкурирующие переходы на одной записи не могут пройти оба
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись на приём.
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"user_id",
			"doctor_id",
			"slot_date",
			"slot_time",
			"amount",
			"payment_status",
			"user_name",
			"user_email",
			"doctor_name",
			"doctor_speciality",
			"doctor_degree",
			"doctor_fee",
		).
		Values(
			appt.UserID,
			appt.DoctorID,
			appt.SlotDate,
			appt.SlotTime,
			appt.Amount,
			domain.PaymentStatusNone,
			appt.UserName,
			appt.UserEmail,
			appt.DoctorName,
			appt.DoctorSpeciality,
			appt.DoctorDegree,
			appt.DoctorFee,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.PaymentStatus = domain.PaymentStatusNone
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appt, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}
	return appt, nil
}

// GetByUserID получает записи пациента, новые первыми
func (r *Repository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetAllWithFilter получает записи с фильтрацией (административная выборка)
func (r *Repository) GetAllWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments")

	if filter.DoctorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"doctor_id": *filter.DoctorID})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.SlotDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": *filter.SlotDate})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"cancelled": false})
	}

	query, args, err := selectBuilder.
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// MarkCancelled переводит запись в cancelled=true.
// Переход одноразовый: повторная отмена и отмена завершённой записи не проходят
func (r *Repository) MarkCancelled(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("cancelled", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":           id,
			"cancelled":    false,
			"is_completed": false,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return r.classifyCancelFailure(ctx, id)
	}
	return nil
}

// AttachPaymentIntent привязывает payment intent и переводит оплату в pending.
// payment_intent_id проставляется ровно один раз
func (r *Repository) AttachPaymentIntent(ctx context.Context, id int64, intentID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("payment_intent_id", intentID).
		Set("payment_status", domain.PaymentStatusPending).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":        id,
			"cancelled": false,
			"payment":   false,
		}).
		Where("payment_intent_id IS NULL").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachPaymentIntent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AttachPaymentIntent - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AttachPaymentIntent - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return r.classifyPaymentFailure(ctx, id, "", true)
	}
	return nil
}

// MarkPaid монотонный переход в оплаченное состояние.
// Проходит только если запись не отменена, не оплачена и intent совпадает
// с привязанным (или привязки ещё не было — тогда intent проставляется)
func (r *Repository) MarkPaid(ctx context.Context, id int64, intentID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("payment", true).
		Set("payment_status", domain.PaymentStatusCompleted).
		Set("payment_intent_id", squirrel.Expr("COALESCE(payment_intent_id, ?)", intentID)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":        id,
			"cancelled": false,
			"payment":   false,
		}).
		Where(squirrel.Or{
			squirrel.Expr("payment_intent_id IS NULL"),
			squirrel.Eq{"payment_intent_id": intentID},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return r.classifyPaymentFailure(ctx, id, intentID, false)
	}
	return nil
}

// MarkPaymentFailed переводит оплату в failed.
// Никогда не понижает завершённую оплату: failed после completed не проходит
func (r *Repository) MarkPaymentFailed(ctx context.Context, id int64, intentID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("payment_status", domain.PaymentStatusFailed).
		Set("payment_intent_id", squirrel.Expr("COALESCE(payment_intent_id, ?)", intentID)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":      id,
			"payment": false,
		}).
		Where(squirrel.NotEq{"payment_status": domain.PaymentStatusCompleted}).
		Where(squirrel.Or{
			squirrel.Expr("payment_intent_id IS NULL"),
			squirrel.Eq{"payment_intent_id": intentID},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPaymentFailed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPaymentFailed - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaymentFailed - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return r.classifyPaymentFailure(ctx, id, intentID, false)
	}
	return nil
}

// classifyCancelFailure разбирает, почему условная отмена не прошла
func (r *Repository) classifyCancelFailure(ctx context.Context, id int64) error {
	appt, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appt.Cancelled {
		return ErrAlreadyCancelled
	}
	if appt.IsCompleted {
		return ErrAlreadyCompleted
	}
	return fmt.Errorf("%w: MarkCancelled - no rows affected for id=%d", ErrExecQuery, id)
}

// classifyPaymentFailure разбирает, почему условный платёжный переход не прошёл
func (r *Repository) classifyPaymentFailure(ctx context.Context, id int64, intentID string, attaching bool) error {
	appt, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appt.Payment {
		return ErrAlreadyPaid
	}
	if appt.Cancelled {
		return ErrAlreadyCancelled
	}
	if attaching && appt.PaymentIntentID != nil {
		return ErrIntentAlreadyAttached
	}
	if !attaching && appt.PaymentIntentID != nil && intentID != "" && *appt.PaymentIntentID != intentID {
		return ErrIntentMismatch
	}
	return fmt.Errorf("%w: payment transition - no rows affected for id=%d", ErrExecQuery, id)
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.DoctorID,
		&appt.SlotDate,
		&appt.SlotTime,
		&appt.Amount,
		&appt.Cancelled,
		&appt.Payment,
		&appt.PaymentIntentID,
		&appt.PaymentStatus,
		&appt.IsCompleted,
		&appt.UserName,
		&appt.UserEmail,
		&appt.DoctorName,
		&appt.DoctorSpeciality,
		&appt.DoctorDegree,
		&appt.DoctorFee,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time
	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
