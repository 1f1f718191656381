package waitlist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WaitlistService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// entryColumns полный список колонок записи листа ожидания
var entryColumns = []string{
	"id",
	"salon_id",
	"customer_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"service_id",
	"employee_id",
	"preferred_date",
	"preferred_time_start",
	"preferred_time_end",
	"status",
	"cooldown_until",
	"booking_id",
	"offer_token",
	"slot_date",
	"slot_start",
	"slot_end",
	"offer_employee_id",
	"notified_at",
	"expires_at",
	"offer_trigger",
	"from_status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями листа ожидания.
// Все переходы статусов выполняются одним условным UPDATE: если строка
// уже в другом состоянии, запрос не затрагивает ни одной строки и
// репозиторий возвращает ErrStaleEntry. Это единственный механизм
// взаимного исключения по записи (см. обработчики конфликтов в usecase).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись листа ожидания в статусе waiting
func (r *Repository) Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns(
			"salon_id",
			"customer_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"service_id",
			"employee_id",
			"preferred_date",
			"preferred_time_start",
			"preferred_time_end",
			"status",
		).
		Values(
			entry.SalonID,
			entry.CustomerID,
			entry.CustomerName,
			entry.CustomerEmail,
			entry.CustomerPhone,
			entry.ServiceID,
			entry.EmployeeID,
			entry.PreferredDate,
			entry.PreferredTimeStart,
			entry.PreferredTimeEnd,
			domain.StatusWaiting,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	entry.Status = domain.StatusWaiting
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return entry, nil
}

// GetByID получает запись по ID в рамках салона.
// Запись другого салона не видна - возвращается ErrEntryNotFound.
func (r *Repository) GetByID(ctx context.Context, salonID, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"id": id, "salon_id": salonID})

	// Внутри транзакции блокируем строку до конца транзакции
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := r.scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// GetByToken получает запись по токену активного оффера.
// Погашенный токен физически стерт из строки, поэтому для него
// возвращается ErrTokenNotFound - вызывающий код трактует это как invalid.
func (r *Repository) GetByToken(ctx context.Context, token string) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"offer_token": token})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := r.scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// ListBySalon получает записи салона с опциональной фильтрацией
// по статусу и предпочитаемой дате
func (r *Repository) ListBySalon(ctx context.Context, filter domain.EntriesFilter) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"salon_id": filter.SalonID}).
		OrderBy("created_at ASC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"preferred_date": *filter.Date})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySalon - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySalon - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// FindCandidates подбирает кандидатов на освободившийся слот.
// Возвращает записи в статусе waiting, подходящие по салону/услуге/дате,
// не находящиеся в cooldown-окне, в порядке FIFO (created_at ASC).
//
// Совместимость по мастеру: запись без предпочтения мастера подходит
// к любому слоту; запись с мастером - только к слоту этого мастера.
// Совместимость окна preferred_time_start/end проверяется вызывающим
// кодом по конкретным границам слота.
func (r *Repository) FindCandidates(ctx context.Context, filter domain.CandidateFilter, now time.Time) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{
			"salon_id":       filter.SalonID,
			"service_id":     filter.ServiceID,
			"preferred_date": filter.Date,
			"status":         domain.StatusWaiting,
		}).
		Where(squirrel.Or{
			squirrel.Eq{"cooldown_until": nil},
			squirrel.LtOrEq{"cooldown_until": now},
		}).
		OrderBy("created_at ASC")

	if filter.EmployeeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"employee_id": nil},
			squirrel.Eq{"employee_id": *filter.EmployeeID},
		})
	} else {
		// Слот без привязки к мастеру: записи с конкретным мастером исключаются
		selectBuilder = selectBuilder.Where(squirrel.Eq{"employee_id": nil})
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// TransitionToNotified выполняет переход waiting -> notified, записывая оффер.
// Условие UPDATE гарантирует, что из двух конкурентных выдач оффера
// пройдет ровно одна: проигравшая получит ErrStaleEntry.
func (r *Repository) TransitionToNotified(ctx context.Context, salonID, id int64, offer *domain.Offer) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.StatusNotified).
		Set("offer_token", offer.Token).
		Set("slot_date", offer.SlotDate).
		Set("slot_start", offer.SlotStart).
		Set("slot_end", offer.SlotEnd).
		Set("offer_employee_id", offer.EmployeeID).
		Set("notified_at", offer.NotifiedAt).
		Set("expires_at", offer.ExpiresAt).
		Set("offer_trigger", offer.Trigger).
		Set("from_status", offer.FromStatus).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":          id,
			"salon_id":    salonID,
			"status":      domain.StatusWaiting,
			"offer_token": nil,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TransitionToNotified - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, executor, "TransitionToNotified", query, args)
}

// ReleaseOffer снимает оффер с записи: переход notified -> newStatus
// со стиранием всех полей оффера (токен не может быть использован повторно).
// Опционально выставляет cooldown-окно (после отказа клиента).
func (r *Repository) ReleaseOffer(ctx context.Context, id int64, token string, newStatus domain.EntryStatus, cooldownUntil *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("waitlist_entries").
		Set("status", newStatus).
		Set("offer_token", nil).
		Set("slot_date", nil).
		Set("slot_start", nil).
		Set("slot_end", nil).
		Set("offer_employee_id", nil).
		Set("notified_at", nil).
		Set("expires_at", nil).
		Set("offer_trigger", nil).
		Set("from_status", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":          id,
			"status":      domain.StatusNotified,
			"offer_token": token,
		})

	if cooldownUntil != nil {
		updateBuilder = updateBuilder.Set("cooldown_until", *cooldownUntil)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseOffer - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, executor, "ReleaseOffer", query, args)
}

// MarkBooked выполняет переход notified -> booked, фиксируя созданную бронь.
// Оффер стирается: токен погашен.
func (r *Repository) MarkBooked(ctx context.Context, id int64, token string, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.StatusBooked).
		Set("booking_id", bookingID).
		Set("offer_token", nil).
		Set("slot_date", nil).
		Set("slot_start", nil).
		Set("slot_end", nil).
		Set("offer_employee_id", nil).
		Set("notified_at", nil).
		Set("expires_at", nil).
		Set("offer_trigger", nil).
		Set("from_status", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":          id,
			"status":      domain.StatusNotified,
			"offer_token": token,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, executor, "MarkBooked", query, args)
}

// Withdraw выполняет переход waiting|notified -> cancelled (отзыв клиентом
// или оператором). Живой оффер, если был, стирается.
func (r *Repository) Withdraw(ctx context.Context, salonID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.StatusCancelled).
		Set("offer_token", nil).
		Set("slot_date", nil).
		Set("slot_start", nil).
		Set("slot_end", nil).
		Set("offer_employee_id", nil).
		Set("notified_at", nil).
		Set("expires_at", nil).
		Set("offer_trigger", nil).
		Set("from_status", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":       id,
			"salon_id": salonID,
		}).
		Where(squirrel.Eq{"status": []domain.EntryStatus{domain.StatusWaiting, domain.StatusNotified}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Withdraw - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, executor, "Withdraw", query, args)
}

// ListExpiredOffers возвращает записи в notified с истекшим сроком оффера
func (r *Repository) ListExpiredOffers(ctx context.Context, now time.Time, limit int) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"status": domain.StatusNotified}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		OrderBy("expires_at ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredOffers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredOffers - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// ListElapsedCooldowns возвращает записи, у которых cooldown-окно уже прошло
func (r *Repository) ListElapsedCooldowns(ctx context.Context, now time.Time, limit int) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"status": domain.StatusWaiting}).
		Where(squirrel.NotEq{"cooldown_until": nil}).
		Where(squirrel.LtOrEq{"cooldown_until": now}).
		OrderBy("cooldown_until ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListElapsedCooldowns - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListElapsedCooldowns - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// ClearCooldown снимает прошедшее cooldown-окно с записи.
// Условие <= now защищает от стирания свежего окна, выставленного
// конкурентным отказом между выборкой и обновлением.
func (r *Repository) ClearCooldown(ctx context.Context, id int64, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("cooldown_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"cooldown_until": nil}).
		Where(squirrel.LtOrEq{"cooldown_until": now}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ClearCooldown - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, executor, "ClearCooldown", query, args)
}

// execTransition выполняет условный UPDATE и маппит "0 строк" в ErrStaleEntry
func (r *Repository) execTransition(ctx context.Context, executor DBExecutor, op string, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStaleEntry
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEntry сканирует одну запись со сборкой вложенного оффера
func (r *Repository) scanEntry(row rowScanner) (*domain.WaitlistEntry, error) {
	var (
		entry              domain.WaitlistEntry
		prefStart, prefEnd sql.NullString
		cooldownUntil      sql.NullTime
		bookingID          sql.NullInt64
		offerToken         sql.NullString
		slotDate           sql.NullTime
		slotStart, slotEnd sql.NullString
		offerEmployeeID    sql.NullInt64
		notifiedAt         sql.NullTime
		expiresAt          sql.NullTime
		offerTrigger       sql.NullString
		fromStatus         sql.NullString
		createdAt          sql.NullTime
		updatedAt          sql.NullTime
	)

	err := row.Scan(
		&entry.ID,
		&entry.SalonID,
		&entry.CustomerID,
		&entry.CustomerName,
		&entry.CustomerEmail,
		&entry.CustomerPhone,
		&entry.ServiceID,
		&entry.EmployeeID,
		&entry.PreferredDate,
		&prefStart,
		&prefEnd,
		&entry.Status,
		&cooldownUntil,
		&bookingID,
		&offerToken,
		&slotDate,
		&slotStart,
		&slotEnd,
		&offerEmployeeID,
		&notifiedAt,
		&expiresAt,
		&offerTrigger,
		&fromStatus,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.PreferredTimeStart = toTimeStringPtr(prefStart)
	entry.PreferredTimeEnd = toTimeStringPtr(prefEnd)

	if cooldownUntil.Valid {
		entry.CooldownUntil = &cooldownUntil.Time
	}
	if bookingID.Valid {
		entry.BookingID = &bookingID.Int64
	}

	// Оффер присутствует только вместе с токеном
	if offerToken.Valid {
		offer := &domain.Offer{
			Token:      offerToken.String,
			SlotDate:   slotDate.Time,
			NotifiedAt: notifiedAt.Time,
			ExpiresAt:  expiresAt.Time,
			Trigger:    domain.OfferTrigger(offerTrigger.String),
			FromStatus: domain.EntryStatus(fromStatus.String),
		}
		if start := toTimeStringPtr(slotStart); start != nil {
			offer.SlotStart = *start
		}
		if end := toTimeStringPtr(slotEnd); end != nil {
			offer.SlotEnd = *end
		}
		if offerEmployeeID.Valid {
			offer.EmployeeID = &offerEmployeeID.Int64
		}
		entry.Offer = offer
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}

// scanEntries сканирует результаты запроса в слайс записей
func (r *Repository) scanEntries(rows *sql.Rows) ([]*domain.WaitlistEntry, error) {
	entries := make([]*domain.WaitlistEntry, 0)

	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// toTimeStringPtr конвертирует nullable TIME колонку в *types.TimeString
func toTimeStringPtr(ns sql.NullString) *types.TimeString {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	// PostgreSQL TIME приходит как "10:30:00"
	if len(s) > 5 {
		s = s[:5]
	}
	ts := types.TimeString(s)
	return &ts
}
