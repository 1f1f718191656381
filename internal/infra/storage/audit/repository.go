package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-WaitlistService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WaitlistService/pkg/psqlbuilder"
)

// Действия, фиксируемые в журнале
const (
	ActionOfferIssued   = "offer_issued"
	ActionClaimResolved = "claim_resolved"
	ActionWithdrawn     = "withdrawn"
)

// Record одна запись журнала действий над листом ожидания.
// Журнал append-only: записи не изменяются и не удаляются.
type Record struct {
	ID        string
	SalonID   int64
	EntryID   int64
	Action    string
	Channel   string // Канал инициатора: link, operator, system
	Outcome   string // Результат: issued, accepted, declined, expired, invalid, ...
	Details   *string
	CreatedAt time.Time
}

// Repository репозиторий журнала действий
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал.
// Идентификатор генерируется на стороне сервиса (uuid v4), чтобы запись
// можно было коррелировать с логами до выполнения INSERT.
func (r *Repository) Append(ctx context.Context, record *Record) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("waitlist_audit").
		Columns(
			"id",
			"salon_id",
			"entry_id",
			"action",
			"channel",
			"outcome",
			"details",
		).
		Values(
			record.ID,
			record.SalonID,
			record.EntryID,
			record.Action,
			record.Channel,
			record.Outcome,
			record.Details,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByEntry возвращает журнал действий по записи листа ожидания
// в хронологическом порядке
func (r *Repository) ListByEntry(ctx context.Context, salonID, entryID int64) ([]*Record, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"salon_id",
		"entry_id",
		"action",
		"channel",
		"outcome",
		"details",
		"created_at",
	).
		From("waitlist_audit").
		Where(squirrel.Eq{"salon_id": salonID, "entry_id": entryID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntry - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntry - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID,
			&record.SalonID,
			&record.EntryID,
			&record.Action,
			&record.Channel,
			&record.Outcome,
			&record.Details,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByEntry - scan row: %v", ErrScanRow, err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByEntry - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}
