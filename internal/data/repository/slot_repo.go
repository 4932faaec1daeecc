package repository

import (
	"context"
	"errors"
	"fmt"

	"society-parking/internal/data/entity"
	"society-parking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []*entity.ParkingSlot) error
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ParkingSlot, error)
	FindAll(ctx context.Context) ([]*entity.ParkingSlot, error)
	FindFirstAvailable(ctx context.Context, kind entity.SlotKind) (*entity.ParkingSlot, error)
	FindNumbersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

	// Conditional transitions. Each is a single guarded UPDATE so concurrent
	// callers cannot both win the same slot.
	Reserve(ctx context.Context, id uuid.UUID, holder, date, start, end string) error
	Release(ctx context.Context, id uuid.UUID) error
	Assign(ctx context.Context, id uuid.UUID, occupant string) error
}

type slotRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSlotRepository(db database.PgxIface, log *zap.Logger) SlotRepository {
	return &slotRepository{
		db:  db,
		log: log.With(zap.String("repository", "slot")),
	}
}

const slotColumns = `id, slot_number, kind, level, status, assigned_occupant,
	reserved_by, reserved_date, reserved_start, reserved_end, created_at, updated_at`

func scanSlot(row pgx.Row) (*entity.ParkingSlot, error) {
	var slot entity.ParkingSlot
	err := row.Scan(
		&slot.ID,
		&slot.SlotNumber,
		&slot.Kind,
		&slot.Level,
		&slot.Status,
		&slot.AssignedOccupant,
		&slot.ReservedBy,
		&slot.ReservedDate,
		&slot.ReservedStart,
		&slot.ReservedEnd,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) CreateBatch(ctx context.Context, slots []*entity.ParkingSlot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin slot batch: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO parking_slots (id, slot_number, kind, level, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, slot := range slots {
		_, err := tx.Exec(ctx, query,
			slot.ID,
			slot.SlotNumber,
			slot.Kind,
			slot.Level,
			slot.Status,
			slot.CreatedAt,
			slot.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to insert slot",
				zap.Error(err),
				zap.String("slot_number", slot.SlotNumber),
			)
			return fmt.Errorf("insert slot %s: %w", slot.SlotNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit slot batch: %w", err)
	}

	r.log.Info("Slot inventory created", zap.Int("count", len(slots)))
	return nil
}

func (r *slotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM parking_slots`).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count slots", zap.Error(err))
		return 0, fmt.Errorf("count slots: %w", err)
	}
	return count, nil
}

func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ParkingSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM parking_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find slot by ID",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return nil, fmt.Errorf("find slot by ID %s: %w", id.String(), err)
	}

	return slot, nil
}

func (r *slotRepository) FindAll(ctx context.Context) ([]*entity.ParkingSlot, error) {
	// Zero-padded labels keep lexicographic order equal to numeric order.
	query := `SELECT ` + slotColumns + ` FROM parking_slots ORDER BY slot_number ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list slots", zap.Error(err))
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*entity.ParkingSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan slot row", zap.Error(err))
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func (r *slotRepository) FindFirstAvailable(ctx context.Context, kind entity.SlotKind) (*entity.ParkingSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM parking_slots
		WHERE kind = $1 AND status = $2
		ORDER BY slot_number ASC
		LIMIT 1
	`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, kind, entity.SlotStatusAvailable))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find available slot",
			zap.Error(err),
			zap.String("kind", string(kind)),
		)
		return nil, fmt.Errorf("find available %s slot: %w", string(kind), err)
	}

	return slot, nil
}

// FindNumbersByIDs resolves slot numbers for a set of slot IDs in one query.
func (r *slotRepository) FindNumbersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	numbers := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return numbers, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, slot_number FROM parking_slots WHERE id = ANY($1)`, ids)
	if err != nil {
		r.log.Error("Failed to resolve slot numbers", zap.Error(err))
		return nil, fmt.Errorf("resolve slot numbers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var number string
		if err := rows.Scan(&id, &number); err != nil {
			return nil, fmt.Errorf("scan slot number row: %w", err)
		}
		numbers[id] = number
	}

	return numbers, nil
}

func (r *slotRepository) Reserve(ctx context.Context, id uuid.UUID, holder, date, start, end string) error {
	// Reservations only ever apply to visitor slots.
	query := `
		UPDATE parking_slots
		SET status = $2, reserved_by = $3, reserved_date = $4, reserved_start = $5,
		    reserved_end = $6, updated_at = NOW()
		WHERE id = $1 AND status = $7 AND kind = $8
	`

	result, err := r.db.Exec(ctx, query,
		id, entity.SlotStatusReserved, holder, date, start, end, entity.SlotStatusAvailable, entity.SlotKindVisitor,
	)
	if err != nil {
		r.log.Error("Failed to reserve slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return fmt.Errorf("reserve slot %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return r.transitionConflict(ctx, id)
	}

	return nil
}

func (r *slotRepository) Release(ctx context.Context, id uuid.UUID) error {
	// Releasing an already-available slot is a no-op, so no status guard here.
	query := `
		UPDATE parking_slots
		SET status = $2, assigned_occupant = NULL, reserved_by = NULL,
		    reserved_date = NULL, reserved_start = NULL, reserved_end = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, entity.SlotStatusAvailable)
	if err != nil {
		r.log.Error("Failed to release slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return fmt.Errorf("release slot %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("release slot %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *slotRepository) Assign(ctx context.Context, id uuid.UUID, occupant string) error {
	query := `
		UPDATE parking_slots
		SET status = $2, assigned_occupant = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4 AND kind = $5
	`

	result, err := r.db.Exec(ctx, query,
		id, entity.SlotStatusOccupied, occupant, entity.SlotStatusAvailable, entity.SlotKindResident,
	)
	if err != nil {
		r.log.Error("Failed to assign slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
			zap.String("occupant", occupant),
		)
		return fmt.Errorf("assign slot %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return r.transitionConflict(ctx, id)
	}

	return nil
}

// transitionConflict distinguishes a missing slot from one whose status guard
// failed, after a conditional UPDATE touched zero rows.
func (r *slotRepository) transitionConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM parking_slots WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check slot %s: %w", id.String(), err)
	}
	if !exists {
		return fmt.Errorf("slot %s: %w", id.String(), ErrNotFound)
	}
	return fmt.Errorf("slot %s: %w", id.String(), ErrSlotNotAvailable)
}
