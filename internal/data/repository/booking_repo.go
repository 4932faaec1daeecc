package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"society-parking/internal/data/entity"
	"society-parking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByRequester(ctx context.Context, requester string, limit, offset int) ([]*entity.Booking, error)
	CountByRequester(ctx context.Context, requester string) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context) (int64, error)
	FindExpiredActive(ctx context.Context, now time.Time) ([]*entity.Booking, error)

	// CreateWithSlotReservation reserves the booking's slot and inserts the
	// booking record in one transaction. Returns ErrSlotNotAvailable when a
	// concurrent caller won the slot first.
	CreateWithSlotReservation(ctx context.Context, booking *entity.Booking) error

	// CloseAndReleaseSlot moves an active booking to a terminal status and
	// frees its slot in one transaction. Returns ErrAlreadyTerminal when the
	// booking already left the active state.
	CloseAndReleaseSlot(ctx context.Context, bookingID, slotID uuid.UUID, status entity.BookingStatus, closedAt time.Time) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_ref, requester, visitor_name, vehicle_id,
	date, start_time, end_time, window_end, slot_id, status, created_at, closed_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BookingRef,
		&booking.Requester,
		&booking.VisitorName,
		&booking.VehicleID,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.WindowEnd,
		&booking.SlotID,
		&booking.Status,
		&booking.CreatedAt,
		&booking.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM parking_bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByRequester(ctx context.Context, requester string, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM parking_bookings
		WHERE requester = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, requester, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by requester",
			zap.Error(err),
			zap.String("requester", requester),
		)
		return nil, fmt.Errorf("find bookings by requester %s: %w", requester, err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountByRequester(ctx context.Context, requester string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM parking_bookings WHERE requester = $1`, requester).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by requester",
			zap.Error(err),
			zap.String("requester", requester),
		)
		return 0, fmt.Errorf("count bookings by requester %s: %w", requester, err)
	}
	return count, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM parking_bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM parking_bookings`).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM parking_bookings
		WHERE status = $1 AND window_end < $2
		ORDER BY window_end ASC
	`

	rows, err := r.db.Query(ctx, query, entity.BookingStatusActive, now)
	if err != nil {
		r.log.Error("Failed to find expired bookings", zap.Error(err))
		return nil, fmt.Errorf("find expired bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CreateWithSlotReservation(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Reserve the slot only if it is still available. A concurrent booking
	// that won the slot makes this touch zero rows.
	result, err := tx.Exec(ctx, `
		UPDATE parking_slots
		SET status = $2, reserved_by = $3, reserved_date = $4, reserved_start = $5,
		    reserved_end = $6, updated_at = NOW()
		WHERE id = $1 AND status = $7
	`,
		booking.SlotID, entity.SlotStatusReserved, booking.Requester,
		booking.Date, booking.StartTime, booking.EndTime, entity.SlotStatusAvailable,
	)
	if err != nil {
		return fmt.Errorf("reserve slot %s: %w", booking.SlotID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot %s: %w", booking.SlotID.String(), ErrSlotNotAvailable)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO parking_bookings (id, booking_ref, requester, visitor_name, vehicle_id,
			date, start_time, end_time, window_end, slot_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		booking.ID,
		booking.BookingRef,
		booking.Requester,
		booking.VisitorName,
		booking.VehicleID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.WindowEnd,
		booking.SlotID,
		booking.Status,
		booking.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_ref", booking.BookingRef),
			zap.String("requester", booking.Requester),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingRef, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking %s: %w", booking.BookingRef, err)
	}

	return nil
}

func (r *bookingRepository) CloseAndReleaseSlot(ctx context.Context, bookingID, slotID uuid.UUID, status entity.BookingStatus, closedAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin close transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Guarded on active so a concurrent cancel and expiry sweep cannot both
	// close the same booking; whichever commits first wins.
	result, err := tx.Exec(ctx, `
		UPDATE parking_bookings
		SET status = $2, closed_at = $3
		WHERE id = $1 AND status = $4
	`, bookingID, status, closedAt, entity.BookingStatusActive)
	if err != nil {
		return fmt.Errorf("close booking %s: %w", bookingID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", bookingID.String(), ErrAlreadyTerminal)
	}

	_, err = tx.Exec(ctx, `
		UPDATE parking_slots
		SET status = $2, assigned_occupant = NULL, reserved_by = NULL,
		    reserved_date = NULL, reserved_start = NULL, reserved_end = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`, slotID, entity.SlotStatusAvailable)
	if err != nil {
		return fmt.Errorf("release slot %s: %w", slotID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit close of booking %s: %w", bookingID.String(), err)
	}

	return nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}
