package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, equipment_id, renter_id, owner_id, start_date, end_date, status, total_amount, deposit_amount, insurance_type, COALESCE(message, ''), created_on, updated_on`

// Create inserts the booking only when no calendar-holding booking overlaps
// the requested range. The guard runs inside the insert statement itself, so
// two concurrent requests for the same dates cannot both slip past a check
// performed earlier in the request.
func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (equipment_id, renter_id, owner_id, start_date, end_date, status, total_amount, deposit_amount, insurance_type, message, created_on, updated_on)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE equipment_id = $1
			  AND status IN ('pending', 'approved', 'active')
			  AND start_date < $5
			  AND end_date > $4
		)
		RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		b.EquipmentID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate,
		b.Status, b.TotalAmount, b.DepositAmount, b.Insurance, b.Message, now,
	).Scan(&b.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Conflictf("equipment %d is already booked for part of %s..%s",
			b.EquipmentID, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"))
	}
	if err != nil {
		return domain.Collaboratorf("insert booking: %v", err)
	}
	b.CreatedOn = now
	b.UpdatedOn = now
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.EquipmentID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate,
		&b.Status, &b.TotalAmount, &b.DepositAmount, &b.Insurance, &b.Message, &b.CreatedOn, &b.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Collaboratorf("get booking %d: %v", id, err)
	}
	return b, nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, equipmentID int32, start, end time.Time, excludeBookingID *int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
	          FROM bookings
	          WHERE equipment_id = $1
	            AND status IN ('pending', 'approved', 'active')
	            AND start_date < $3
	            AND end_date > $2
	            AND ($4::int IS NULL OR id <> $4)
	          ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, equipmentID, start, end, excludeBookingID)
	if err != nil {
		return nil, domain.Collaboratorf("find overlapping bookings for equipment %d: %v", equipmentID, err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.EquipmentID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate,
			&b.Status, &b.TotalAmount, &b.DepositAmount, &b.Insurance, &b.Message, &b.CreatedOn, &b.UpdatedOn,
		); err != nil {
			return nil, domain.Collaboratorf("scan overlapping booking: %v", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStatus applies the transition only when the stored status still
// matches from. Zero rows affected means another transition won the race.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return domain.Collaboratorf("update booking %d status: %v", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Collaboratorf("update booking %d status: %v", id, err)
	}
	if affected == 0 {
		return domain.Conflictf("booking %d is no longer in status %q", id, from)
	}
	return nil
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, column string, userID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1`

	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, domain.Collaboratorf("count bookings: %v", err)
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.Collaboratorf("list bookings: %v", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.EquipmentID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate,
			&b.Status, &b.TotalAmount, &b.DepositAmount, &b.Insurance, &b.Message, &b.CreatedOn, &b.UpdatedOn,
		); err != nil {
			return nil, 0, domain.Collaboratorf("scan booking: %v", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE bookings SET status = 'cancelled', updated_on = $1 WHERE status = 'pending' AND created_on < $2`
	res, err := r.db.ExecContext(ctx, query, time.Now(), cutoff)
	if err != nil {
		return 0, domain.Collaboratorf("expire pending bookings: %v", err)
	}
	return res.RowsAffected()
}

func (r *bookingRepository) CountCompletedForUser(ctx context.Context, userID int32) (int, error) {
	var count int
	query := `SELECT count(*) FROM bookings WHERE status = 'completed' AND (renter_id = $1 OR owner_id = $1)`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, domain.Collaboratorf("count completed bookings for user %d: %v", userID, err)
	}
	return count, nil
}

func (r *bookingRepository) AverageOwnerResponseHours(ctx context.Context, ownerID int32) (float64, error) {
	var hours sql.NullFloat64
	query := `SELECT AVG(EXTRACT(EPOCH FROM (updated_on - created_on)) / 3600.0)
	          FROM bookings
	          WHERE owner_id = $1 AND status NOT IN ('pending')`
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&hours); err != nil {
		return 0, domain.Collaboratorf("average response time for owner %d: %v", ownerID, err)
	}
	if !hours.Valid {
		return 0, nil
	}
	return hours.Float64, nil
}
