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

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, booking_id, intent_id, amount, deposit_amount, payment_status, escrow_status, deposit_release_at, created_on, updated_on`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (booking_id, intent_id, amount, deposit_amount, payment_status, escrow_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		p.BookingID, p.IntentID, p.Amount, p.DepositAmount, p.PaymentStatus, p.EscrowStatus, now,
	).Scan(&p.ID)
	if err != nil {
		return domain.Collaboratorf("insert payment: %v", err)
	}
	p.CreatedOn = now
	p.UpdatedOn = now
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *paymentRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE intent_id = $1`, intentID)
}

// GetSucceededByBooking picks the earliest succeeded row so that duplicate
// captures from concurrent attempts always reconcile to the same payment.
func (r *paymentRepository) GetSucceededByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
	          WHERE booking_id = $1 AND payment_status = 'succeeded'
	          ORDER BY created_on ASC LIMIT 1`
	return r.getOne(ctx, query, bookingID)
}

func (r *paymentRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.BookingID, &p.IntentID, &p.Amount, &p.DepositAmount,
		&p.PaymentStatus, &p.EscrowStatus, &p.DepositReleaseAt, &p.CreatedOn, &p.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Collaboratorf("get payment: %v", err)
	}
	return p, nil
}

func (r *paymentRepository) UpdatePaymentStatus(ctx context.Context, id int32, from, to domain.PaymentStatus) error {
	query := `UPDATE payments SET payment_status = $1, updated_on = $2 WHERE id = $3 AND payment_status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return domain.Collaboratorf("update payment %d status: %v", id, err)
	}
	return requireOneRow(res, fmt.Sprintf("payment %d is no longer %q", id, from))
}

// UpdateEscrowStatus enforces released-at-most-once: a release only commits
// from the held state, so a second release attempt loses the swap.
func (r *paymentRepository) UpdateEscrowStatus(ctx context.Context, id int32, from, to domain.EscrowStatus) error {
	query := `UPDATE payments SET escrow_status = $1, updated_on = $2 WHERE id = $3 AND escrow_status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return domain.Collaboratorf("update payment %d escrow status: %v", id, err)
	}
	return requireOneRow(res, fmt.Sprintf("payment %d escrow is no longer %q", id, from))
}

func (r *paymentRepository) ScheduleDepositRelease(ctx context.Context, id int32, at time.Time) error {
	query := `UPDATE payments SET deposit_release_at = $1, updated_on = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, at, time.Now(), id)
	if err != nil {
		return domain.Collaboratorf("schedule deposit release for payment %d: %v", id, err)
	}
	return nil
}

func (r *paymentRepository) FindDepositsDue(ctx context.Context, now time.Time) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
	          WHERE escrow_status = 'held' AND deposit_release_at IS NOT NULL AND deposit_release_at <= $1`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, domain.Collaboratorf("find deposits due: %v", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.ID, &p.BookingID, &p.IntentID, &p.Amount, &p.DepositAmount,
			&p.PaymentStatus, &p.EscrowStatus, &p.DepositReleaseAt, &p.CreatedOn, &p.UpdatedOn,
		); err != nil {
			return nil, domain.Collaboratorf("scan payment: %v", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func requireOneRow(res sql.Result, conflictMsg string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Collaboratorf("rows affected: %v", err)
	}
	if affected == 0 {
		return domain.Conflictf("%s", conflictMsg)
	}
	return nil
}
