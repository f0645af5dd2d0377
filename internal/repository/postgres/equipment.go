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

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

const equipmentColumns = `id, owner_id, name, COALESCE(description, ''), daily_rate, condition, damage_deposit_amount, damage_deposit_percentage, created_on, updated_on`

func (r *equipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	query := `INSERT INTO equipment (owner_id, name, description, daily_rate, condition, damage_deposit_amount, damage_deposit_percentage, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		eq.OwnerID, eq.Name, eq.Description, eq.DailyRate, eq.Condition,
		eq.DamageDepositAmount, eq.DamageDepositPercentage, now,
	).Scan(&eq.ID)
	if err != nil {
		return domain.Collaboratorf("insert equipment: %v", err)
	}
	eq.CreatedOn = now
	eq.UpdatedOn = now
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	eq := &domain.Equipment{}
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&eq.ID, &eq.OwnerID, &eq.Name, &eq.Description, &eq.DailyRate, &eq.Condition,
		&eq.DamageDepositAmount, &eq.DamageDepositPercentage, &eq.CreatedOn, &eq.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("equipment %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Collaboratorf("get equipment %d: %v", id, err)
	}
	return eq, nil
}

func (r *equipmentRepository) Update(ctx context.Context, eq *domain.Equipment) error {
	query := `UPDATE equipment SET name=$1, description=$2, daily_rate=$3, condition=$4, damage_deposit_amount=$5, damage_deposit_percentage=$6, updated_on=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query,
		eq.Name, eq.Description, eq.DailyRate, eq.Condition,
		eq.DamageDepositAmount, eq.DamageDepositPercentage, time.Now(), eq.ID,
	)
	if err != nil {
		return domain.Collaboratorf("update equipment %d: %v", eq.ID, err)
	}
	return nil
}

func (r *equipmentRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Equipment, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM equipment WHERE owner_id = $1`, ownerID).Scan(&count); err != nil {
		return nil, 0, domain.Collaboratorf("count equipment: %v", err)
	}

	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE owner_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ownerID, pageSize, offset)
	if err != nil {
		return nil, 0, domain.Collaboratorf("list equipment: %v", err)
	}
	defer rows.Close()

	var items []domain.Equipment
	for rows.Next() {
		var eq domain.Equipment
		if err := rows.Scan(
			&eq.ID, &eq.OwnerID, &eq.Name, &eq.Description, &eq.DailyRate, &eq.Condition,
			&eq.DamageDepositAmount, &eq.DamageDepositPercentage, &eq.CreatedOn, &eq.UpdatedOn,
		); err != nil {
			return nil, 0, domain.Collaboratorf("scan equipment: %v", err)
		}
		items = append(items, eq)
	}
	return items, count, rows.Err()
}

func (r *equipmentRepository) UpsertSlot(ctx context.Context, slot *domain.AvailabilitySlot) error {
	query := `INSERT INTO availability_slots (equipment_id, date, is_blocked, custom_rate)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (equipment_id, date)
	          DO UPDATE SET is_blocked = EXCLUDED.is_blocked, custom_rate = EXCLUDED.custom_rate`
	_, err := r.db.ExecContext(ctx, query, slot.EquipmentID, slot.Date, slot.IsBlocked, slot.CustomRate)
	if err != nil {
		return domain.Collaboratorf("upsert availability slot: %v", err)
	}
	return nil
}

func (r *equipmentRepository) GetSlots(ctx context.Context, equipmentID int32, start, end time.Time) ([]domain.AvailabilitySlot, error) {
	query := `SELECT equipment_id, date, is_blocked, custom_rate
	          FROM availability_slots
	          WHERE equipment_id = $1 AND date >= $2 AND date < $3
	          ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, equipmentID, start, end)
	if err != nil {
		return nil, domain.Collaboratorf("get availability slots: %v", err)
	}
	defer rows.Close()

	var slots []domain.AvailabilitySlot
	for rows.Next() {
		var s domain.AvailabilitySlot
		if err := rows.Scan(&s.EquipmentID, &s.Date, &s.IsBlocked, &s.CustomRate); err != nil {
			return nil, domain.Collaboratorf("scan availability slot: %v", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *equipmentRepository) FindBlockedDates(ctx context.Context, equipmentID int32, start, end time.Time) ([]time.Time, error) {
	query := `SELECT date FROM availability_slots
	          WHERE equipment_id = $1 AND is_blocked = true AND date >= $2 AND date < $3
	          ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, equipmentID, start, end)
	if err != nil {
		return nil, domain.Collaboratorf("find blocked dates: %v", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, domain.Collaboratorf("scan blocked date: %v", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
