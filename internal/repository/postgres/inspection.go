package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type inspectionRepository struct {
	db *sql.DB
}

func NewInspectionRepository(db *sql.DB) repository.InspectionRepository {
	return &inspectionRepository{db: db}
}

// Create relies on the unique (booking_id, inspection_type) constraint to
// enforce at most one inspection per booking and type.
func (r *inspectionRepository) Create(ctx context.Context, insp *domain.Inspection) error {
	checklist, err := json.Marshal(insp.Checklist)
	if err != nil {
		return domain.Validationf("encode checklist: %v", err)
	}

	query := `INSERT INTO inspections (booking_id, inspection_type, checklist, photos, latitude, longitude, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		insp.BookingID, insp.Type, checklist, pq.Array(insp.Photos),
		insp.Latitude, insp.Longitude, now,
	).Scan(&insp.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.Conflictf("a %s inspection already exists for booking %d", insp.Type, insp.BookingID)
		}
		return domain.Collaboratorf("insert inspection: %v", err)
	}
	insp.CreatedOn = now
	return nil
}

func (r *inspectionRepository) GetByBookingAndType(ctx context.Context, bookingID int32, t domain.InspectionType) (*domain.Inspection, error) {
	insp := &domain.Inspection{}
	var checklist []byte
	var photos pq.StringArray

	query := `SELECT id, booking_id, inspection_type, checklist, photos, latitude, longitude, created_on
	          FROM inspections WHERE booking_id = $1 AND inspection_type = $2`
	err := r.db.QueryRowContext(ctx, query, bookingID, t).Scan(
		&insp.ID, &insp.BookingID, &insp.Type, &checklist, &photos,
		&insp.Latitude, &insp.Longitude, &insp.CreatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s inspection for booking %d: %w", t, bookingID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Collaboratorf("get inspection: %v", err)
	}

	if err := json.Unmarshal(checklist, &insp.Checklist); err != nil {
		return nil, domain.Collaboratorf("decode checklist for booking %d: %v", bookingID, err)
	}
	insp.Photos = photos
	return insp, nil
}
