package postgres

import (
	"database/sql"

	"gearshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.EquipmentRepository
	repository.BookingRepository
	repository.PaymentRepository
	repository.InspectionRepository
	repository.ClaimRepository
	repository.VerificationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		EquipmentRepository:    NewEquipmentRepository(db),
		BookingRepository:      NewBookingRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		InspectionRepository:   NewInspectionRepository(db),
		ClaimRepository:        NewClaimRepository(db),
		VerificationRepository: NewVerificationRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
