package service

import (
	"context"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
}

func NewEquipmentService(equipmentRepo repository.EquipmentRepository, userRepo repository.UserRepository) EquipmentService {
	return &equipmentService{equipmentRepo: equipmentRepo, userRepo: userRepo}
}

func (s *equipmentService) AddEquipment(ctx context.Context, eq *domain.Equipment) error {
	if err := validateEquipment(eq); err != nil {
		return err
	}
	return s.equipmentRepo.Create(ctx, eq)
}

func (s *equipmentService) GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error) {
	eq, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner, err := s.userRepo.GetByID(ctx, eq.OwnerID); err == nil {
		eq.Owner = owner
	}
	return eq, nil
}

func (s *equipmentService) UpdateEquipment(ctx context.Context, ownerID int32, eq *domain.Equipment) error {
	existing, err := s.equipmentRepo.GetByID(ctx, eq.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return domain.ErrUnauthorized
	}
	if err := validateEquipment(eq); err != nil {
		return err
	}
	eq.OwnerID = existing.OwnerID
	return s.equipmentRepo.Update(ctx, eq)
}

func (s *equipmentService) ListMyEquipment(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Equipment, int32, error) {
	return s.equipmentRepo.ListByOwner(ctx, ownerID, page, pageSize)
}

func (s *equipmentService) SetSlot(ctx context.Context, ownerID int32, slot *domain.AvailabilitySlot) error {
	eq, err := s.equipmentRepo.GetByID(ctx, slot.EquipmentID)
	if err != nil {
		return err
	}
	if eq.OwnerID != ownerID {
		return domain.ErrUnauthorized
	}
	if slot.CustomRate != nil && slot.CustomRate.Sign() <= 0 {
		return domain.Validationf("custom rate must be positive, got %s", slot.CustomRate)
	}
	slot.Date = slot.Date.UTC().Truncate(24 * time.Hour)
	return s.equipmentRepo.UpsertSlot(ctx, slot)
}

func (s *equipmentService) GetCalendar(ctx context.Context, equipmentID int32, start, end time.Time) ([]domain.AvailabilitySlot, error) {
	if !end.After(start) {
		return nil, domain.Validationf("end date must be after start date")
	}
	return s.equipmentRepo.GetSlots(ctx, equipmentID, start, end)
}

func validateEquipment(eq *domain.Equipment) error {
	if eq.Name == "" {
		return domain.Validationf("equipment name is required")
	}
	if eq.DailyRate.Sign() <= 0 {
		return domain.Validationf("daily rate must be positive, got %s", eq.DailyRate)
	}
	if eq.DamageDepositAmount != nil && eq.DamageDepositAmount.Sign() < 0 {
		return domain.Validationf("damage deposit amount cannot be negative")
	}
	if eq.DamageDepositPercentage != nil {
		if eq.DamageDepositPercentage.Sign() < 0 || eq.DamageDepositPercentage.IntPart() > 100 {
			return domain.Validationf("damage deposit percentage must be within 0..100")
		}
	}
	return nil
}
