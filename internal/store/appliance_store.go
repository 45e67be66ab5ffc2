package store

import (
	"context"

	"energytrack/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplianceStore struct{ db *gorm.DB }

func (s *Store) Appliances() *ApplianceStore { return &ApplianceStore{db: s.DB} }

func (a *ApplianceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Appliance, error) {
	var out []domain.Appliance
	if err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Replace discards the user's entire appliance set and writes the new one.
// Callers must run it inside Store.WithTx so readers never see a partial set.
func (a *ApplianceStore) Replace(ctx context.Context, userID uuid.UUID, appliances []domain.Appliance) error {
	db := a.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&domain.Appliance{}).Error; err != nil {
		return err
	}
	if len(appliances) == 0 {
		return nil
	}
	return db.Create(&appliances).Error
}
