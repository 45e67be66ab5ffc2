package store

import (
	"context"
	"database/sql"
	"time"

	"energytrack/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SummaryStore struct{ db *gorm.DB }

func (s *Store) Summaries() *SummaryStore { return &SummaryStore{db: s.DB} }

// Upsert inserts the summary row or overwrites it on user_id conflict.
func (ss *SummaryStore) Upsert(ctx context.Context, sum *domain.EnergySummary) error {
	sum.LastUpdated = time.Now().UTC()
	return ss.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"daily_consumption", "monthly_consumption", "last_updated"}),
	}).Create(sum).Error
}

func (ss *SummaryStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.EnergySummary, error) {
	var out domain.EnergySummary
	if err := ss.db.WithContext(ctx).First(&out, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (ss *SummaryStore) AverageMonthly(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	if err := ss.db.WithContext(ctx).Model(&domain.EnergySummary{}).
		Select("AVG(monthly_consumption)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if !avg.Valid {
		// No summary rows yet.
		return 0, nil
	}
	return avg.Float64, nil
}

// RankedRow joins a summary with the owning user's name for leaderboard output.
type RankedRow struct {
	Username           string
	DailyConsumption   float64
	MonthlyConsumption float64
}

func (ss *SummaryStore) ListWithUsernames(ctx context.Context) ([]RankedRow, error) {
	var rows []RankedRow
	if err := ss.db.WithContext(ctx).Model(&domain.EnergySummary{}).
		Select("users.username, user_energy_summary.daily_consumption, user_energy_summary.monthly_consumption").
		Joins("JOIN users ON users.id = user_energy_summary.user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
