package impl

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"

	"energytrack/internal/domain"
	"energytrack/internal/dto"
	"energytrack/internal/observability/metrics"
	"energytrack/internal/observability/middleware"
	"energytrack/internal/store"
)

const monthlyFactor = 30

type EnergyServiceImpl struct {
	Store *store.Store
}

func NewEnergyServiceImpl(st *store.Store) *EnergyServiceImpl {
	return &EnergyServiceImpl{Store: st}
}

// SubmitAppliances replaces the user's whole appliance set and recomputes the
// summary in one transaction. An empty list is a valid submission meaning
// zero consumption; a missing list is a validation error.
func (e *EnergyServiceImpl) SubmitAppliances(ctx context.Context, userID domain.UserID, appliances []dto.ApplianceInput) (*dto.Summary, error) {
	result := "success"
	defer func() {
		metrics.ApplianceSubmissionsTotal.WithLabelValues(result).Inc()
	}()

	if appliances == nil {
		result = "failure"
		return nil, domain.ErrInvalidAppliances
	}

	rows := make([]domain.Appliance, 0, len(appliances))
	daily := 0.0
	for _, a := range appliances {
		power := clampNonNegative(a.PowerConsumption)
		hours := clampNonNegative(a.Hours)
		// kWh/day = watts * hours / 1000
		daily += power * hours / 1000
		rows = append(rows, domain.Appliance{
			UserID:           userID,
			Name:             a.Name,
			PowerConsumption: power,
			Hours:            hours,
		})
	}
	monthly := daily * monthlyFactor

	err := e.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Appliances().Replace(ctx, userID, rows); err != nil {
			return err
		}
		return tx.Summaries().Upsert(ctx, &domain.EnergySummary{
			UserID:             userID,
			DailyConsumption:   daily,
			MonthlyConsumption: monthly,
		})
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("appliances saved",
		"user_id", userID,
		"count", len(rows),
		"daily_kwh", daily,
		"request_id", middleware.RequestIDFromContext(ctx),
	)

	return &dto.Summary{DailyConsumption: daily, MonthlyConsumption: monthly}, nil
}

func (e *EnergyServiceImpl) ListAppliances(ctx context.Context, userID domain.UserID) ([]dto.ApplianceView, error) {
	rows, err := e.Store.Appliances().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ApplianceView, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ApplianceView{
			ID:               r.ID,
			Name:             r.Name,
			PowerConsumption: r.PowerConsumption,
			Hours:            r.Hours,
		})
	}
	return out, nil
}

// GetSummary returns zeros when the user has never submitted appliances.
func (e *EnergyServiceImpl) GetSummary(ctx context.Context, userID domain.UserID) (*dto.Summary, error) {
	sum, err := e.Store.Summaries().GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return &dto.Summary{}, nil
		}
		return nil, err
	}
	return &dto.Summary{
		DailyConsumption:   sum.DailyConsumption,
		MonthlyConsumption: sum.MonthlyConsumption,
	}, nil
}

func (e *EnergyServiceImpl) Leaderboard(ctx context.Context) (*dto.LeaderboardResponse, error) {
	result := "success"
	defer func() {
		metrics.LeaderboardRequestsTotal.WithLabelValues(result).Inc()
	}()

	avg, err := e.Store.Summaries().AverageMonthly(ctx)
	if err != nil {
		result = "failure"
		return nil, err
	}

	rows, err := e.Store.Summaries().ListWithUsernames(ctx)
	if err != nil {
		result = "failure"
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		var savingsPct, saved float64
		// Zero-consumption users and an all-zero population score 0 instead
		// of dividing by zero.
		if r.MonthlyConsumption != 0 && avg != 0 {
			savingsPct = (avg - r.MonthlyConsumption) / avg * 100
			saved = avg - r.MonthlyConsumption
		}
		entries = append(entries, dto.LeaderboardEntry{
			Username:           r.Username,
			DailyConsumption:   r.DailyConsumption,
			MonthlyConsumption: r.MonthlyConsumption,
			SavingsPercentage:  savingsPct,
			EnergySaved:        saved,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SavingsPercentage != entries[j].SavingsPercentage {
			return entries[i].SavingsPercentage > entries[j].SavingsPercentage
		}
		return entries[i].EnergySaved > entries[j].EnergySaved
	})

	for i := range entries {
		entries[i].Badge = badgeForRank(i)
		entries[i].SavingsPercentage = round(entries[i].SavingsPercentage, 1)
		entries[i].EnergySaved = round(entries[i].EnergySaved, 2)
	}

	return &dto.LeaderboardResponse{Leaderboard: entries, AverageConsumption: avg}, nil
}

func badgeForRank(index int) string {
	switch {
	case index == 0:
		return "Energy Champion"
	case index == 1:
		return "Energy Master"
	case index == 2:
		return "Energy Expert"
	case index < 10:
		return "Energy Saver"
	default:
		return "New"
	}
}

func clampNonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
