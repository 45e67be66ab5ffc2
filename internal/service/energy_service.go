package service

import (
	"context"

	"energytrack/internal/domain"
	"energytrack/internal/dto"
)

type EnergyService interface {
	SubmitAppliances(ctx context.Context, userID domain.UserID, appliances []dto.ApplianceInput) (*dto.Summary, error)
	ListAppliances(ctx context.Context, userID domain.UserID) ([]dto.ApplianceView, error)
	GetSummary(ctx context.Context, userID domain.UserID) (*dto.Summary, error)
	Leaderboard(ctx context.Context) (*dto.LeaderboardResponse, error)
}
