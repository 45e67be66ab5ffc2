package dto

type ApplianceInput struct {
	Name             string  `json:"name"`
	PowerConsumption float64 `json:"powerConsumption"`
	Hours            float64 `json:"hours"`
}

type SubmitAppliancesRequest struct {
	Appliances []ApplianceInput `json:"appliances"`
}

type ApplianceView struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	PowerConsumption float64 `json:"powerConsumption"`
	Hours            float64 `json:"hours"`
}

type AppliancesResponse struct {
	Appliances []ApplianceView `json:"appliances"`
}

type Summary struct {
	DailyConsumption   float64 `json:"dailyConsumption"`
	MonthlyConsumption float64 `json:"monthlyConsumption"`
}

type SummaryResponse struct {
	Summary Summary `json:"summary"`
}

type SubmitAppliancesResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Summary Summary `json:"summary"`
}

type LeaderboardEntry struct {
	Username           string  `json:"username"`
	DailyConsumption   float64 `json:"dailyConsumption"`
	MonthlyConsumption float64 `json:"monthlyConsumption"`
	SavingsPercentage  float64 `json:"savingsPercentage"`
	EnergySaved        float64 `json:"energySaved"`
	Badge              string  `json:"badge"`
}

type LeaderboardResponse struct {
	Leaderboard        []LeaderboardEntry `json:"leaderboard"`
	AverageConsumption float64            `json:"averageConsumption"`
}
