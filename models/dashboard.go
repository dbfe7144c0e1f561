package models

// DashboardStats is the aggregate behind the player dashboard: wallet plus
// lifetime tournament results.
type DashboardStats struct {
	WalletBalance     int                `json:"wallet_balance"`
	TournamentsJoined int                `json:"tournaments_joined"`
	Wins              int                `json:"wins"`
	PodiumFinishes    int                `json:"podium_finishes"`
	TotalPoints       int                `json:"total_points"`
	RecentResults     []TournamentResult `json:"recent_results"`
}

// TournamentResult is one finished entry on the dashboard.
type TournamentResult struct {
	TournamentID   int    `json:"tournament_id"`
	TournamentName string `json:"tournament_name"`
	Game           string `json:"game"`
	Placement      *int   `json:"placement,omitempty"`
	PointsEarned   *int   `json:"points_earned,omitempty"`
}
