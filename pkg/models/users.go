package models

// KnownTeams is the fixed set of teams the filter panel offers.
var KnownTeams = []string{"Sales", "Executive", "Engineering"}

// UserSummary is one entry of GET /users, used to join user names and
// teams onto session rows.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	Team      string `json:"team"`
}

// TeamMetric is one entry of GET /analytics/team-metrics. Consumed only
// by the dashboard view; the session core treats analytics as opaque.
type TeamMetric struct {
	Team          string  `json:"team"`
	TotalSessions int     `json:"total_sessions"`
	AvgScore      float64 `json:"avg_score"`
	AvgConfidence float64 `json:"avg_confidence"`
	AvgClarity    float64 `json:"avg_clarity"`
	AvgListening  float64 `json:"avg_listening"`
}

// UserPerformance is one entry of GET /analytics/user-performance.
type UserPerformance struct {
	UserID           string  `json:"user_id"`
	FirstName        string  `json:"first_name"`
	Team             string  `json:"team"`
	TotalSessions    int     `json:"total_sessions"`
	AvgScore         float64 `json:"avg_score"`
	AvgConfidence    float64 `json:"avg_confidence"`
	AvgClarity       float64 `json:"avg_clarity"`
	AvgListening     float64 `json:"avg_listening"`
	BestSessionScore float64 `json:"best_session_score"`
	RecentTrend      string  `json:"recent_trend"`
}

// ScoreTrendPoint is one entry of GET /analytics/score-trends.
type ScoreTrendPoint struct {
	Date     string  `json:"date"`
	AvgScore float64 `json:"avg_score"`
	Sessions int     `json:"sessions"`
}
