package dto

// Ranking period parameters.
const (
	PeriodAll  = "all"
	PeriodWeek = "week"
)

// TodayCall is the compact view of a user's current-day prediction shown
// next to their rank, confirmed or not.
type TodayCall struct {
	Instrument      Instrument `json:"instrument"`
	PredictedChange float64    `json:"predicted_change"`
	ActualChange    *float64   `json:"actual_change,omitempty"`
}

// RankingUser is one leaderboard row. Unranked marks users with no
// confirmed deviation in the window who still made a prediction today;
// they sort after every ranked row.
type RankingUser struct {
	Rank              int         `json:"rank"`
	UserID            uint        `json:"user_id"`
	Name              string      `json:"name"`
	AverageDeviation  float64     `json:"average_deviation"`
	DirectionAccuracy float64     `json:"direction_accuracy"`
	ConfirmedCount    int         `json:"confirmed_count"`
	Unranked          bool        `json:"unranked"`
	TodayCalls        []TodayCall `json:"today_calls,omitempty"`
}

// RankingResponse is the truncated leaderboard plus the true participant
// count.
type RankingResponse struct {
	Period     string        `json:"period"`
	Users      []RankingUser `json:"users"`
	TotalCount int           `json:"total_count"`
}
