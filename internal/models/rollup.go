package models

import "github.com/google/uuid"

// ServiceResult is the per-service score within one campaign.
type ServiceResult struct {
	ServiceID     uuid.UUID `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	MaturityLevel int       `json:"maturity_level"`
	Percentage    float64   `json:"percentage"`
}

// ActivityResult carries the min-aggregated level of an activity and the
// individual results of its scored services.
type ActivityResult struct {
	ActivityID     uuid.UUID       `json:"activity_id"`
	ActivityName   string          `json:"activity_name"`
	MaturityLevel  int             `json:"maturity_level"`
	ServiceResults []ServiceResult `json:"service_results"`
}

// JourneyResult carries the min-aggregated level of a journey and its scored
// activities.
type JourneyResult struct {
	JourneyID       uuid.UUID        `json:"journey_id"`
	JourneyName     string           `json:"journey_name"`
	MaturityLevel   int              `json:"maturity_level"`
	ActivityResults []ActivityResult `json:"activity_results"`
}

// RollupResult is the full campaign rollup. The overall score is computed
// flat over every evaluation in the campaign, not as a hierarchical minimum.
type RollupResult struct {
	CampaignID        uuid.UUID       `json:"campaign_id"`
	OverallLevel      int             `json:"overall_level"`
	OverallPercentage float64         `json:"overall_percentage"`
	JourneyResults    []JourneyResult `json:"journey_results"`
}

// LevelDistribution is the per-campaign histogram of services by maturity
// level. Unlike the rollup, services without any evaluation are counted here
// at level 0.
type LevelDistribution struct {
	CampaignID uuid.UUID   `json:"campaign_id"`
	Levels     map[int]int `json:"levels"`
	Total      int         `json:"total"`
}

// MaturityLevelFor maps a completion percentage onto the discrete 0-4 scale.
// The five bands partition [0,100] with no gaps or overlaps.
func MaturityLevelFor(percentage float64) int {
	switch {
	case percentage >= 100:
		return 4
	case percentage >= 75:
		return 3
	case percentage >= 50:
		return 2
	case percentage >= 25:
		return 1
	default:
		return 0
	}
}
