package models

import "time"

// TimeSeriesPoint is one weekly sample of a growth series.
type TimeSeriesPoint struct {
	Date       string `json:"date" yaml:"date"`
	Reach      int64  `json:"reach" yaml:"reach"`
	Engagement int64  `json:"engagement" yaml:"engagement"`
	Profit     int64  `json:"profit" yaml:"profit"`
}

// TrendBrief is a short summary of an emerging topic within a niche.
type TrendBrief struct {
	ID        string   `json:"id" yaml:"id"`
	Topic     string   `json:"topic" yaml:"topic"`
	Title     string   `json:"title" yaml:"title"`
	Summary   string   `json:"summary" yaml:"summary"`
	Insights  []string `json:"insights" yaml:"insights"`
	Sentiment string   `json:"sentiment" yaml:"sentiment"`
	Date      string   `json:"date" yaml:"date"`
}

// Post is a single recent post attributed to an influencer.
type Post struct {
	Date    string `json:"date" yaml:"date"`
	Content string `json:"content" yaml:"content"`
}

// InfluencerProfile describes an influencer active in a niche.
type InfluencerProfile struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Niche          string  `json:"niche" yaml:"niche"`
	Platform       string  `json:"platform" yaml:"platform"`
	Followers      int64   `json:"followers" yaml:"followers"`
	EngagementRate float64 `json:"engagementRate" yaml:"engagementRate"`
	ProfilePic     string  `json:"profilePic" yaml:"profilePic"`
	RecentPosts    []Post  `json:"recentPosts" yaml:"recentPosts"`
}

// CompetitorProfile is a competing company and its growth series.
type CompetitorProfile struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Niche          string            `json:"niche" yaml:"niche"`
	RecentCampaign string            `json:"recentCampaign" yaml:"recentCampaign"`
	EstimatedReach string            `json:"estimatedReach" yaml:"estimatedReach"`
	Platforms      []string          `json:"platforms" yaml:"platforms"`
	GrowthData     []TimeSeriesPoint `json:"growthData" yaml:"growthData"`
}

// Notification is an in-app alert shown on the dashboard.
type Notification struct {
	ID      string `json:"id" yaml:"id"`
	Message string `json:"message" yaml:"message"`
	Date    string `json:"date" yaml:"date"`
}

// Recommendation is an advisory message produced from growth comparisons.
type Recommendation struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Action      string `json:"action" yaml:"action"`
}

// Dataset is the full set of mock analytics generated for a niche set.
// A Dataset is treated as an immutable snapshot once generated.
type Dataset struct {
	Niches        []string            `json:"niches" yaml:"niches"`
	Trends        []TrendBrief        `json:"trends" yaml:"trends"`
	Influencers   []InfluencerProfile `json:"influencers" yaml:"influencers"`
	GrowthData    []TimeSeriesPoint   `json:"growthData" yaml:"growthData"`
	Competitors   []CompetitorProfile `json:"competitors" yaml:"competitors"`
	Notifications []Notification      `json:"notifications" yaml:"notifications"`
	GeneratedAt   time.Time           `json:"generatedAt" yaml:"generatedAt"`
}

// CompetitorSeries returns the growth series of every competitor, in order.
func (d *Dataset) CompetitorSeries() [][]TimeSeriesPoint {
	series := make([][]TimeSeriesPoint, 0, len(d.Competitors))
	for _, c := range d.Competitors {
		series = append(series, c.GrowthData)
	}
	return series
}

// GrowthReport holds summary analytics computed over a Dataset.
type GrowthReport struct {
	Niches             []string         `json:"niches" yaml:"niches"`
	Points             int              `json:"points" yaml:"points"`
	AverageReach       float64          `json:"averageReach" yaml:"averageReach"`
	AverageEngagement  float64          `json:"averageEngagement" yaml:"averageEngagement"`
	AverageProfit      float64          `json:"averageProfit" yaml:"averageProfit"`
	MinReach           int64            `json:"minReach" yaml:"minReach"`
	MaxReach           int64            `json:"maxReach" yaml:"maxReach"`
	PeakWeek           string           `json:"peakWeek" yaml:"peakWeek"`
	TopCompetitor      string           `json:"topCompetitor,omitempty" yaml:"topCompetitor,omitempty"`
	TopCompetitorReach float64          `json:"topCompetitorReach" yaml:"topCompetitorReach"`
	TrendsByNiche      map[string]int   `json:"trendsByNiche" yaml:"trendsByNiche"`
	Recommendations    []Recommendation `json:"recommendations" yaml:"recommendations"`
}
