package services

import (
	"trendmoni/models"
	"trendmoni/utils"
)

const (
	reachThreshold  = 0.8
	profitThreshold = 0.9
)

var (
	recBoostReach = models.Recommendation{
		ID:          "rec1",
		Title:       "Boost Organic Reach",
		Description: "Your average reach is currently lower than key competitors. Focus on creating highly shareable content, optimizing for SEO on YouTube, and engaging directly with your audience on Instagram and LinkedIn to improve organic visibility.",
		Action:      "Implement a content calendar focusing on trending topics and interactive formats (polls, Q&A).",
	}
	recOptimizeROI = models.Recommendation{
		ID:          "rec2",
		Title:       "Optimize Influencer ROI",
		Description: "Review your current influencer partnerships. Consider shifting focus to micro-influencers who often offer higher engagement rates for a lower cost, or negotiate better terms with existing partners.",
		Action:      "Analyze past campaign data to identify top-performing influencers and content types.",
	}
	recLeverageAI = models.Recommendation{
		ID:          "rec3",
		Title:       "Leverage AI for Content Ideation",
		Description: "Competitors are integrating AI into their marketing. Utilize AI tools for generating content ideas, analyzing market trends, and personalizing outreach to your audience.",
		Action:      "Explore AI-powered content creation tools and experiment with AI-driven ad targeting.",
	}
	recGreatPerformance = models.Recommendation{
		ID:          "rec-none",
		Title:       "Great Performance!",
		Description: "Your company is performing strongly against competitors. Continue to monitor trends and innovate!",
		Action:      "Maintain current strategies and explore new growth avenues.",
	}
)

// RecommendationService compares the company's growth against competitors.
type RecommendationService struct {
	logger *utils.Logger
}

// NewRecommendationService creates a RecommendationService.
func NewRecommendationService(logger *utils.Logger) *RecommendationService {
	return &RecommendationService{logger: logger}
}

// Recommend emits advisory messages from time-averaged reach and profit.
// Own reach below 80% of the best competitor average adds a reach
// recommendation; own profit below 90% adds an ROI recommendation. The AI
// recommendation is always appended unless neither threshold fired, in which
// case the result is the single "Great Performance!" item. Without usable own
// or competitor data nothing can be compared and only the AI recommendation
// is returned.
func (s *RecommendationService) Recommend(own []models.TimeSeriesPoint, competitors [][]models.TimeSeriesPoint) []models.Recommendation {
	if !comparable(own, competitors) {
		s.logger.Debug("[recommender] No comparable growth data across %d competitor series", len(competitors))
		return []models.Recommendation{recLeverageAI}
	}

	var recs []models.Recommendation
	if fired(own, competitors, reachOf, reachThreshold) {
		recs = append(recs, recBoostReach)
	}
	if fired(own, competitors, profitOf, profitThreshold) {
		recs = append(recs, recOptimizeROI)
	}

	if len(recs) == 0 {
		s.logger.Debug("[recommender] No thresholds fired across %d competitor series", len(competitors))
		return []models.Recommendation{recGreatPerformance}
	}

	recs = append(recs, recLeverageAI)
	s.logger.Debug("[recommender] %d recommendations across %d competitor series", len(recs), len(competitors))
	return recs
}

// comparable reports whether own and at least one competitor series hold data.
func comparable(own []models.TimeSeriesPoint, competitors [][]models.TimeSeriesPoint) bool {
	if len(own) == 0 {
		return false
	}
	_, ok := maxMean(competitors, reachOf)
	return ok
}

func reachOf(p models.TimeSeriesPoint) int64  { return p.Reach }
func profitOf(p models.TimeSeriesPoint) int64 { return p.Profit }

func fired(own []models.TimeSeriesPoint, competitors [][]models.TimeSeriesPoint, field func(models.TimeSeriesPoint) int64, threshold float64) bool {
	ownMean, ok := mean(own, field)
	if !ok {
		return false
	}
	best, ok := maxMean(competitors, field)
	if !ok {
		return false
	}
	return ownMean < best*threshold
}

// mean returns the arithmetic mean of field over points; ok is false for an
// empty series.
func mean(points []models.TimeSeriesPoint, field func(models.TimeSeriesPoint) int64) (avg float64, ok bool) {
	if len(points) == 0 {
		return 0, false
	}
	var total float64
	for _, p := range points {
		total += float64(field(p))
	}
	return total / float64(len(points)), true
}

// maxMean returns the largest per-series mean, skipping empty series.
func maxMean(series [][]models.TimeSeriesPoint, field func(models.TimeSeriesPoint) int64) (best float64, ok bool) {
	for _, s := range series {
		m, has := mean(s, field)
		if !has {
			continue
		}
		if !ok || m > best {
			best, ok = m, true
		}
	}
	return best, ok
}
