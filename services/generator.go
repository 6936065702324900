package services

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
	"unicode/utf8"

	"trendmoni/models"
	"trendmoni/utils"
)

const dateLayout = "2006-01-02"

var (
	// WindowStart and WindowEnd bound the weekly growth series (inclusive).
	WindowStart = time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	WindowEnd   = time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC)
)

// intRange is a half-open [lo, hi) range for uniform draws.
type intRange struct{ lo, hi int64 }

type seriesRanges struct {
	reach, engagement, profit intRange
}

var (
	ownRanges         = seriesRanges{intRange{100000, 600000}, intRange{10000, 60000}, intRange{5000, 15000}}
	competitorRanges1 = seriesRanges{intRange{80000, 480000}, intRange{8000, 48000}, intRange{4000, 12000}}
	competitorRanges2 = seriesRanges{intRange{120000, 720000}, intRange{12000, 72000}, intRange{6000, 18000}}
)

// Generator synthesises mock analytics datasets. Values come from an
// injected random source; structure and counts depend only on the niches.
// It is safe for concurrent use.
type Generator struct {
	logger *utils.Logger
	now    func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator. A zero seed draws from an unseeded
// source, so successive runs differ; any other seed makes output reproducible.
func NewGenerator(logger *utils.Logger, seed int64) *Generator {
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
	}
	return NewGeneratorWithSource(logger, src)
}

// NewGeneratorWithSource creates a Generator drawing from src.
func NewGeneratorWithSource(logger *utils.Logger, src rand.Source) *Generator {
	return &Generator{logger: logger, now: time.Now, rng: rand.New(src)}
}

// WeeklyDates returns every seventh day from start through end inclusive,
// formatted as calendar dates.
func WeeklyDates(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates
}

// Generate builds a fresh dataset for niches. An empty niche list yields
// empty niche-derived collections.
func (g *Generator) Generate(niches []string) *models.Dataset {
	g.mu.Lock()
	defer g.mu.Unlock()

	dates := WeeklyDates(WindowStart, WindowEnd)

	ds := &models.Dataset{
		Niches:        append([]string{}, niches...),
		Trends:        make([]models.TrendBrief, 0, 3*len(niches)),
		Influencers:   make([]models.InfluencerProfile, 0, 3*len(niches)),
		GrowthData:    g.series(dates, ownRanges),
		Competitors:   make([]models.CompetitorProfile, 0, 2*len(niches)),
		Notifications: notifications(niches),
		GeneratedAt:   g.now().UTC(),
	}

	for _, niche := range niches {
		ds.Trends = append(ds.Trends, trendBriefs(niche)...)
		ds.Influencers = append(ds.Influencers, g.influencers(niche)...)
		ds.Competitors = append(ds.Competitors, g.competitors(niche, dates)...)
	}

	g.logger.Debug("[generator] Generated %d trends, %d influencers, %d competitors over %d weeks for %v",
		len(ds.Trends), len(ds.Influencers), len(ds.Competitors), len(dates), niches)
	return ds
}

func (g *Generator) between(r intRange) int64 {
	return r.lo + g.rng.Int64N(r.hi-r.lo)
}

func (g *Generator) rate(lo, span float64) float64 {
	return round2(lo + g.rng.Float64()*span)
}

func (g *Generator) series(dates []string, r seriesRanges) []models.TimeSeriesPoint {
	points := make([]models.TimeSeriesPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, models.TimeSeriesPoint{
			Date:       d,
			Reach:      g.between(r.reach),
			Engagement: g.between(r.engagement),
			Profit:     g.between(r.profit),
		})
	}
	return points
}

func trendBriefs(niche string) []models.TrendBrief {
	return []models.TrendBrief{
		{
			ID:        fmt.Sprintf("trend-%s-1", niche),
			Topic:     niche,
			Title:     fmt.Sprintf("Rise of Sustainable %s Practices", niche),
			Summary:   fmt.Sprintf("Influencers are increasingly focusing on eco-friendly and sustainable products within the %s industry. This trend shows high engagement, particularly on Instagram and YouTube.", niche),
			Insights:  []string{"Increased demand for ethical sourcing", "Growth in DIY content related to sustainability", "Brands adopting greener messaging"},
			Sentiment: "Positive",
			Date:      "2025-07-28",
		},
		{
			ID:        fmt.Sprintf("trend-%s-2", niche),
			Topic:     niche,
			Title:     fmt.Sprintf("AI Integration in %s Content Creation", niche),
			Summary:   fmt.Sprintf("Discussions around AI tools for content creation, from scriptwriting to image generation, are gaining traction among %s influencers.", niche),
			Insights:  []string{"AI-powered editing tools are popular", "Concerns about authenticity vs. efficiency", fmt.Sprintf("Tutorials on using AI for %s specific tasks", niche)},
			Sentiment: "Neutral",
			Date:      "2025-07-25",
		},
		{
			ID:        fmt.Sprintf("trend-%s-3", niche),
			Topic:     niche,
			Title:     fmt.Sprintf("Micro-Influencers Dominate %s Niche", niche),
			Summary:   fmt.Sprintf("The focus is shifting from mega-influencers to micro-influencers for deeper engagement and niche-specific audience reach in %s.", niche),
			Insights:  []string{"Higher ROI for micro-influencer campaigns", "Authenticity drives engagement", "Community building is key"},
			Sentiment: "Positive",
			Date:      "2025-07-22",
		},
	}
}

func (g *Generator) influencers(niche string) []models.InfluencerProfile {
	initial := firstRune(niche)
	return []models.InfluencerProfile{
		{
			ID:             fmt.Sprintf("inf-%s-1", niche),
			Name:           fmt.Sprintf("Eco%sGuru", niche),
			Niche:          niche,
			Platform:       "Instagram",
			Followers:      g.between(intRange{100000, 600000}),
			EngagementRate: g.rate(2, 3),
			ProfilePic:     fmt.Sprintf("https://placehold.co/100x100/A78BFA/ffffff?text=%sI1", initial),
			RecentPosts: []models.Post{
				{Date: "2025-07-29", Content: fmt.Sprintf("Exploring sustainable %s brands! #sustainable%s", niche, niche)},
				{Date: "2025-07-27", Content: fmt.Sprintf("DIY %s tips for a greener lifestyle.", niche)},
			},
		},
		{
			ID:             fmt.Sprintf("inf-%s-2", niche),
			Name:           fmt.Sprintf("Tech%sInnovator", niche),
			Niche:          niche,
			Platform:       "YouTube",
			Followers:      g.between(intRange{200000, 1200000}),
			EngagementRate: g.rate(1, 1.5),
			ProfilePic:     fmt.Sprintf("https://placehold.co/100x100/818CF8/ffffff?text=%sI2", initial),
			RecentPosts: []models.Post{
				{Date: "2025-07-30", Content: fmt.Sprintf("Reviewing the latest AI tools for %s content.", niche)},
				{Date: "2025-07-28", Content: fmt.Sprintf("My thoughts on the future of %s with AI.", niche)},
			},
		},
		{
			ID:             fmt.Sprintf("inf-%s-3", niche),
			Name:           fmt.Sprintf("LinkedIn%sPro", niche),
			Niche:          niche,
			Platform:       "LinkedIn",
			Followers:      g.between(intRange{20000, 120000}),
			EngagementRate: g.rate(0.5, 0.5),
			ProfilePic:     fmt.Sprintf("https://placehold.co/100x100/C084FC/ffffff?text=%sI3", initial),
			RecentPosts: []models.Post{
				{Date: "2025-07-26", Content: fmt.Sprintf("The power of niche communities in %s marketing.", niche)},
				{Date: "2025-07-24", Content: fmt.Sprintf("Why micro-influencers are key for B2B %s.", niche)},
			},
		},
	}
}

func (g *Generator) competitors(niche string, dates []string) []models.CompetitorProfile {
	return []models.CompetitorProfile{
		{
			ID:             fmt.Sprintf("comp-%s-1", niche),
			Name:           fmt.Sprintf("Global %s Co.", niche),
			Niche:          niche,
			RecentCampaign: "Launched a major campaign on TikTok promoting their new sustainable line.",
			EstimatedReach: "5M+",
			Platforms:      []string{"TikTok", "Instagram"},
			GrowthData:     g.series(dates, competitorRanges1),
		},
		{
			ID:             fmt.Sprintf("comp-%s-2", niche),
			Name:           fmt.Sprintf("Innovate %s Solutions", niche),
			Niche:          niche,
			RecentCampaign: "Partnered with a leading AI firm to integrate AI into their product development and marketing.",
			EstimatedReach: "2M+",
			Platforms:      []string{"LinkedIn", "YouTube"},
			GrowthData:     g.series(dates, competitorRanges2),
		},
	}
}

func notifications(niches []string) []models.Notification {
	if len(niches) == 0 {
		return []models.Notification{}
	}
	first := niches[0]
	return []models.Notification{
		{ID: "notif1", Message: fmt.Sprintf("New trend brief available for %s!", first), Date: "2025-07-31"},
		{ID: "notif2", Message: fmt.Sprintf("Competitor 'Global %s Co.' launched a new campaign.", first), Date: "2025-07-30"},
		{ID: "notif3", Message: fmt.Sprintf("Your engagement rate in %s has increased by 1.2%% this week!", first), Date: "2025-07-29"},
	}
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}
