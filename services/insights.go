package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"trendmoni/models"
	"trendmoni/utils"
)

// InsightService summarises a dataset into a GrowthReport.
type InsightService struct {
	logger      *utils.Logger
	recommender *RecommendationService
}

func NewInsightService(logger *utils.Logger, recommender *RecommendationService) *InsightService {
	return &InsightService{logger: logger, recommender: recommender}
}

func (s *InsightService) Generate(ds *models.Dataset) *models.GrowthReport {
	report := &models.GrowthReport{
		TrendsByNiche: make(map[string]int),
	}
	if ds == nil {
		return report
	}

	report.Niches = append([]string{}, ds.Niches...)
	report.Points = len(ds.GrowthData)
	report.Recommendations = s.recommender.Recommend(ds.GrowthData, ds.CompetitorSeries())

	for _, t := range ds.Trends {
		report.TrendsByNiche[t.Topic]++
	}

	// Own growth (reach extremes and the peak week)
	if len(ds.GrowthData) > 0 {
		report.MinReach = ds.GrowthData[0].Reach
		report.MaxReach = ds.GrowthData[0].Reach
		report.PeakWeek = ds.GrowthData[0].Date
		var reach, engagement, profit float64
		for _, p := range ds.GrowthData {
			reach += float64(p.Reach)
			engagement += float64(p.Engagement)
			profit += float64(p.Profit)
			if p.Reach < report.MinReach {
				report.MinReach = p.Reach
			}
			if p.Reach > report.MaxReach {
				report.MaxReach = p.Reach
				report.PeakWeek = p.Date
			}
		}
		n := float64(len(ds.GrowthData))
		report.AverageReach = round2(reach / n)
		report.AverageEngagement = round2(engagement / n)
		report.AverageProfit = round2(profit / n)
	}

	// Strongest competitor by mean reach
	for _, c := range ds.Competitors {
		m, ok := mean(c.GrowthData, reachOf)
		if !ok {
			continue
		}
		if report.TopCompetitor == "" || m > report.TopCompetitorReach {
			report.TopCompetitor = c.Name
			report.TopCompetitorReach = round2(m)
		}
	}

	s.logger.Debug("[insights] Report over %d weeks, %d competitors, %d recommendations",
		report.Points, len(ds.Competitors), len(report.Recommendations))
	return report
}

// Print renders r as a coloured terminal summary.
func (s *InsightService) Print(w io.Writer, r *models.GrowthReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📈 TREND-MONI GROWTH REPORT\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Niches       : \033[1m%s\033[0m\n", strings.Join(r.Niches, ", "))
	fmt.Fprintf(w, "  Weeks tracked: \033[1m%d\033[0m\n", r.Points)
	fmt.Fprintln(w)

	// Growth
	fmt.Fprintf(w, "\033[1;33m  Your Growth (weekly averages)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.Points > 0 {
		fmt.Fprintf(w, "  Reach      : \033[1;32m%.2f\033[0m (min %d, max %d)\n", r.AverageReach, r.MinReach, r.MaxReach)
		fmt.Fprintf(w, "  Engagement : \033[1;32m%.2f\033[0m\n", r.AverageEngagement)
		fmt.Fprintf(w, "  Profit     : \033[1;32m$%.2f\033[0m\n", r.AverageProfit)
		fmt.Fprintf(w, "  Peak week  : %s\n", r.PeakWeek)
	} else {
		fmt.Fprintf(w, "  No growth data available\n")
	}
	fmt.Fprintln(w)

	if r.TopCompetitor != "" {
		fmt.Fprintf(w, "\033[1;33m  Strongest Competitor\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.TopCompetitor, 50))
		fmt.Fprintf(w, "  Avg reach : \033[1;31m%.2f\033[0m\n", r.TopCompetitorReach)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Trend Briefs by Niche\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TrendsByNiche) == 0 {
		fmt.Fprintf(w, "  No trend briefs\n")
	} else {
		niches := make([]string, 0, len(r.TrendsByNiche))
		for n := range r.TrendsByNiche {
			niches = append(niches, n)
		}
		sort.Strings(niches)
		for _, n := range niches {
			cnt := r.TrendsByNiche[n]
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(n, 28), strings.Repeat("█", cnt), cnt)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Recommendations\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for i, rec := range r.Recommendations {
		fmt.Fprintf(w, "  \033[1m%d. %s\033[0m\n", i+1, rec.Title)
		fmt.Fprintf(w, "     → %s\n", rec.Action)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
