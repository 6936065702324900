package services

import (
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"

	"trendmoni/models"
)

func newSeededGenerator(seed uint64) *Generator {
	return NewGeneratorWithSource(newTestLogger(), rand.NewPCG(seed, seed))
}

func TestWeeklyDates(t *testing.T) {
	dates := WeeklyDates(WindowStart, WindowEnd)
	if len(dates) != 14 {
		t.Fatalf("len(dates): got %d, want 14", len(dates))
	}
	if dates[0] != "2025-05-01" {
		t.Errorf("first date: got %s, want 2025-05-01", dates[0])
	}
	if dates[13] != "2025-07-31" {
		t.Errorf("last date: got %s, want 2025-07-31", dates[13])
	}
	for i := 1; i < len(dates); i++ {
		if dates[i] <= dates[i-1] {
			t.Errorf("dates not ascending at %d: %s after %s", i, dates[i], dates[i-1])
		}
	}
}

func TestGenerateCounts(t *testing.T) {
	g := newSeededGenerator(1)
	for _, niches := range [][]string{{"Tech"}, {"Tech", "Food"}, {"Fashion", "Tech", "Education", "Food"}} {
		ds := g.Generate(niches)
		n := len(niches)
		if len(ds.Trends) != 3*n {
			t.Errorf("%v trends: got %d, want %d", niches, len(ds.Trends), 3*n)
		}
		if len(ds.Influencers) != 3*n {
			t.Errorf("%v influencers: got %d, want %d", niches, len(ds.Influencers), 3*n)
		}
		if len(ds.Competitors) != 2*n {
			t.Errorf("%v competitors: got %d, want %d", niches, len(ds.Competitors), 2*n)
		}
		if len(ds.GrowthData) != 14 {
			t.Errorf("%v growth points: got %d, want 14", niches, len(ds.GrowthData))
		}
		if len(ds.Notifications) != 3 {
			t.Errorf("%v notifications: got %d, want 3", niches, len(ds.Notifications))
		}
	}
}

func TestGenerateNicheMembership(t *testing.T) {
	profile := models.Profile{CompanyName: "Acme", Niches: []string{"Tech", "Food"}}
	niches := profile.Niches
	ds := newSeededGenerator(2).Generate(niches)
	member := profile.HasNiche

	for _, tr := range ds.Trends {
		if !member(tr.Topic) {
			t.Errorf("trend %s has topic %q outside %v", tr.ID, tr.Topic, niches)
		}
	}
	for _, inf := range ds.Influencers {
		if !member(inf.Niche) {
			t.Errorf("influencer %s has niche %q outside %v", inf.ID, inf.Niche, niches)
		}
	}
	for _, c := range ds.Competitors {
		if !member(c.Niche) {
			t.Errorf("competitor %s has niche %q outside %v", c.ID, c.Niche, niches)
		}
		if len(c.GrowthData) != 14 {
			t.Errorf("competitor %s points: got %d, want 14", c.ID, len(c.GrowthData))
		}
	}
}

func TestGenerateRanges(t *testing.T) {
	ds := newSeededGenerator(3).Generate([]string{"Fashion", "Education"})

	checkSeries(t, "own", ds.GrowthData, ownRanges)
	for i, c := range ds.Competitors {
		r := competitorRanges1
		if i%2 == 1 {
			r = competitorRanges2
		}
		checkSeries(t, c.Name, c.GrowthData, r)
	}

	followers := []intRange{{100000, 600000}, {200000, 1200000}, {20000, 120000}}
	rates := [][2]float64{{2, 5}, {1, 2.5}, {0.5, 1}}
	for i, inf := range ds.Influencers {
		f, r := followers[i%3], rates[i%3]
		if inf.Followers < f.lo || inf.Followers >= f.hi {
			t.Errorf("%s followers %d outside [%d, %d)", inf.Name, inf.Followers, f.lo, f.hi)
		}
		if inf.EngagementRate < r[0] || inf.EngagementRate > r[1] {
			t.Errorf("%s engagement rate %.2f outside [%.1f, %.1f]", inf.Name, inf.EngagementRate, r[0], r[1])
		}
		if inf.EngagementRate != round2(inf.EngagementRate) {
			t.Errorf("%s engagement rate %v not rounded to 2 decimals", inf.Name, inf.EngagementRate)
		}
	}
}

func checkSeries(t *testing.T, name string, points []models.TimeSeriesPoint, r seriesRanges) {
	t.Helper()
	for _, p := range points {
		if p.Reach < r.reach.lo || p.Reach >= r.reach.hi {
			t.Errorf("%s %s reach %d outside range", name, p.Date, p.Reach)
		}
		if p.Engagement < r.engagement.lo || p.Engagement >= r.engagement.hi {
			t.Errorf("%s %s engagement %d outside range", name, p.Date, p.Engagement)
		}
		if p.Profit < r.profit.lo || p.Profit >= r.profit.hi {
			t.Errorf("%s %s profit %d outside range", name, p.Date, p.Profit)
		}
	}
}

func TestGenerateTemplates(t *testing.T) {
	ds := newSeededGenerator(4).Generate([]string{"Tech"})

	if ds.Trends[0].ID != "trend-Tech-1" || ds.Trends[0].Title != "Rise of Sustainable Tech Practices" {
		t.Errorf("first trend: got %s %q", ds.Trends[0].ID, ds.Trends[0].Title)
	}
	if ds.Trends[1].Sentiment != "Neutral" {
		t.Errorf("second trend sentiment: got %s, want Neutral", ds.Trends[1].Sentiment)
	}

	wantNames := []string{"EcoTechGuru", "TechTechInnovator", "LinkedInTechPro"}
	wantPlatforms := []string{"Instagram", "YouTube", "LinkedIn"}
	for i, inf := range ds.Influencers {
		if inf.Name != wantNames[i] || inf.Platform != wantPlatforms[i] {
			t.Errorf("influencer %d: got %s on %s, want %s on %s", i, inf.Name, inf.Platform, wantNames[i], wantPlatforms[i])
		}
		if !strings.HasSuffix(inf.ProfilePic, "text=TI"+string(rune('1'+i))) {
			t.Errorf("influencer %d profile pic: got %s", i, inf.ProfilePic)
		}
	}

	if ds.Competitors[0].Name != "Global Tech Co." || ds.Competitors[1].Name != "Innovate Tech Solutions" {
		t.Errorf("competitors: got %q, %q", ds.Competitors[0].Name, ds.Competitors[1].Name)
	}
}

func TestGenerateNotificationsUseFirstNiche(t *testing.T) {
	ds := newSeededGenerator(5).Generate([]string{"Food", "Tech"})
	for _, n := range ds.Notifications {
		if !strings.Contains(n.Message, "Food") || strings.Contains(n.Message, "Tech") {
			t.Errorf("notification %s: %q should mention only the first niche", n.ID, n.Message)
		}
	}
	if ds.Notifications[2].Message != "Your engagement rate in Food has increased by 1.2% this week!" {
		t.Errorf("notif3: got %q", ds.Notifications[2].Message)
	}
}

func TestGenerateEmptyNiches(t *testing.T) {
	ds := newSeededGenerator(6).Generate(nil)
	if len(ds.Trends) != 0 || len(ds.Influencers) != 0 || len(ds.Competitors) != 0 || len(ds.Notifications) != 0 {
		t.Errorf("empty niches: got %d trends, %d influencers, %d competitors, %d notifications",
			len(ds.Trends), len(ds.Influencers), len(ds.Competitors), len(ds.Notifications))
	}
	if len(ds.GrowthData) != 14 {
		t.Errorf("growth points: got %d, want 14", len(ds.GrowthData))
	}
}

func TestGenerateSeededIsReproducible(t *testing.T) {
	niches := []string{"Tech", "Education"}
	a := NewGenerator(newTestLogger(), 42).Generate(niches)
	b := NewGenerator(newTestLogger(), 42).Generate(niches)

	if !reflect.DeepEqual(a.GrowthData, b.GrowthData) {
		t.Error("growth data differs between equal seeds")
	}
	if !reflect.DeepEqual(a.Influencers, b.Influencers) {
		t.Error("influencers differ between equal seeds")
	}
	if !reflect.DeepEqual(a.Competitors, b.Competitors) {
		t.Error("competitors differ between equal seeds")
	}

	c := NewGenerator(newTestLogger(), 43).Generate(niches)
	if reflect.DeepEqual(a.GrowthData, c.GrowthData) {
		t.Error("different seeds produced identical growth data")
	}
}

func TestGenerateUnseededIsShapeStable(t *testing.T) {
	g := NewGenerator(newTestLogger(), 0)
	niches := []string{"Fashion", "Food"}
	a := g.Generate(niches)
	b := g.Generate(niches)

	if len(a.Trends) != len(b.Trends) || len(a.Influencers) != len(b.Influencers) ||
		len(a.Competitors) != len(b.Competitors) || len(a.Notifications) != len(b.Notifications) {
		t.Errorf("collection sizes differ: %d/%d/%d/%d vs %d/%d/%d/%d",
			len(a.Trends), len(a.Influencers), len(a.Competitors), len(a.Notifications),
			len(b.Trends), len(b.Influencers), len(b.Competitors), len(b.Notifications))
	}
	if len(a.GrowthData) != 14 || len(b.GrowthData) != 14 {
		t.Errorf("growth points: got %d and %d, want 14", len(a.GrowthData), len(b.GrowthData))
	}
	for i := range a.GrowthData {
		if a.GrowthData[i].Date != b.GrowthData[i].Date {
			t.Errorf("date %d: got %s and %s", i, a.GrowthData[i].Date, b.GrowthData[i].Date)
		}
	}
	for i := range a.Trends {
		if a.Trends[i].ID != b.Trends[i].ID {
			t.Errorf("trend %d: got %s and %s", i, a.Trends[i].ID, b.Trends[i].ID)
		}
	}
}
