package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"trendmoni/models"
	"trendmoni/storage"
	"trendmoni/utils"
)

// Mailer delivers a rendered digest to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes digests to the log instead of sending them.
type LogMailer struct {
	logger *utils.Logger
}

func NewLogMailer(logger *utils.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("[mailer] To: %s | %s\n%s", to, subject, body)
	return nil
}

// DigestResult counts the outcome of one digest run.
type DigestResult struct {
	Profiles int `json:"profiles" yaml:"profiles"`
	Sent     int `json:"sent" yaml:"sent"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Failed   int `json:"failed" yaml:"failed"`
}

// DigestService mails a trend digest to every profile that opted in.
type DigestService struct {
	profiles    storage.ProfileLister
	datasets    *DatasetCache
	mailer      Mailer
	retry       *utils.RetryConfig
	logger      *utils.Logger
	maxWorkers  int
	rateLimitMs int
}

// NewDigestService creates a DigestService. Deliveries run on a worker pool
// of maxWorkers, at most one start per rateLimitMs; retry may be nil.
func NewDigestService(profiles storage.ProfileLister, datasets *DatasetCache, mailer Mailer, retry *utils.RetryConfig, logger *utils.Logger, maxWorkers, rateLimitMs int) *DigestService {
	return &DigestService{
		profiles:    profiles,
		datasets:    datasets,
		mailer:      mailer,
		retry:       retry,
		logger:      logger,
		maxWorkers:  maxWorkers,
		rateLimitMs: rateLimitMs,
	}
}

// Run sends one digest per distinct email among profiles with notifications
// enabled. Delivery failures are counted and logged; only a failure to list
// profiles is returned.
func (d *DigestService) Run(ctx context.Context) (DigestResult, error) {
	profiles, err := d.profiles.ListProfiles(ctx)
	if err != nil {
		return DigestResult{}, fmt.Errorf("services: digest: %w", err)
	}

	result := DigestResult{Profiles: len(profiles)}
	seen := utils.NewKeySet()
	pool := utils.NewWorkerPool(d.maxWorkers, d.rateLimitMs)

	var mu sync.Mutex
	for _, p := range profiles {
		if !p.NotificationsEnabled || strings.TrimSpace(p.Email) == "" || len(p.Niches) == 0 || !seen.Add(p.Email) {
			result.Skipped++
			continue
		}
		if ctx.Err() != nil {
			break
		}

		pool.Submit(func() {
			ds := d.datasets.Get(p.UserID, p.Niches)
			subject, body := BuildDigest(p, ds)
			err := d.send(ctx, p.Email, subject, body)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				d.logger.Error("[digest] Delivery to %s failed: %v", p.Email, err)
				return
			}
			result.Sent++
		})
	}
	pool.Wait()

	d.logger.Info("[digest] Run complete: %d sent, %d skipped, %d failed", result.Sent, result.Skipped, result.Failed)
	return result, ctx.Err()
}

func (d *DigestService) send(ctx context.Context, to, subject, body string) error {
	if d.retry == nil {
		return d.mailer.Send(ctx, to, subject, body)
	}
	return d.retry.Do(ctx, "digest to "+to, func(ctx context.Context) error {
		return d.mailer.Send(ctx, to, subject, body)
	})
}

// Schedule runs the digest every interval until ctx is cancelled.
func (d *DigestService) Schedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.logger.Info("[digest] Scheduled every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.Run(ctx); err != nil && ctx.Err() == nil {
				d.logger.Error("[digest] Run failed: %v", err)
			}
		}
	}
}

// BuildDigest renders the digest for p: the lead trend of each niche
// followed by the current notifications.
func BuildDigest(p models.Profile, ds *models.Dataset) (subject, body string) {
	subject = fmt.Sprintf("Your Trend-Moni digest for %s", strings.Join(p.Niches, ", "))

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", p.CompanyName)
	b.WriteString("Latest trends:\n")
	lead := make(map[string]bool)
	for _, t := range ds.Trends {
		if lead[t.Topic] {
			continue
		}
		lead[t.Topic] = true
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", t.Topic, t.Title, t.Sentiment)
	}
	if len(ds.Notifications) > 0 {
		b.WriteString("\nNotifications:\n")
		for _, n := range ds.Notifications {
			fmt.Fprintf(&b, "- %s: %s\n", n.Date, n.Message)
		}
	}
	return subject, b.String()
}
