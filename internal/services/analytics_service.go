package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// Roll-up windows
const (
	dashboardDays      = 7
	reportDays         = 30
	recentEventsLimit  = 8
	contactGrowthWeeks = 12
)

type analyticsService struct {
	repos *repositories.Repositories
	now   func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService implementation
func NewAnalyticsService(repos *repositories.Repositories) AnalyticsService {
	return &analyticsService{repos: repos, now: time.Now}
}

// startOfDay truncates t to UTC midnight
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Dashboard computes totals, a zero-filled daily series and the latest events
func (s *analyticsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	now := s.now()
	since := startOfDay(now).AddDate(0, 0, -(dashboardDays - 1))

	var (
		stats     models.DashboardStats
		campaigns models.CampaignStats
		pages     models.LandingPageStats
		daily     []models.DailyCount
		recent    []*models.EventView
	)
	totals := &stats.Totals
	subscribed := repositories.ContactQuery{Status: models.ContactSubscribed}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals.Contacts, err = s.repos.Contacts.Count(gctx, repositories.ContactQuery{})
		return err
	})
	g.Go(func() (err error) {
		totals.SubscribedContacts, err = s.repos.Contacts.Count(gctx, subscribed)
		return err
	})
	g.Go(func() (err error) {
		totals.Campaigns, err = s.repos.Campaigns.Count(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		totals.LandingPages, err = s.repos.LandingPages.Count(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		campaigns, err = s.repos.Campaigns.SumStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		pages, err = s.repos.LandingPages.SumStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		daily, err = s.repos.Events.DailyCounts(gctx, since, []models.EventType{
			models.EventEmailOpen, models.EventEmailClick, models.EventFormSubmit,
		})
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.repos.Events.Recent(gctx, recentEventsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals.EmailsSent = int64(campaigns.Sent)
	totals.UniqueOpens = int64(campaigns.UniqueOpens)
	totals.UniqueClicks = int64(campaigns.UniqueClicks)
	totals.OpenRate = campaigns.OpenRate()
	totals.ClickRate = campaigns.ClickRate()
	totals.Visits = pages.Visits
	totals.Submissions = pages.Submissions
	totals.ConversionRate = models.Percentage(pages.Submissions, pages.Visits)

	stats.Daily = dailySeries(since, dashboardDays, daily)
	stats.RecentEvents = recent
	if stats.RecentEvents == nil {
		stats.RecentEvents = []*models.EventView{}
	}
	return &stats, nil
}

// dailySeries lays counts onto one point per day, zero when a day has no events
func dailySeries(since time.Time, days int, counts []models.DailyCount) []models.DailyPoint {
	points := make([]models.DailyPoint, days)
	index := make(map[string]int, days)
	for i := range points {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		points[i].Date = date
		index[date] = i
	}
	for _, c := range counts {
		i, ok := index[c.Date]
		if !ok {
			continue
		}
		switch c.Type {
		case models.EventEmailOpen:
			points[i].Opens += c.Count
		case models.EventEmailClick:
			points[i].Clicks += c.Count
		case models.EventFormSubmit:
			points[i].Submissions += c.Count
		}
	}
	return points
}

// Reports computes the 30-day funnel, per-campaign and per-page tables and weekly contact growth
func (s *analyticsService) Reports(ctx context.Context) (*models.ReportStats, error) {
	now := s.now()
	since := startOfDay(now).AddDate(0, 0, -(reportDays - 1))
	growthSince := startOfDay(now).AddDate(0, 0, -7*contactGrowthWeeks)

	var (
		byType    map[models.EventType]int64
		campaigns []*models.Campaign
		pages     []*models.LandingPage
		weeks     []models.WeeklyCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byType, err = s.repos.Events.CountByType(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		campaigns, err = s.repos.Campaigns.FindAll(gctx, "", 1, 0)
		return err
	})
	g.Go(func() (err error) {
		pages, err = s.repos.LandingPages.FindAll(gctx, "", 1, 0)
		return err
	})
	g.Go(func() (err error) {
		weeks, err = s.repos.Contacts.CountCreatedByWeek(gctx, growthSince)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &models.ReportStats{
		Funnel: models.Funnel{
			PageViews:   byType[models.EventPageView],
			FormSubmits: byType[models.EventFormSubmit],
			EmailOpens:  byType[models.EventEmailOpen],
			EmailClicks: byType[models.EventEmailClick],
		},
		Campaigns:     make([]models.CampaignRow, 0, len(campaigns)),
		LandingPages:  make([]models.PageRow, 0, len(pages)),
		ContactGrowth: make([]models.WeekPoint, 0, len(weeks)),
	}

	for _, c := range campaigns {
		report.Campaigns = append(report.Campaigns, models.CampaignRow{
			ID:        c.ID.Hex(),
			Name:      c.Name,
			Status:    c.Status,
			Sent:      c.Stats.Sent,
			OpenRate:  c.Stats.OpenRate(),
			ClickRate: c.Stats.ClickRate(),
			SentAt:    c.SentAt,
		})
	}
	for _, p := range pages {
		report.LandingPages = append(report.LandingPages, models.PageRow{
			ID:             p.ID.Hex(),
			Name:           p.Name,
			Slug:           p.Slug,
			Status:         p.Status,
			Visits:         p.Stats.Visits,
			Submissions:    p.Stats.Submissions,
			ConversionRate: models.Percentage(p.Stats.Submissions, p.Stats.Visits),
		})
	}
	for _, w := range weeks {
		report.ContactGrowth = append(report.ContactGrowth, models.WeekPoint{
			Week:  fmt.Sprintf("%d-W%02d", w.Year, w.Week),
			Count: w.Count,
		})
	}
	return report, nil
}
