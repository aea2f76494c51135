// Package service composes the operations dashboard: time-window pipeline
// metrics, due tasks, revenue aggregates, derived alerts, and role-scoped KPIs.
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"staffing_ops_backend/internal/dashboard/repository"
	"staffing_ops_backend/internal/dashboard/transport"
	"staffing_ops_backend/platform/httpkit"
	"staffing_ops_backend/platform/logger"
	"staffing_ops_backend/platform/metrics"

	"github.com/google/uuid"
)

// DueContactCounter reports how many contact-cadence items are currently due
// for a role scope. Implemented by the contacts module.
type DueContactCounter interface {
	DueCount(ctx context.Context, role string, now time.Time) (int, error)
}

// Service provides dashboard composition.
type Service struct {
	repo     repository.Repository
	contacts DueContactCounter
	log      *logger.Logger
}

// New creates a new dashboard service.
func New(repo repository.Repository, contacts DueContactCounter, log *logger.Logger) *Service {
	return &Service{repo: repo, contacts: contacts, log: log}
}

const (
	revenueProjectionPct = 115 // naive forward projection on realized month revenue
	pipelineWeightPct    = 60  // probability weighting on open offer value
)

// Summary produces one consistent dashboard for the viewer. The instant is
// captured once up front and threaded into every sub-computation so all
// windows agree; the six sub-computations run concurrently and none observes
// another's result. A failing sub-computation degrades its own section to the
// zero value and is reported in Degraded instead of failing the summary.
func (s *Service) Summary(ctx context.Context, viewerID uuid.UUID, role string) transport.SummaryResponse {
	now := time.Now()
	defer func() {
		metrics.DashboardRequests.WithLabelValues(role).Observe(time.Since(now).Seconds())
	}()

	summary := transport.SummaryResponse{
		GeneratedAt: now,
		Role:        role,
		Tasks:       make([]transport.TaskResponse, 0),
		Alerts:      make([]transport.AlertResponse, 0),
		KPIs:        make([]transport.KPIResponse, 0),
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		degraded []string
	)
	fail := func(section string, err error) {
		s.log.Error("dashboard section failed", "section", section, "error", err)
		mu.Lock()
		degraded = append(degraded, section)
		mu.Unlock()
	}
	run := func(section string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				fail(section, err)
			}
		}()
	}

	run("metrics", func() error {
		today, err := s.PipelineMetrics(ctx, TodayWindow(now))
		if err != nil {
			return err
		}
		week, err := s.PipelineMetrics(ctx, WeekWindow(now))
		if err != nil {
			return err
		}
		month, err := s.PipelineMetrics(ctx, MonthWindow(now))
		if err != nil {
			return err
		}
		mu.Lock()
		summary.Today, summary.ThisWeek, summary.ThisMonth = today, week, month
		mu.Unlock()
		return nil
	})

	run("tasks", func() error {
		from := startOfDay(now)
		to := from.AddDate(0, 0, 2) // through end of tomorrow
		tasks, err := s.repo.DueTasks(ctx, viewerID, from, to)
		if err != nil {
			return err
		}
		responses := make([]transport.TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			responses = append(responses, transport.TaskResponse{
				ID:       t.ID,
				Title:    t.Title,
				DueAt:    t.DueAt,
				Priority: t.Priority,
				Overdue:  t.DueAt.Before(now),
			})
		}
		mu.Lock()
		summary.Tasks = responses
		mu.Unlock()
		return nil
	})

	run("revenue", func() error {
		month := MonthWindow(now)
		quarter := QuarterWindow(now)
		monthCents, err := s.repo.RealizedRevenueCents(ctx, month.Start, month.End)
		if err != nil {
			return err
		}
		quarterCents, err := s.repo.RealizedRevenueCents(ctx, quarter.Start, quarter.End)
		if err != nil {
			return err
		}
		offerCents, err := s.repo.OpenOfferValueCents(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		summary.Revenue = transport.RevenueResponse{
			MonthRealizedCents:    monthCents,
			QuarterRealizedCents:  quarterCents,
			MonthProjectedCents:   monthCents * revenueProjectionPct / 100,
			WeightedPipelineCents: offerCents * pipelineWeightPct / 100,
		}
		mu.Unlock()
		return nil
	})

	run("sla", func() error {
		// Not measured yet; reported explicitly so consumers can render the
		// section without guessing at absent keys.
		mu.Lock()
		summary.SLA = transport.SLAResponse{}
		mu.Unlock()
		return nil
	})

	run("alerts", func() error {
		alerts, err := s.DeriveAlerts(ctx, now)
		if err != nil {
			return err
		}
		mu.Lock()
		summary.Alerts = alerts
		mu.Unlock()
		return nil
	})

	run("kpis", func() error {
		kpis, err := s.roleKPIs(ctx, viewerID, role, now)
		if err != nil {
			return err
		}
		mu.Lock()
		summary.KPIs = kpis
		mu.Unlock()
		return nil
	})

	wg.Wait()

	sort.Strings(degraded)
	summary.Degraded = degraded
	return summary
}

// MetricsForRange returns pipeline metrics for a caller-supplied window.
func (s *Service) MetricsForRange(ctx context.Context, start, end time.Time) (transport.PipelineMetricsResponse, error) {
	return s.PipelineMetrics(ctx, Window{Start: start, End: end})
}

var kpiLabels = map[string]string{
	"activeCandidates":    "Active candidates",
	"interviewsThisWeek":  "Interviews this week",
	"placementsThisMonth": "Placements this month",
	"activeClients":       "Active clients",
	"openVacancies":       "Open vacancies",
	"runningPlacements":   "Running placements",
	"contactsDue":         "Contacts due",
}

func (s *Service) roleKPIs(ctx context.Context, viewerID uuid.UUID, role string, now time.Time) ([]transport.KPIResponse, error) {
	var (
		figures map[string]int64
		order   []string
		err     error
	)

	switch role {
	case httpkit.RoleFieldManager:
		figures, err = s.repo.FieldManagerKPIs(ctx)
		order = []string{"activeClients", "openVacancies", "runningPlacements"}
	default:
		figures, err = s.repo.RecruiterKPIs(ctx, viewerID, WeekWindow(now).Start, MonthWindow(now).Start)
		order = []string{"activeCandidates", "interviewsThisWeek", "placementsThisMonth"}
	}
	if err != nil {
		return nil, err
	}

	if s.contacts != nil {
		due, err := s.contacts.DueCount(ctx, role, now)
		if err != nil {
			return nil, err
		}
		figures["contactsDue"] = int64(due)
		order = append(order, "contactsDue")
	}

	kpis := make([]transport.KPIResponse, 0, len(order))
	for _, key := range order {
		kpis = append(kpis, transport.KPIResponse{
			Key:   key,
			Label: kpiLabels[key],
			Value: figures[key],
		})
	}
	return kpis, nil
}
