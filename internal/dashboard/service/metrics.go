package service

import (
	"context"

	"staffing_ops_backend/internal/dashboard/repository"
	"staffing_ops_backend/internal/dashboard/transport"

	"golang.org/x/sync/errgroup"
)

// PipelineMetrics computes event counts inside the window plus the delta
// against the immediately preceding window of equal length. Current and
// previous windows are queried concurrently. Deltas are actual minus previous
// and may be negative; the very first window of a system's history legitimately
// compares against empty data.
func (s *Service) PipelineMetrics(ctx context.Context, w Window) (transport.PipelineMetricsResponse, error) {
	var (
		current  repository.PipelineCounts
		previous repository.PipelineCounts
		total    int
	)

	prev := w.Previous()
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		counts, err := s.repo.CountsInWindow(groupCtx, w.Start, w.End)
		if err != nil {
			return err
		}
		current = counts
		return nil
	})
	group.Go(func() error {
		counts, err := s.repo.CountsInWindow(groupCtx, prev.Start, prev.End)
		if err != nil {
			return err
		}
		previous = counts
		return nil
	})
	group.Go(func() error {
		count, err := s.repo.CountCandidatesBefore(groupCtx, w.End)
		if err != nil {
			return err
		}
		total = count
		return nil
	})
	if err := group.Wait(); err != nil {
		return transport.PipelineMetricsResponse{}, err
	}

	return transport.PipelineMetricsResponse{
		WindowStart:     w.Start,
		WindowEnd:       w.End,
		TotalCandidates: total,
		NewCandidates:   current.NewCandidates,
		NewVacancies:    current.NewVacancies,
		PhoneCalls:      current.PhoneCalls,
		Interviews:      current.Interviews,
		Offers:          current.Offers,
		Placements:      current.Placements,
		ChangeVsPrevious: transport.MetricsDeltaResponse{
			// Total-candidates has no prior snapshot to compare against, so
			// its delta stays zero rather than pretending to be measured.
			TotalCandidates: 0,
			NewCandidates:   current.NewCandidates - previous.NewCandidates,
			NewVacancies:    current.NewVacancies - previous.NewVacancies,
			PhoneCalls:      current.PhoneCalls - previous.PhoneCalls,
			Interviews:      current.Interviews - previous.Interviews,
			Offers:          current.Offers - previous.Offers,
			Placements:      current.Placements - previous.Placements,
		},
	}, nil
}
