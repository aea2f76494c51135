// Package transport defines request and response DTOs for the dashboard module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// MetricsQueryRequest is the query for a custom-window metrics request.
type MetricsQueryRequest struct {
	Start string `form:"start" validate:"required,datetime=2006-01-02"`
	End   string `form:"end" validate:"required,datetime=2006-01-02"`
}

// PipelineMetricsResponse holds event counts inside one window plus the delta
// against the immediately preceding window of equal length.
type PipelineMetricsResponse struct {
	WindowStart      time.Time            `json:"windowStart"`
	WindowEnd        time.Time            `json:"windowEnd"`
	TotalCandidates  int                  `json:"totalCandidates"`
	NewCandidates    int                  `json:"newCandidates"`
	NewVacancies     int                  `json:"newVacancies"`
	PhoneCalls       int                  `json:"phoneCalls"`
	Interviews       int                  `json:"interviews"`
	Offers           int                  `json:"offers"`
	Placements       int                  `json:"placements"`
	ChangeVsPrevious MetricsDeltaResponse `json:"changeVsPrevious"`
}

// MetricsDeltaResponse carries actual-minus-previous deltas. Values may be
// negative when the previous window outperformed the current one.
type MetricsDeltaResponse struct {
	TotalCandidates int `json:"totalCandidates"`
	NewCandidates   int `json:"newCandidates"`
	NewVacancies    int `json:"newVacancies"`
	PhoneCalls      int `json:"phoneCalls"`
	Interviews      int `json:"interviews"`
	Offers          int `json:"offers"`
	Placements      int `json:"placements"`
}

// TaskResponse is a pending task surfaced on the dashboard.
type TaskResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	DueAt    time.Time `json:"dueAt"`
	Priority string    `json:"priority"`
	Overdue  bool      `json:"overdue"`
}

// RevenueResponse aggregates realized placement margins and naive projections.
type RevenueResponse struct {
	MonthRealizedCents    int64 `json:"monthRealizedCents"`
	QuarterRealizedCents  int64 `json:"quarterRealizedCents"`
	MonthProjectedCents   int64 `json:"monthProjectedCents"`
	WeightedPipelineCents int64 `json:"weightedPipelineCents"`
}

// SLAResponse carries service-level placeholders until real measurement lands.
type SLAResponse struct {
	TimeToFirstContactHours float64 `json:"timeToFirstContactHours"`
	TimeToFillDays          float64 `json:"timeToFillDays"`
	ComplianceRate          float64 `json:"complianceRate"`
}

// AlertResponse is a derived operational alert.
type AlertResponse struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	SubjectType string     `json:"subjectType,omitempty"`
	SubjectID   *uuid.UUID `json:"subjectId,omitempty"`
}

// KPIResponse is a single role-scoped key figure.
type KPIResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// SummaryResponse is the composed dashboard for one viewer at one instant.
type SummaryResponse struct {
	GeneratedAt time.Time                 `json:"generatedAt"`
	Role        string                    `json:"role"`
	Today       PipelineMetricsResponse   `json:"today"`
	ThisWeek    PipelineMetricsResponse   `json:"thisWeek"`
	ThisMonth   PipelineMetricsResponse   `json:"thisMonth"`
	Tasks       []TaskResponse            `json:"tasks"`
	Revenue     RevenueResponse           `json:"revenue"`
	SLA         SLAResponse               `json:"sla"`
	Alerts      []AlertResponse           `json:"alerts"`
	KPIs        []KPIResponse             `json:"kpis"`
	// Degraded lists summary sections whose backing query failed and whose
	// values are therefore zero rather than measured.
	Degraded []string `json:"degraded,omitempty"`
}
