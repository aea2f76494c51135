package service

import (
	"context"
	"testing"
	"time"

	"staffing_ops_backend/internal/contacts/repository"
	"staffing_ops_backend/internal/contacts/transport"
	"staffing_ops_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	rows     []repository.ContactRow
	gotTypes []string
	err      error
}

func (f *fakeRepo) LastContacts(ctx context.Context, entityTypes []string) ([]repository.ContactRow, error) {
	f.gotTypes = entityTypes
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func testService(repo *fakeRepo) *Service {
	return New(repo, logger.New("test"))
}

func TestCadenceDaysTiers(t *testing.T) {
	cases := []struct {
		daysSince int
		want      int
	}{
		{0, 30},
		{13, 30},
		{14, 30}, // exactly 14 stays monthly
		{15, 14},
		{90, 14}, // exactly 90 stays bi-weekly
		{91, 90},
		{365, 90},
	}
	for _, tc := range cases {
		if got := CadenceDays(tc.daysSince); got != tc.want {
			t.Fatalf("CadenceDays(%d) = %d, want %d", tc.daysSince, got, tc.want)
		}
	}
}

func TestDueListIncludesOverdueAndDueSoon(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	overdue := repository.ContactRow{
		EntityType: "client", EntityID: uuid.New(), Name: "Overdue BV",
		LastContactAt: now.AddDate(0, 0, -40), // bi-weekly tier, 26 days past due
	}
	dueSoon := repository.ContactRow{
		EntityType: "client", EntityID: uuid.New(), Name: "Soon BV",
		LastContactAt: now.AddDate(0, 0, -25), // bi-weekly tier, 11 days past due
	}
	fresh := repository.ContactRow{
		EntityType: "client", EntityID: uuid.New(), Name: "Fresh BV",
		LastContactAt: now.AddDate(0, 0, -1), // monthly tier, due in 29 days
	}

	repo := &fakeRepo{rows: []repository.ContactRow{fresh, overdue, dueSoon}}
	list, err := testService(repo).DueList(context.Background(), "field_manager", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if list.Total != 2 {
		t.Fatalf("expected 2 due items, got %d", list.Total)
	}
	for _, item := range list.Items {
		if item.Name == "Fresh BV" {
			t.Fatal("fresh contact must not appear on due list")
		}
		if !item.IsOverdue {
			t.Fatalf("expected %s to be overdue", item.Name)
		}
	}
}

func TestIncludeInDueListSevenDayBoundary(t *testing.T) {
	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		nextDue time.Time
		overdue bool
		want    bool
	}{
		{"overdue", now.AddDate(0, 0, -3), true, true},
		{"due tomorrow", now.AddDate(0, 0, 1), false, true},
		{"just inside horizon", now.AddDate(0, 0, 7).Add(-time.Second), false, true},
		{"exactly seven days out", now.AddDate(0, 0, 7), false, false},
		{"beyond horizon", now.AddDate(0, 0, 8), false, false},
	}
	for _, tc := range cases {
		item := transport.CadenceItemResponse{NextDueAt: tc.nextDue, IsOverdue: tc.overdue}
		if got := includeInDueList(item, now); got != tc.want {
			t.Fatalf("%s: includeInDueList = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDueListSortsByNextDueThenEntityID(t *testing.T) {
	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	lastContact := now.AddDate(0, 0, -45) // bi-weekly tier, long overdue

	idLow := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	idHigh := uuid.MustParse("99999999-9999-9999-9999-999999999999")

	rows := []repository.ContactRow{
		{EntityType: "client", EntityID: idHigh, Name: "B", LastContactAt: lastContact},
		{EntityType: "client", EntityID: idLow, Name: "A", LastContactAt: lastContact},
		{EntityType: "client", EntityID: uuid.New(), Name: "Later", LastContactAt: now.AddDate(0, 0, -40)},
	}

	repo := &fakeRepo{rows: rows}
	list, err := testService(repo).DueList(context.Background(), "field_manager", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if list.Total != 3 {
		t.Fatalf("expected 3 items, got %d", list.Total)
	}
	if list.Items[0].EntityID != idLow || list.Items[1].EntityID != idHigh {
		t.Fatalf("tie-break by entity id violated: %v then %v", list.Items[0].EntityID, list.Items[1].EntityID)
	}
	if list.Items[2].Name != "Later" {
		t.Fatalf("expected later due date last, got %s", list.Items[2].Name)
	}
}

func TestEntityTypesFollowRoleScope(t *testing.T) {
	now := time.Now()

	repo := &fakeRepo{}
	svc := testService(repo)

	if _, err := svc.DueList(context.Background(), "recruiter", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.gotTypes) != 1 || repo.gotTypes[0] != "candidate" {
		t.Fatalf("recruiter scope should be candidates only, got %v", repo.gotTypes)
	}

	if _, err := svc.DueList(context.Background(), "field_manager", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.gotTypes) != 1 || repo.gotTypes[0] != "client" {
		t.Fatalf("field manager scope should be clients only, got %v", repo.gotTypes)
	}

	if _, err := svc.DueList(context.Background(), "admin", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.gotTypes) != 2 {
		t.Fatalf("admin scope should cover both entity types, got %v", repo.gotTypes)
	}
}

func TestDueCountMatchesDueListTotal(t *testing.T) {
	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{rows: []repository.ContactRow{
		{EntityType: "client", EntityID: uuid.New(), Name: "X", LastContactAt: now.AddDate(0, 0, -60)},
		{EntityType: "client", EntityID: uuid.New(), Name: "Y", LastContactAt: now.AddDate(0, 0, -1)},
	}}

	count, err := testService(repo).DueCount(context.Background(), "field_manager", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected due count 1, got %d", count)
	}
}
