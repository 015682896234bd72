package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobcompass/internal/events"
	"jobcompass/internal/models"
)

func newTestService(store Store) *Service {
	svc := New(store, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func rawEvent(url string) events.RawJobEvent {
	return events.RawJobEvent{
		Source:      models.Source("LinkedIn"),
		Title:       "Backend Engineer",
		Company:     "Acme Corp",
		Location:    "Berlin",
		Description: "Build services in Go.",
		URL:         url,
		PostedDate:  "2 days ago",
	}
}

func TestUpsertRawCreatesJob(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	job, err := svc.UpsertRaw(context.Background(), rawEvent("https://jobs.example/1"))
	if err != nil {
		t.Fatalf("UpsertRaw: %v", err)
	}

	if job.ID == 0 {
		t.Error("expected job to be assigned an id")
	}
	if !job.IsActive {
		t.Error("new job should be active")
	}
	if job.Title != "Backend Engineer" {
		t.Errorf("title = %q", job.Title)
	}
	if job.CompanyID == nil {
		t.Fatal("expected company to be resolved and linked")
	}
	if store.companies["Acme Corp"].ID != *job.CompanyID {
		t.Errorf("job linked to company %d, want %d", *job.CompanyID, store.companies["Acme Corp"].ID)
	}
	if job.PostedDate == nil {
		t.Fatal("expected posted date parsed from relative phrase")
	}
	want := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	if !job.PostedDate.Equal(want) {
		t.Errorf("posted date = %v, want %v", job.PostedDate, want)
	}
	if job.JobAgeDays == nil || *job.JobAgeDays != 2 {
		t.Errorf("job age = %v, want 2", job.JobAgeDays)
	}
}

func TestUpsertRawIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	event := rawEvent("https://jobs.example/1")

	first, err := svc.UpsertRaw(context.Background(), event)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := svc.UpsertRaw(context.Background(), event)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("redelivery created a new row: ids %d and %d", first.ID, second.ID)
	}
	if len(store.jobs) != 1 {
		t.Errorf("got %d rows, want 1", len(store.jobs))
	}
}

func TestUpsertDedupsByURLAcrossSources(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	event := rawEvent("https://jobs.example/1")
	first, err := svc.UpsertRaw(context.Background(), event)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	event.Source = models.Source("Indeed")
	event.Title = "Senior Backend Engineer"
	second, err := svc.UpsertRaw(context.Background(), event)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("same URL resolved to different rows: %d and %d", first.ID, second.ID)
	}
	if second.Title != "Senior Backend Engineer" {
		t.Errorf("title not overwritten: %q", second.Title)
	}
	// Identity fields survive the update.
	if second.Source != models.Source("LinkedIn") {
		t.Errorf("source rewritten on update: %q", second.Source)
	}
	if second.URL != first.URL {
		t.Errorf("url rewritten on update: %q", second.URL)
	}
}

func TestUpsertStoresAndPreservesExternalID(t *testing.T) {
	svc := newTestService(newMemStore())

	event := rawEvent("https://jobs.example/1")
	event.ExternalID = "101"
	job, err := svc.UpsertRaw(context.Background(), event)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if job.ExternalID == nil || *job.ExternalID != "101" {
		t.Fatalf("external id not stored: %v", job.ExternalID)
	}

	// A later event for the same URL without the identifier does not
	// clear the one already recorded.
	event.ExternalID = ""
	job, err = svc.UpsertRaw(context.Background(), event)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if job.ExternalID == nil || *job.ExternalID != "101" {
		t.Errorf("external id cleared on update: %v", job.ExternalID)
	}
}

func TestUpsertReactivatesDeactivatedJob(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	job, err := svc.UpsertRaw(context.Background(), rawEvent("https://jobs.example/1"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.DeactivateJob(context.Background(), job.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if store.jobs[job.ID].IsActive {
		t.Fatal("deactivate did not stick")
	}

	updated, err := svc.UpsertRaw(context.Background(), rawEvent("https://jobs.example/1"))
	if err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	if !updated.IsActive {
		t.Error("update should reactivate the posting")
	}
}

func TestUpsertBlankCompanyLeavesLinkUntouched(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	job, err := svc.UpsertRaw(context.Background(), rawEvent("https://jobs.example/1"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	linked := *job.CompanyID
	lookups := store.companyLookups

	event := rawEvent("https://jobs.example/1")
	event.Company = "   "
	updated, err := svc.UpsertRaw(context.Background(), event)
	if err != nil {
		t.Fatalf("upsert with blank company: %v", err)
	}

	if store.companyLookups != lookups {
		t.Error("blank company name must not hit the resolver")
	}
	if updated.CompanyID == nil || *updated.CompanyID != linked {
		t.Errorf("existing company link lost: %v", updated.CompanyID)
	}
}

func TestUpsertRejectsMalformedEvents(t *testing.T) {
	svc := newTestService(newMemStore())

	tests := []struct {
		name  string
		url   string
		title string
	}{
		{"missing url", "", "Engineer"},
		{"blank url", "   ", "Engineer"},
		{"missing title", "https://jobs.example/1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := rawEvent(tt.url)
			event.Title = tt.title
			_, err := svc.UpsertRaw(context.Background(), event)
			if !errors.Is(err, models.ErrMalformedEvent) {
				t.Errorf("got %v, want ErrMalformedEvent", err)
			}
		})
	}
}

func TestUpsertUnparseablePostedDateStoresNull(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	event := rawEvent("https://jobs.example/1")
	event.PostedDate = "sometime last quarter"
	job, err := svc.UpsertRaw(context.Background(), event)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if job.PostedDate != nil {
		t.Errorf("posted date = %v, want nil", job.PostedDate)
	}
	if job.JobAgeDays != nil {
		t.Errorf("job age = %v, want nil", job.JobAgeDays)
	}
}

func TestUpsertProcessedOverwritesItsOwnFields(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	// Raw event first: it carries a description.
	if _, err := svc.UpsertRaw(context.Background(), rawEvent("https://jobs.example/1")); err != nil {
		t.Fatalf("raw upsert: %v", err)
	}

	posted := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	age := 5
	processed := events.ProcessedJobEvent{
		Source:       models.Source("LinkedIn"),
		Title:        "Backend Engineer (Go)",
		Company:      "Acme Corp",
		Location:     "Berlin, Germany",
		Salary:       "€70k-€90k",
		URL:          "https://jobs.example/1",
		PostedDate:   &posted,
		JobAgeInDays: &age,
	}

	job, err := svc.UpsertProcessed(context.Background(), processed)
	if err != nil {
		t.Fatalf("processed upsert: %v", err)
	}

	if job.Title != "Backend Engineer (Go)" {
		t.Errorf("title = %q", job.Title)
	}
	if job.SalaryRange == nil || *job.SalaryRange != "€70k-€90k" {
		t.Errorf("salary = %v", job.SalaryRange)
	}
	if job.PostedDate == nil || !job.PostedDate.Equal(posted) {
		t.Errorf("posted date = %v, want %v", job.PostedDate, posted)
	}
	if job.JobAgeDays == nil || *job.JobAgeDays != 5 {
		t.Errorf("job age = %v, want 5", job.JobAgeDays)
	}
	// The processed event does not carry a description; the raw one's
	// value survives.
	if job.Description == nil || *job.Description != "Build services in Go." {
		t.Errorf("description = %v, want value from raw event", job.Description)
	}
}

func TestUpsertSharedCompanyAcrossJobs(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	first, err := svc.UpsertRaw(context.Background(), rawEvent("https://jobs.example/1"))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	event := rawEvent("https://jobs.example/2")
	event.Title = "Senior Developer"
	second, err := svc.UpsertRaw(context.Background(), event)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if len(store.companies) != 1 {
		t.Fatalf("got %d companies, want 1", len(store.companies))
	}
	if *first.CompanyID != *second.CompanyID {
		t.Errorf("jobs at the same company link to different rows: %d and %d",
			*first.CompanyID, *second.CompanyID)
	}
}

// raceStore simulates losing the create race: the first insert attempt
// reports a duplicate and only then makes the winner's row visible.
type raceStore struct {
	*memStore
	raced bool
}

func (r *raceStore) InsertJob(ctx context.Context, job *models.Job) error {
	if !r.raced {
		r.raced = true
		winner := *job
		winner.Title = "Winner Title"
		if err := r.memStore.InsertJob(ctx, &winner); err != nil {
			return err
		}
		return models.ErrDuplicate
	}
	return r.memStore.InsertJob(ctx, job)
}

func TestUpsertRetriesAsUpdateAfterLosingCreateRace(t *testing.T) {
	store := &raceStore{memStore: newMemStore()}
	svc := newTestService(store)

	job, err := svc.UpsertRaw(context.Background(), rawEvent("https://jobs.example/1"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if len(store.jobs) != 1 {
		t.Fatalf("got %d rows, want 1", len(store.jobs))
	}
	// The loser re-read the winner's row and took the update path.
	if job.Title != "Backend Engineer" {
		t.Errorf("title = %q, want loser's overwrite applied", job.Title)
	}
	if !store.raced {
		t.Fatal("race was never triggered")
	}
}
