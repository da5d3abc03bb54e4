package jobs_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"shelfscan/src/core/analysis"
	"shelfscan/src/core/jobs"
)

func sampleResults() []analysis.ProductRecord {
	name := "Premium Orange Juice"
	return []analysis.ProductRecord{{SKUFullName: &name, Tags: []string{}}}
}

func TestCreateYieldsPendingJob(t *testing.T) {
	r := jobs.NewRegistry()
	job := r.Create()

	if job.Status != jobs.StatusPending {
		t.Errorf("Status = %s, want %s", job.Status, jobs.StatusPending)
	}
	if !strings.HasPrefix(job.ID, "ocr-") {
		t.Errorf("ID = %q, want ocr- prefix", job.ID)
	}
	if len(job.Results) != 0 || job.Error != "" {
		t.Error("fresh job must have no results and no error")
	}

	got, err := r.Get(job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != jobs.StatusPending {
		t.Errorf("stored Status = %s, want %s", got.Status, jobs.StatusPending)
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	r := jobs.NewRegistry()
	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- r.Create().ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate job id %q", id)
		}
		seen[id] = true
	}
}

func TestGetUnknownIDFails(t *testing.T) {
	r := jobs.NewRegistry()
	if _, err := r.Get("unknown-id"); !errors.Is(err, jobs.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	r := jobs.NewRegistry()
	job := r.Create()

	if err := r.MarkProcessing(job.ID); err != nil {
		t.Fatalf("MarkProcessing() error = %v", err)
	}
	if got, _ := r.Get(job.ID); got.Status != jobs.StatusProcessing {
		t.Fatalf("Status = %s, want %s", got.Status, jobs.StatusProcessing)
	}

	if err := r.Complete(job.ID, sampleResults()); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	got, _ := r.Get(job.ID)
	if got.Status != jobs.StatusCompleted {
		t.Errorf("Status = %s, want %s", got.Status, jobs.StatusCompleted)
	}
	if len(got.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(got.Results))
	}
}

func TestTerminalStateIsImmutable(t *testing.T) {
	r := jobs.NewRegistry()
	job := r.Create()
	if err := r.MarkProcessing(job.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Fail(job.ID, "fetch timed out"); err != nil {
		t.Fatal(err)
	}

	if err := r.Complete(job.ID, sampleResults()); err == nil {
		t.Error("Complete() on a terminal job must fail")
	}
	if err := r.MarkProcessing(job.ID); err == nil {
		t.Error("MarkProcessing() on a terminal job must fail")
	}

	got, _ := r.Get(job.ID)
	if got.Status != jobs.StatusError || got.Error != "fetch timed out" {
		t.Errorf("terminal job mutated: status %s, error %q", got.Status, got.Error)
	}
}

func TestStatusRegressionRejected(t *testing.T) {
	r := jobs.NewRegistry()
	job := r.Create()

	// completed/failed require a processing job; a pending one must not jump.
	if err := r.Complete(job.ID, sampleResults()); err == nil {
		t.Error("Complete() from pending must fail")
	}
	if err := r.Fail(job.ID, "boom"); err == nil {
		t.Error("Fail() from pending must fail")
	}
}

func TestSnapshotsAreDetached(t *testing.T) {
	r := jobs.NewRegistry()
	job := r.Create()
	if err := r.MarkProcessing(job.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Complete(job.ID, sampleResults()); err != nil {
		t.Fatal(err)
	}

	first, _ := r.Get(job.ID)
	first.Results[0] = analysis.ProductRecord{}
	first.Status = jobs.StatusPending

	second, _ := r.Get(job.ID)
	if second.Status != jobs.StatusCompleted {
		t.Error("mutating a snapshot changed stored status")
	}
	if second.Results[0].SKUFullName == nil {
		t.Error("mutating a snapshot changed stored results")
	}
}

func TestCleanupRemovesOnlyTerminalJobs(t *testing.T) {
	r := jobs.NewRegistry()

	pending := r.Create()

	processing := r.Create()
	if err := r.MarkProcessing(processing.ID); err != nil {
		t.Fatal(err)
	}

	completed := r.Create()
	if err := r.MarkProcessing(completed.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Complete(completed.ID, sampleResults()); err != nil {
		t.Fatal(err)
	}

	failed := r.Create()
	if err := r.MarkProcessing(failed.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Fail(failed.ID, "boom"); err != nil {
		t.Fatal(err)
	}

	removed, remaining := r.Cleanup(0)
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if remaining != 2 {
		t.Errorf("remaining = %d, want 2", remaining)
	}

	if _, err := r.Get(pending.ID); err != nil {
		t.Error("pending job must survive cleanup")
	}
	if _, err := r.Get(processing.ID); err != nil {
		t.Error("processing job must survive cleanup")
	}
	if _, err := r.Get(completed.ID); !errors.Is(err, jobs.ErrNotFound) {
		t.Error("completed job must be removed")
	}
	if _, err := r.Get(failed.ID); !errors.Is(err, jobs.ErrNotFound) {
		t.Error("failed job must be removed")
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	r := jobs.NewRegistry()
	job := r.Create()
	if err := r.MarkProcessing(job.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Complete(job.ID, sampleResults()); err != nil {
		t.Fatal(err)
	}

	if removed, _ := r.Cleanup(0); removed != 1 {
		t.Fatalf("first Cleanup() removed = %d, want 1", removed)
	}
	if removed, _ := r.Cleanup(0); removed != 0 {
		t.Errorf("second Cleanup() removed = %d, want 0", removed)
	}
}

func TestCleanupHonorsRetentionWindow(t *testing.T) {
	r := jobs.NewRegistry()
	job := r.Create()
	if err := r.MarkProcessing(job.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Complete(job.ID, sampleResults()); err != nil {
		t.Fatal(err)
	}

	// The job finished moments ago, so a one-hour window keeps it.
	if removed, _ := r.Cleanup(time.Hour); removed != 0 {
		t.Errorf("Cleanup(1h) removed = %d, want 0", removed)
	}
	if removed, _ := r.Cleanup(0); removed != 1 {
		t.Errorf("Cleanup(0) removed = %d, want 1", removed)
	}
}
