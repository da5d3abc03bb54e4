package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shelfscan/src/core/analysis"
	"shelfscan/src/core/jobs"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, _ string, _ time.Duration) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type stubAnalyzer struct {
	result analysis.ShelfResult
}

func (a *stubAnalyzer) AnalyzeShelfBytes(_ context.Context, _ []byte, imageID string) analysis.ShelfResult {
	return a.result
}

func startService(t *testing.T, fetcher *stubFetcher, analyzer *stubAnalyzer) *jobs.Service {
	t.Helper()
	svc, err := jobs.NewService(jobs.NewRegistry(), fetcher, analyzer, 0, 0)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := svc.Run(ctx); err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		svc.Close()
	})

	select {
	case <-svc.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not start")
	}
	return svc
}

func waitForTerminal(t *testing.T, svc *jobs.Service, id string) jobs.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Get(id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if job.Status.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", id)
	return jobs.Job{}
}

func TestSubmitRunsAnalysisToCompletion(t *testing.T) {
	name := "Premium Orange Juice"
	analyzer := &stubAnalyzer{result: analysis.ShelfResult{
		Success: true,
		Data:    []analysis.ProductRecord{{SKUFullName: &name, Tags: []string{}}},
	}}
	svc := startService(t, &stubFetcher{data: []byte("image-bytes")}, analyzer)

	job, err := svc.Submit("http://example.com/shelf.jpg", "img-1", 0)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if job.Status != jobs.StatusPending {
		t.Errorf("submitted job status = %s, want %s", job.Status, jobs.StatusPending)
	}

	final := waitForTerminal(t, svc, job.ID)
	if final.Status != jobs.StatusCompleted {
		t.Fatalf("final status = %s (error %q), want %s", final.Status, final.Error, jobs.StatusCompleted)
	}
	if len(final.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(final.Results))
	}
}

func TestSubmitFetchFailureFailsJob(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	svc := startService(t, fetcher, &stubAnalyzer{})

	job, err := svc.Submit("http://unreachable.example.com/shelf.jpg", "img-2", 1)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	final := waitForTerminal(t, svc, job.ID)
	if final.Status != jobs.StatusError {
		t.Fatalf("final status = %s, want %s", final.Status, jobs.StatusError)
	}
	if final.Error == "" {
		t.Error("failed job must carry the fetch error message")
	}
	if len(final.Results) != 0 {
		t.Errorf("failed job must have no results, got %d", len(final.Results))
	}
}

func TestConcurrentSubmissionsAllTerminate(t *testing.T) {
	analyzer := &stubAnalyzer{result: analysis.ShelfResult{
		Success: true,
		Data:    []analysis.ProductRecord{{Tags: []string{}}},
	}}
	svc := startService(t, &stubFetcher{data: []byte("image")}, analyzer)

	const n = 10
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		job, err := svc.Submit("http://example.com/shelf.jpg", "img", 0)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		ids = append(ids, job.ID)
	}
	for _, id := range ids {
		if final := waitForTerminal(t, svc, id); final.Status != jobs.StatusCompleted {
			t.Errorf("job %s status = %s, want %s", id, final.Status, jobs.StatusCompleted)
		}
	}
}

func TestServiceCleanupCountsTerminalJobs(t *testing.T) {
	analyzer := &stubAnalyzer{result: analysis.ShelfResult{
		Success: true,
		Data:    []analysis.ProductRecord{{Tags: []string{}}},
	}}
	svc := startService(t, &stubFetcher{data: []byte("image")}, analyzer)

	job, err := svc.Submit("http://example.com/shelf.jpg", "img", 0)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	waitForTerminal(t, svc, job.ID)

	removed, remaining := svc.Cleanup()
	if removed != 1 || remaining != 0 {
		t.Errorf("Cleanup() = (%d, %d), want (1, 0)", removed, remaining)
	}
	if _, err := svc.Get(job.ID); !errors.Is(err, jobs.ErrNotFound) {
		t.Error("cleaned job must be gone")
	}
}
