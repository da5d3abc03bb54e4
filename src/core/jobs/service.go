package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"shelfscan/src/core/analysis"
	"shelfscan/src/infrastructure/imagefetch"
	"shelfscan/src/infrastructure/log"
)

const analysisTopic = "analysis.requests"

// ShelfAnalyzer is the slice of the orchestrator the job service needs.
type ShelfAnalyzer interface {
	AnalyzeShelfBytes(ctx context.Context, data []byte, imageID string) analysis.ShelfResult
}

// analysisRequest is the message published for each submitted job.
type analysisRequest struct {
	JobID          string `json:"job_id"`
	ImageURL       string `json:"image_url"`
	ImageID        string `json:"image_id"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Service ties the registry to the background analysis pipeline. Submissions
// publish a message on an in-process queue; the router handler is the single
// writer of terminal job state, so completion never interleaves with
// concurrent reads.
type Service struct {
	registry     *Registry
	fetcher      imagefetch.Fetcher
	analyzer     ShelfAnalyzer
	fetchTimeout time.Duration
	retention    time.Duration

	pubSub *gochannel.GoChannel
	router *message.Router
}

// NewService wires the registry, fetcher and analyzer to an in-process
// watermill queue. Terminal analysis failures are final: the router carries
// no retry middleware.
func NewService(registry *Registry, fetcher imagefetch.Fetcher, analyzer ShelfAnalyzer, fetchTimeout, retention time.Duration) (*Service, error) {
	wmLogger := watermill.NewStdLogger(false, false)

	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}
	router.AddMiddleware(
		middleware.Recoverer,
		middleware.CorrelationID,
	)

	s := &Service{
		registry:     registry,
		fetcher:      fetcher,
		analyzer:     analyzer,
		fetchTimeout: fetchTimeout,
		retention:    retention,
		pubSub:       pubSub,
		router:       router,
	}
	router.AddNoPublisherHandler("analysis_worker", analysisTopic, pubSub, s.process)
	return s, nil
}

// Run starts the background worker and blocks until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	return s.router.Run(ctx)
}

// Running returns a channel that closes once the worker consumes messages.
// Submissions before that point would be dropped by the in-process queue.
func (s *Service) Running() <-chan struct{} {
	return s.router.Running()
}

// Close shuts down the router and the queue.
func (s *Service) Close() error {
	if err := s.router.Close(); err != nil {
		return err
	}
	return s.pubSub.Close()
}

// Submit creates a pending job for the image and schedules its background
// analysis. The returned snapshot reflects the job at submission time.
func (s *Service) Submit(imageURL, imageID string, timeoutSeconds int) (Job, error) {
	job := s.registry.Create()

	payload, err := json.Marshal(analysisRequest{
		JobID:          job.ID,
		ImageURL:       imageURL,
		ImageID:        imageID,
		TimeoutSeconds: timeoutSeconds,
	})
	if err != nil {
		return Job{}, fmt.Errorf("failed to marshal analysis request: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(analysisTopic, msg); err != nil {
		return Job{}, fmt.Errorf("failed to publish analysis request: %w", err)
	}
	log.Info("analysis job submitted", "job_id", job.ID, "image_id", imageID)
	return job, nil
}

// Get returns a snapshot of the job, or ErrNotFound.
func (s *Service) Get(id string) (Job, error) {
	return s.registry.Get(id)
}

// Cleanup evicts terminal jobs per the configured retention window.
func (s *Service) Cleanup() (removed, remaining int) {
	return s.registry.Cleanup(s.retention)
}

// process executes the fetch-and-analyze unit for one job. It runs at most
// once per job and never returns an error: a failed fetch or analysis is the
// job's terminal outcome, not a reason to redeliver the message.
func (s *Service) process(msg *message.Message) error {
	var req analysisRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		log.Error(err, "discarding malformed analysis request", "message_uuid", msg.UUID)
		return nil
	}

	if err := s.registry.MarkProcessing(req.JobID); err != nil {
		log.Error(err, "skipping analysis request", "job_id", req.JobID)
		return nil
	}

	ctx := context.Background()
	timeout := time.Duration(req.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = s.fetchTimeout
	}

	data, err := s.fetcher.Fetch(ctx, req.ImageURL, timeout)
	if err != nil {
		// No image means no analysis is possible: the job fails as a whole
		// instead of producing a degraded record.
		log.Error(err, "image fetch failed", "job_id", req.JobID, "image_url", req.ImageURL)
		if failErr := s.registry.Fail(req.JobID, err.Error()); failErr != nil {
			log.Error(failErr, "failed to record fetch failure", "job_id", req.JobID)
		}
		return nil
	}

	result := s.analyzer.AnalyzeShelfBytes(ctx, data, req.ImageID)
	if !result.Success {
		if failErr := s.registry.Fail(req.JobID, result.Error); failErr != nil {
			log.Error(failErr, "failed to record analysis failure", "job_id", req.JobID)
		}
		return nil
	}

	if err := s.registry.Complete(req.JobID, result.Data); err != nil {
		log.Error(err, "failed to record analysis results", "job_id", req.JobID)
		return nil
	}
	log.Info("analysis job completed", "job_id", req.JobID, "records", len(result.Data))
	return nil
}
