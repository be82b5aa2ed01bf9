package molecule

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Job outcome statuses.
const (
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// AnalysisJob is an asynchronous analysis request.  A job with Items is a
// batch; SMILES and the options are then ignored.
type AnalysisJob struct {
	RequestID     string           `json:"request_id"`
	SMILES        string           `json:"smiles,omitempty"`
	RingMaxLength int              `json:"ring_max_length,omitempty"`
	TieBreak      string           `json:"tie_break,omitempty"`
	Items         []AnalyzeRequest `json:"items,omitempty"`
}

// AnalysisJobResult is published once per processed job, or once per item
// of a batch job.  Batch item results carry the batch ID and the item index
// and use "<request_id>/<index>" as their request ID.
type AnalysisJobResult struct {
	RequestID   string          `json:"request_id"`
	Status      string          `json:"status"`
	BatchID     string          `json:"batch_id,omitempty"`
	Item        *int            `json:"item,omitempty"`
	Result      *AnalysisResult `json:"result,omitempty"`
	Error       *ItemError      `json:"error,omitempty"`
	CompletedAt time.Time       `json:"completed_at"`
}

// ResultPublisher delivers job results to whoever submitted the job.
type ResultPublisher interface {
	PublishResult(ctx context.Context, res *AnalysisJobResult) error
	// PublishResults delivers the item results of one batch together.
	PublishResults(ctx context.Context, res []*AnalysisJobResult) error
}

// JobProcessor runs analysis jobs through the Service.
type JobProcessor struct {
	svc       Service
	publisher ResultPublisher
	logger    logging.Logger
	clock     func() time.Time
}

// NewJobProcessor creates a JobProcessor.
func NewJobProcessor(svc Service, publisher ResultPublisher, logger logging.Logger) *JobProcessor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &JobProcessor{
		svc:       svc,
		publisher: publisher,
		logger:    logger,
		clock:     time.Now,
	}
}

// Process analyses job and publishes the outcome.  Failures caused by the job
// itself (bad SMILES, bad options) are published as failed results and
// Process returns nil.  Server-side failures are returned without publishing
// so the job can be redelivered.
func (p *JobProcessor) Process(ctx context.Context, job AnalysisJob) error {
	out := &AnalysisJobResult{RequestID: job.RequestID}

	if job.RequestID == "" {
		out.Status = JobStatusFailed
		out.Error = NewItemError(errors.New(errors.ErrCodeValidation, "request_id is required"))
		return p.publish(ctx, out)
	}
	if len(job.Items) > 0 {
		return p.processBatch(ctx, job)
	}

	res, err := p.svc.Analyze(ctx, AnalyzeRequest{
		SMILES:        job.SMILES,
		RingMaxLength: job.RingMaxLength,
		TieBreak:      job.TieBreak,
	})
	if err != nil {
		code := errors.GetCode(err)
		if !errors.IsClientError(code) {
			p.logger.Error("analysis job failed",
				logging.String("request_id", job.RequestID),
				logging.Code(err),
				logging.Err(err))
			return err
		}
		out.Status = JobStatusFailed
		out.Error = NewItemError(err)
	} else {
		out.Status = JobStatusCompleted
		out.Result = res
	}
	return p.publish(ctx, out)
}

// processBatch runs a batch job and publishes one result per item.  A batch
// rejected as a whole (too large) is published as a single failed result.
func (p *JobProcessor) processBatch(ctx context.Context, job AnalysisJob) error {
	report, err := p.svc.AnalyzeBatch(ctx, job.Items)
	if err != nil {
		if !errors.IsClientError(errors.GetCode(err)) {
			p.logger.Error("batch analysis job failed",
				logging.String("request_id", job.RequestID),
				logging.Code(err),
				logging.Err(err))
			return err
		}
		return p.publish(ctx, &AnalysisJobResult{
			RequestID: job.RequestID,
			Status:    JobStatusFailed,
			Error:     NewItemError(err),
		})
	}

	now := p.clock().UTC()
	results := make([]*AnalysisJobResult, len(report.Items))
	for i, item := range report.Items {
		idx := item.Index
		out := &AnalysisJobResult{
			RequestID:   fmt.Sprintf("%s/%d", job.RequestID, idx),
			BatchID:     report.ID,
			Item:        &idx,
			Result:      item.Result,
			Error:       item.Error,
			CompletedAt: now,
		}
		if item.Error != nil {
			out.Status = JobStatusFailed
		} else {
			out.Status = JobStatusCompleted
		}
		results[i] = out
	}
	if err := p.publisher.PublishResults(ctx, results); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to publish batch results").WithDetail(job.RequestID)
	}
	p.logger.Info("batch analysis job processed",
		logging.String("request_id", job.RequestID),
		logging.String("batch_id", report.ID),
		logging.Int("items", len(results)),
		logging.Int("failed", report.Failed))
	return nil
}

func (p *JobProcessor) publish(ctx context.Context, out *AnalysisJobResult) error {
	out.CompletedAt = p.clock().UTC()
	if err := p.publisher.PublishResult(ctx, out); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to publish analysis result").WithDetail(out.RequestID)
	}
	p.logger.Info("analysis job processed",
		logging.String("request_id", out.RequestID),
		logging.String("status", out.Status))
	return nil
}
