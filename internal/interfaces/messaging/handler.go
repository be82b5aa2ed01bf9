// Package messaging adapts the asynchronous analysis pipeline to Kafka:
// request envelopes in, result envelopes out.
package messaging

import (
	"context"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Source identifies the worker in published envelopes.
const Source = "molgraph-worker"

// Message outcomes recorded in messages_total.
const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusInvalid   = "invalid"
	StatusFailed    = "failed"
)

// EventPublisher is the producer side used for results.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, key []byte, eventType, source string, payload any) error
	PublishBatch(ctx context.Context, msgs []*kafka.ProducerMessage) (*kafka.BatchPublishResult, error)
}

// ResultPublisher publishes job results keyed by request ID.
type ResultPublisher struct {
	producer EventPublisher
	topic    string
}

// NewResultPublisher publishes to topic through producer.
func NewResultPublisher(producer EventPublisher, topic string) *ResultPublisher {
	return &ResultPublisher{producer: producer, topic: topic}
}

var _ appmol.ResultPublisher = (*ResultPublisher)(nil)

// PublishResult implements appmol.ResultPublisher.
func (p *ResultPublisher) PublishResult(ctx context.Context, res *appmol.AnalysisJobResult) error {
	return p.producer.PublishEvent(ctx, p.topic, []byte(res.RequestID), resultEventType(res), Source, res)
}

// PublishResults implements appmol.ResultPublisher with a single batch
// write.  Any per-message failure fails the call so the job is redelivered.
func (p *ResultPublisher) PublishResults(ctx context.Context, results []*appmol.AnalysisJobResult) error {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]*kafka.ProducerMessage, 0, len(results))
	for _, res := range results {
		env, err := kafka.NewEventEnvelope(resultEventType(res), Source, res)
		if err != nil {
			return err
		}
		msg, err := env.ToMessage(p.topic, []byte(res.RequestID))
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	out, err := p.producer.PublishBatch(ctx, msgs)
	if err != nil {
		return err
	}
	if out.Failed > 0 {
		ae := errors.Newf(errors.ErrCodeMessagingError, "%d of %d results not published", out.Failed, len(msgs))
		if len(out.Errors) > 0 && out.Errors[0].Error != nil {
			ae = ae.WithCause(out.Errors[0].Error)
		}
		return ae
	}
	return nil
}

func resultEventType(res *appmol.AnalysisJobResult) string {
	if res.Status == appmol.JobStatusFailed {
		return kafka.EventAnalysisFailed
	}
	return kafka.EventAnalysisCompleted
}

// JobProcessor runs one decoded job.
type JobProcessor interface {
	Process(ctx context.Context, job appmol.AnalysisJob) error
}

// NewAnalysisRequestHandler decodes analysis.requested envelopes and hands
// them to proc.  Envelopes of other event types are acknowledged and
// dropped.  A job without a request_id inherits the envelope's event ID.
func NewAnalysisRequestHandler(proc JobProcessor, metrics *prometheus.AppMetrics, logger logging.Logger) kafka.MessageHandler {
	if metrics == nil {
		metrics = prometheus.NewNoopMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return func(ctx context.Context, msg *kafka.Message) error {
		record := func(status string) {
			metrics.MessagesTotal.WithLabelValues(msg.Topic, status).Inc()
		}

		env, err := kafka.MessageToEventEnvelope(msg)
		if err != nil {
			record(StatusInvalid)
			return err
		}
		if env.EventType != "" && env.EventType != kafka.EventAnalysisRequested {
			logger.Warn("ignoring unexpected event type",
				logging.String("topic", msg.Topic),
				logging.String("event_type", env.EventType),
				logging.String("event_id", env.EventID))
			record(StatusSkipped)
			return nil
		}

		var job appmol.AnalysisJob
		if err := env.DecodePayload(&job); err != nil {
			record(StatusInvalid)
			return err
		}
		if job.RequestID == "" {
			job.RequestID = env.EventID
		}

		if err := proc.Process(ctx, job); err != nil {
			record(StatusFailed)
			prometheus.RecordError(metrics, "worker", errors.GetCode(err).String())
			return err
		}
		record(StatusProcessed)
		return nil
	}
}
