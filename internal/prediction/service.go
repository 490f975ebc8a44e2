// Package prediction runs one prediction request end to end:
// validate, encode, infer, classify.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-quake-magnitude/internal/encoder"
	"github.com/mr1hm/go-quake-magnitude/internal/inference"
	"github.com/mr1hm/go-quake-magnitude/internal/models"
	"github.com/mr1hm/go-quake-magnitude/internal/observability"
	"github.com/mr1hm/go-quake-magnitude/internal/repository"
)

const (
	hintInput     = "Please check your input values"
	hintModel     = "Please check your model file and input values"
	outcomeOK     = "ok"
	defaultListed = 20
)

// Service is safe for concurrent use. The model is shared read-only.
type Service struct {
	model     inference.Model
	modelName string
	history   repository.PredictionRepository
	metrics   *observability.Metrics
	clock     clockwork.Clock
	logger    *slog.Logger
	validate  *validator.Validate
}

type Option func(*Service)

// WithHistory stores every successful prediction in repo.
func WithHistory(repo repository.PredictionRepository) Option {
	return func(s *Service) { s.history = repo }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithModelName labels history records with the model that produced them.
func WithModelName(name string) Option {
	return func(s *Service) { s.modelName = name }
}

func NewService(model inference.Model, opts ...Option) *Service {
	s := &Service{
		model:    model,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// Predict never returns an error: every failure ends up in Outcome.Failure.
func (s *Service) Predict(ctx context.Context, f models.Fields) models.Outcome {
	out := models.Outcome{Fields: f}

	if err := s.validateFields(f); err != nil {
		detail := err.Error()
		var inErr *InputError
		if errors.As(err, &inErr) {
			detail = inErr.Detail
		}
		return s.fail(out, models.ErrorKindInvalidInput, "Invalid input: "+detail, hintInput, err)
	}

	// Unknown labels are rejected here, before the model is touched.
	vec, err := encoder.EncodeFields(f)
	if err != nil {
		msg := fmt.Sprintf("Unknown magnitude type %q", f.MagType)
		return s.fail(out, models.ErrorKindUnknownMagnitudeType, msg, "Choose one of: "+labels(), err)
	}

	start := time.Now()
	res, err := inference.Predict(ctx, s.model, vec)
	if s.metrics != nil {
		s.metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		var ie *inference.InferenceError
		detail := err.Error()
		if errors.As(err, &ie) {
			detail = ie.Err.Error()
		}
		return s.fail(out, models.ErrorKindInference, "Error making prediction: "+detail, hintModel, err)
	}

	res.ID = uuid.NewString()
	res.CreatedAt = s.clock.Now().UTC()
	out.Result = &res

	if s.metrics != nil {
		s.metrics.Predictions.WithLabelValues(outcomeOK).Inc()
		s.metrics.Tiers.WithLabelValues(string(res.Tier)).Inc()
		s.metrics.PredictedMagnitude.Observe(res.Magnitude)
	}
	s.logger.Info("prediction complete",
		"id", res.ID,
		"vector", vec.String(),
		"magnitude", res.Magnitude,
		"tier", res.Tier,
	)

	s.record(ctx, f, res)
	return out
}

func (s *Service) fail(out models.Outcome, kind models.ErrorKind, msg, hint string, err error) models.Outcome {
	if s.metrics != nil {
		s.metrics.Predictions.WithLabelValues(string(kind)).Inc()
	}
	s.logger.Warn("prediction failed", "kind", kind, "error", err)

	out.Failure = &models.Failure{Kind: kind, Message: msg, Hint: hint}
	return out
}

// record is best effort: a history failure never fails the prediction.
func (s *Service) record(ctx context.Context, f models.Fields, res models.PredictionResult) {
	if s.history == nil {
		return
	}
	err := s.history.Add(ctx, &models.PredictionRecord{
		ID:        res.ID,
		Fields:    f,
		Vector:    res.Vector,
		Magnitude: res.Magnitude,
		Tier:      res.Tier,
		ModelName: s.modelName,
		CreatedAt: res.CreatedAt,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.HistoryErrors.Inc()
		}
		s.logger.Error("error saving prediction", "id", res.ID, "error", err)
	}
}

// Recent returns the latest stored predictions, or an empty list when
// history is off.
func (s *Service) Recent(ctx context.Context, opts repository.Filter) ([]models.PredictionRecord, error) {
	if s.history == nil {
		return []models.PredictionRecord{}, nil
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultListed
	}
	return s.history.ListPredictions(ctx, opts)
}

func labels() string {
	out := make([]string, len(models.MagnitudeTypes))
	for i, mt := range models.MagnitudeTypes {
		out[i] = string(mt)
	}
	return strings.Join(out, ", ")
}
