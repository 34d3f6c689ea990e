package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/errors"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/audio"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/cache"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/repository"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/transcriber"
)

var (
	invocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asrd_invocations_total",
		Help: "Inference invocations by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	audioSecondsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asrd_audio_seconds_total",
		Help: "Seconds of audio transcribed per endpoint.",
	}, []string{"endpoint"})
)

// InvocationServiceImpl implements InvocationService
type InvocationServiceImpl struct {
	repo    repository.DeploymentDAO
	runtime EndpointRuntime
	cache   cache.TranscriptCache
}

// NewInvocationService creates a new invocation service
func NewInvocationService(repo repository.DeploymentDAO, runtime EndpointRuntime, transcriptCache cache.TranscriptCache) InvocationService {
	return &InvocationServiceImpl{repo: repo, runtime: runtime, cache: transcriptCache}
}

// Invoke decodes the request audio, runs it through the endpoint's provider
// and records the invocation. Identical audio against the same model is
// answered from the transcript cache.
func (s *InvocationServiceImpl) Invoke(ctx context.Context, endpointName, requestID string, req *dto.InvocationRequest) (*dto.InvocationResponse, error) {
	e, err := s.repo.GetEndpointByName(endpointName)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("endpoint")
		}
		return nil, errors.NewInternalError("Failed to retrieve endpoint resource")
	}
	if e.Status != model.EndpointInService {
		invocationsTotal.WithLabelValues(endpointName, "rejected").Inc()
		return nil, errors.NewServiceUnavailableError("Endpoint is not in service (status: " + string(e.Status) + ")")
	}

	wavBytes, err := base64.StdEncoding.Strict().DecodeString(req.AudioB64)
	if err != nil {
		invocationsTotal.WithLabelValues(endpointName, "rejected").Inc()
		return nil, errors.NewBadRequestError("Field 'audio_b64' is not valid base64")
	}

	clip, err := audio.DecodeStrictWAV(wavBytes)
	if err != nil {
		invocationsTotal.WithLabelValues(endpointName, "rejected").Inc()
		return nil, errors.NewBadRequestError("Unsupported audio payload: " + err.Error())
	}

	cacheKey := cache.Key(e.ModelName, wavBytes)
	if text, ok, cacheErr := s.cache.Get(ctx, cacheKey); cacheErr == nil && ok {
		s.record(endpointName, requestID, clip, text, 0, nil)
		invocationsTotal.WithLabelValues(endpointName, "cached").Inc()
		return &dto.InvocationResponse{Text: text}, nil
	} else if cacheErr != nil {
		slog.Warn("transcript cache lookup failed", "endpoint", endpointName, "error", cacheErr)
	}

	tr, ok := s.runtime.Runtime(endpointName)
	if !ok {
		invocationsTotal.WithLabelValues(endpointName, "rejected").Inc()
		return nil, errors.NewServiceUnavailableError("Endpoint runtime is not loaded")
	}

	start := time.Now()
	result, err := tr.Transcribe(ctx, &transcriber.Request{Clip: clip})
	latency := time.Since(start)
	if err != nil {
		s.record(endpointName, requestID, clip, "", latency, err)
		invocationsTotal.WithLabelValues(endpointName, "error").Inc()

		var trErr *transcriber.TranscriptionError
		if stderrors.As(err, &trErr) && trErr.Retryable {
			return nil, errors.NewServiceUnavailableError("Transcription failed: " + trErr.Message)
		}
		return nil, errors.NewInternalError("Transcription failed")
	}

	s.record(endpointName, requestID, clip, result.Text, latency, nil)
	invocationsTotal.WithLabelValues(endpointName, "ok").Inc()
	audioSecondsTotal.WithLabelValues(endpointName).Add(clip.Seconds)

	if cacheErr := s.cache.Set(ctx, cacheKey, result.Text); cacheErr != nil {
		slog.Warn("transcript cache write failed", "endpoint", endpointName, "error", cacheErr)
	}

	return &dto.InvocationResponse{Text: result.Text}, nil
}

// record persists an invocation row. Failures are logged, not surfaced: the
// caller already has (or failed to get) their transcript.
func (s *InvocationServiceImpl) record(endpointName, requestID string, clip *audio.Clip, transcript string, latency time.Duration, invErr error) {
	inv := &model.Invocation{
		EndpointName: endpointName,
		RequestID:    requestID,
		AudioBytes:   int64(len(clip.WAVBytes)),
		AudioSeconds: clip.Seconds,
		Transcript:   transcript,
		LatencyMs:    latency.Milliseconds(),
	}
	if invErr != nil {
		inv.HasError = 1
		inv.ErrorMessage = invErr.Error()
	}
	if err := s.repo.RecordInvocation(inv); err != nil {
		slog.Error("failed to record invocation", "endpoint", endpointName, "request_id", requestID, "error", err)
	}
}

// ListInvocations returns the most recent invocation records for an endpoint
func (s *InvocationServiceImpl) ListInvocations(ctx context.Context, endpointName string, limit int) ([]dto.InvocationRecordResponse, error) {
	if _, err := s.repo.GetEndpointByName(endpointName); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("endpoint")
		}
		return nil, errors.NewInternalError("Failed to retrieve endpoint resource")
	}

	invocations, err := s.repo.GetInvocationsByEndpoint(endpointName, limit)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list invocation records")
	}

	return lo.Map(invocations, func(inv model.Invocation, _ int) dto.InvocationRecordResponse {
		return dto.ToInvocationRecordResponse(&inv)
	}), nil
}
