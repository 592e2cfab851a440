package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/mirador-jobdoctor/internal/api"
	"github.com/miradorstack/mirador-jobdoctor/internal/heuristics"
	"github.com/miradorstack/mirador-jobdoctor/internal/metrics"
	"github.com/miradorstack/mirador-jobdoctor/internal/models"
	"github.com/miradorstack/mirador-jobdoctor/internal/utils"
)

const latencyLogEvery = 100

// HeuristicService implements the gRPC HeuristicService over one heuristic.
type HeuristicService struct {
	logger    *slog.Logger
	latencies *utils.LatencyTracker

	mu        sync.RWMutex
	heuristic heuristics.Heuristic[models.JobData]
}

var _ api.HeuristicServiceServer = (*HeuristicService)(nil)

// NewHeuristicService constructs the service facade.
func NewHeuristicService(logger *slog.Logger, h heuristics.Heuristic[models.JobData]) *HeuristicService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeuristicService{
		logger:    logger,
		latencies: utils.NewLatencyTracker(1024),
		heuristic: h,
	}
}

// SetHeuristic swaps the heuristic used by subsequent evaluations.
func (s *HeuristicService) SetHeuristic(h heuristics.Heuristic[models.JobData]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heuristic = h
}

func (s *HeuristicService) current() heuristics.Heuristic[models.JobData] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.heuristic
}

// Evaluate rates the reducers carried in the request.
func (s *HeuristicService) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	h := s.current()
	if h == nil {
		return nil, status.Error(codes.FailedPrecondition, "heuristic not configured")
	}

	start := time.Now()
	job, err := api.FromProtoEvaluateRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result := h.Apply(job)
	evaluationID := uuid.NewString()

	resp, err := api.ToProtoEvaluation(evaluationID, job.ID, result)
	if err != nil {
		s.logger.Error("encode evaluation failed", slog.String("job_id", job.ID), slog.Any("error", err))
		return nil, status.Error(codes.Internal, "failed to encode evaluation")
	}

	duration := time.Since(start)
	metrics.ObserveEvaluation(result.Name, result.Severity, len(job.Reducers), duration)
	s.latencies.Observe(duration)

	s.logger.Debug("heuristic evaluated",
		slog.String("evaluation_id", evaluationID),
		slog.String("job_id", job.ID),
		slog.String("heuristic", result.Name),
		slog.String("severity", result.Severity.String()),
		slog.Int("tasks", len(job.Reducers)),
	)
	if total := s.latencies.Total(); total%latencyLogEvery == 0 {
		s.logger.Info("evaluation latency",
			slog.Duration("p95", s.latencies.Percentile(95)),
			slog.Uint64("evaluations", total),
		)
	}

	return resp, nil
}

// ReloadFrom rebuilds ReducerTime from the pack at path and swaps it in.
// On failure the previous heuristic stays active.
func (s *HeuristicService) ReloadFrom(path string) error {
	h, err := heuristics.LoadReducerTime(path)
	if err != nil {
		metrics.ObserveReload(metrics.OutcomeError)
		s.logger.Error("heuristic reload failed, keeping previous thresholds", slog.String("path", path), slog.Any("error", err))
		return err
	}
	s.SetHeuristic(h)
	metrics.ObserveReload(metrics.OutcomeSuccess)
	s.logger.Info("heuristic reloaded", slog.String("path", path), slog.String("heuristic", h.Name()))
	return nil
}

// LatencyP95 returns the current p95 evaluation latency.
func (s *HeuristicService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}
