package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-crm-service/internal/domain"
	"github.com/spec-kit/lead-crm-service/internal/events"
	"github.com/spec-kit/lead-crm-service/internal/repository"
	apperrors "github.com/spec-kit/lead-crm-service/pkg/util"
)

const policySnapshotKey = "lead-crm:policy-snapshot"

// PolicyService manages the admin-controlled privacy toggles and serves
// per-request PolicyStore snapshots. Snapshots are cached briefly in Redis;
// an update invalidates the cache so the next read observes the new value.
type PolicyService struct {
	policies   repository.PolicyRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPolicyService constructs the service. cache may be nil, in which case
// every snapshot is read from the database.
func NewPolicyService(policies repository.PolicyRepository, cache *redis.Client, cacheTTL time.Duration, dispatcher events.Dispatcher, logger *zap.Logger) *PolicyService {
	return &PolicyService{
		policies:   policies,
		cache:      cache,
		cacheTTL:   cacheTTL,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Snapshot returns the current PolicyStore. The snapshot is immutable and
// safe to share across the whole request.
func (s *PolicyService) Snapshot(ctx context.Context) (domain.PolicyStore, error) {
	if toggles, ok := s.fromCache(ctx); ok {
		return domain.NewPolicyStore(toggles...), nil
	}

	toggles, err := s.policies.ListAll(ctx)
	if err != nil {
		return domain.PolicyStore{}, err
	}
	s.toCache(ctx, toggles)
	return domain.NewPolicyStore(toggles...), nil
}

// ListToggles returns every known toggle with its current state, including
// never-configured keys as disabled entries.
func (s *PolicyService) ListToggles(ctx context.Context) ([]domain.PolicyToggle, error) {
	store, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return store.Toggles(), nil
}

// UpdateToggle flips one privacy switch. Admin only; unknown keys are
// rejected rather than silently stored.
func (s *PolicyService) UpdateToggle(ctx context.Context, actor domain.Actor, toggle domain.PolicyToggle) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("only admins can change privacy settings")
	}
	if !domain.IsKnownPolicyKey(toggle.Key) {
		return apperrors.NewValidationError("unknown policy key", map[string]any{"key": toggle.Key})
	}

	if err := s.policies.Upsert(ctx, toggle); err != nil {
		return err
	}
	s.invalidate(ctx)

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPolicyUpdated,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Timestamp: time.Now(),
			Payload: events.PolicyUpdatedPayload{
				Key:       toggle.Key,
				IsEnabled: toggle.IsEnabled,
			},
		})
	}
	return nil
}

func (s *PolicyService) fromCache(ctx context.Context) ([]domain.PolicyToggle, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, policySnapshotKey).Bytes()
	if err != nil {
		return nil, false
	}
	var toggles []domain.PolicyToggle
	if err := json.Unmarshal(raw, &toggles); err != nil {
		return nil, false
	}
	return toggles, true
}

func (s *PolicyService) toCache(ctx context.Context, toggles []domain.PolicyToggle) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(toggles)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, policySnapshotKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("policy snapshot cache write failed", zap.Error(err))
	}
}

func (s *PolicyService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, policySnapshotKey).Err(); err != nil {
		s.logger.Debug("policy snapshot cache invalidation failed", zap.Error(err))
	}
}
