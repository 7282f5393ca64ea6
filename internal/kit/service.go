package kit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/apperr"
	"github.com/FlexEdwin/toolfinder-app/internal/model"
)

// API is the slice of the remote catalog service the kit component needs
type API interface {
	rpcReader
	scanReader
	PopularKits(ctx context.Context) ([]model.RankedKit, error)
	CreateKit(ctx context.Context, name, authorName string) (model.Kit, error)
	InsertKitItems(ctx context.Context, items []model.KitItem) error
	DeleteKit(ctx context.Context, id string) error
	InsertKitLike(ctx context.Context, kitID, sessionID string) error
	DeleteKitLike(ctx context.Context, kitID, sessionID string) error
}

// Service owns kit publication, like toggling and the ranked kit view. The
// ranked view goes through the primary aggregate read until the remote
// service signals the operation does not exist, then switches to the scan
// fallback for the life of the process.
type Service struct {
	remote API
	logger *zap.Logger

	mu          sync.Mutex
	useFallback bool

	popularMu        sync.Mutex
	popular          []model.RankedKit
	popularFetchedAt time.Time
	popularFreshness time.Duration
}

// NewService creates the kit service
func NewService(remote API, popularFreshness time.Duration, logger *zap.Logger) *Service {
	return &Service{
		remote:           remote,
		logger:           logger,
		popularFreshness: popularFreshness,
	}
}

// List returns the ranked kit list for the session. An unavailable primary
// aggregate is not a user-visible error; it selects the fallback path.
func (s *Service) List(ctx context.Context, sessionID string) ([]model.RankedKit, error) {
	s.mu.Lock()
	useFallback := s.useFallback
	s.mu.Unlock()

	if !useFallback {
		primary := &rpcAggregator{remote: s.remote}
		kits, err := primary.Kits(ctx, sessionID)
		if err == nil {
			return kits, nil
		}
		if !apperr.IsUnavailableOperation(err) {
			return nil, err
		}

		s.logger.Warn("Aggregate kit read unavailable, switching to scan fallback")
		s.mu.Lock()
		s.useFallback = true
		s.mu.Unlock()
	}

	fallback := &scanAggregator{remote: s.remote}
	return fallback.Kits(ctx, sessionID)
}

// ToggleLike records or removes the session's vote. The caller has already
// applied the optimistic local update; on failure the returned kit list is a
// full refetch that resynchronizes the true server-side state (there is no
// fine-grained rollback).
func (s *Service) ToggleLike(ctx context.Context, kitID, sessionID string, liked bool) ([]model.RankedKit, error) {
	if kitID == "" {
		return nil, apperr.Validationf("kit id is required")
	}

	var err error
	if liked {
		err = s.remote.InsertKitLike(ctx, kitID, sessionID)
	} else {
		err = s.remote.DeleteKitLike(ctx, kitID, sessionID)
	}
	if err == nil {
		return nil, nil
	}

	s.logger.Warn("Like toggle failed, refetching kits to resynchronize",
		zap.String("kit_id", kitID),
		zap.Bool("liked", liked),
		zap.Error(err))

	kits, listErr := s.List(ctx, sessionID)
	if listErr != nil {
		s.logger.Error("Resynchronizing refetch failed", zap.Error(listErr))
		return nil, err
	}
	return kits, err
}

// Publish creates a kit from the session's selection: header insert followed
// by bulk item insert. If the item insert fails after the header committed,
// the orphaned header is deleted; if that compensation also fails, the
// partial write is surfaced as such.
func (s *Service) Publish(ctx context.Context, name, authorName string, tools []model.Tool) (model.Kit, error) {
	name = strings.TrimSpace(name)
	authorName = strings.TrimSpace(authorName)
	if name == "" {
		return model.Kit{}, apperr.Validationf("kit name is required")
	}
	if authorName == "" {
		return model.Kit{}, apperr.Validationf("author name is required")
	}
	if len(tools) == 0 {
		return model.Kit{}, apperr.Validationf("a kit needs at least one tool")
	}

	kit, err := s.remote.CreateKit(ctx, name, authorName)
	if err != nil {
		s.logger.Error("Failed to create kit header",
			zap.String("name", name),
			zap.Error(err))
		return model.Kit{}, err
	}

	items := make([]model.KitItem, 0, len(tools))
	for _, tool := range tools {
		items = append(items, model.KitItem{KitID: kit.ID, ToolID: tool.ID})
	}

	if err := s.remote.InsertKitItems(ctx, items); err != nil {
		s.logger.Error("Failed to insert kit items, compensating",
			zap.String("kit_id", kit.ID),
			zap.Int("items", len(items)),
			zap.Error(err))

		if delErr := s.remote.DeleteKit(ctx, kit.ID); delErr != nil {
			s.logger.Error("Compensating delete failed, orphaned kit header remains",
				zap.String("kit_id", kit.ID),
				zap.Error(delErr))
			return model.Kit{}, fmt.Errorf("%w: kit %s created without items: %v", apperr.ErrPartialWrite, kit.ID, err)
		}
		return model.Kit{}, err
	}

	kit.Items = items
	s.logger.Info("Kit published",
		zap.String("kit_id", kit.ID),
		zap.String("name", kit.Name),
		zap.String("author", kit.AuthorName),
		zap.Int("items", len(items)))
	return kit, nil
}

// Delete removes a kit. Dependent item and like rows are the remote
// service's referential-integrity responsibility.
func (s *Service) Delete(ctx context.Context, kitID string) error {
	if kitID == "" {
		return apperr.Validationf("kit id is required")
	}

	if err := s.remote.DeleteKit(ctx, kitID); err != nil {
		s.logger.Error("Failed to delete kit",
			zap.String("kit_id", kitID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Kit deleted", zap.String("kit_id", kitID))
	return nil
}

// Popular returns the remote service's featured ranking, cached briefly
func (s *Service) Popular(ctx context.Context) ([]model.RankedKit, error) {
	s.popularMu.Lock()
	if s.popular != nil && time.Since(s.popularFetchedAt) < s.popularFreshness {
		kits := s.popular
		s.popularMu.Unlock()
		return kits, nil
	}
	s.popularMu.Unlock()

	kits, err := s.remote.PopularKits(ctx)
	if err != nil {
		return nil, err
	}

	s.popularMu.Lock()
	s.popular = kits
	s.popularFetchedAt = time.Now()
	s.popularMu.Unlock()

	return kits, nil
}
