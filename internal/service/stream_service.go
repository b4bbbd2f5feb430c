package service

import (
	"context"
	"time"

	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultStreamLimit is used when no page size is configured.
	DefaultStreamLimit = 100
	// MaxStreamLimit caps every stream request.
	MaxStreamLimit = 100
)

// StreamService composes activity streams.
type StreamService struct {
	streamRepo   repository.StreamRepository
	userRepo     repository.UserRepository
	defaultLimit int
}

// NewStreamService returns a new StreamService. defaultLimit <= 0 means
// DefaultStreamLimit.
func NewStreamService(streamRepo repository.StreamRepository, userRepo repository.UserRepository, defaultLimit int) *StreamService {
	if defaultLimit <= 0 || defaultLimit > MaxStreamLimit {
		defaultLimit = DefaultStreamLimit
	}
	return &StreamService{
		streamRepo:   streamRepo,
		userRepo:     userRepo,
		defaultLimit: defaultLimit,
	}
}

func (s *StreamService) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > MaxStreamLimit {
		return MaxStreamLimit
	}
	return limit
}

// Stream returns posts by userID and everyone userID follows, newest first.
func (s *StreamService) Stream(ctx context.Context, userID uint, limit int) (posts []models.Post, err error) {
	start := time.Now()
	limit = s.normalizeLimit(limit)
	ctx, span := observability.StartSpan(ctx, "StreamService", "Stream",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int("stream.limit", limit),
	)
	defer func() { observability.EndSpan(span, err) }()

	posts, err = s.streamRepo.PostsFor(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	observability.ObserveStream("composed", start, len(posts))
	return posts, nil
}

// ProjectStream is Stream over projects.
func (s *StreamService) ProjectStream(ctx context.Context, userID uint, limit int) (projects []models.Project, err error) {
	start := time.Now()
	limit = s.normalizeLimit(limit)
	ctx, span := observability.StartSpan(ctx, "StreamService", "ProjectStream",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int("stream.limit", limit),
	)
	defer func() { observability.EndSpan(span, err) }()

	projects, err = s.streamRepo.ProjectsFor(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	observability.ObserveStream("projects", start, len(projects))
	return projects, nil
}

// StreamFor returns only the named user's own posts. An unknown username
// is NotFound; a user with no posts yields an empty slice.
func (s *StreamService) StreamFor(ctx context.Context, username string, limit int) (user *models.User, posts []models.Post, err error) {
	start := time.Now()
	limit = s.normalizeLimit(limit)
	ctx, span := observability.StartSpan(ctx, "StreamService", "StreamFor",
		attribute.String("stream.username", username),
		attribute.Int("stream.limit", limit),
	)
	defer func() { observability.EndSpan(span, err) }()

	user, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	posts, err = s.streamRepo.PostsBy(ctx, user.ID, limit)
	if err != nil {
		return nil, nil, err
	}
	observability.ObserveStream("public", start, len(posts))
	return user, posts, nil
}
