package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/apperror"
	"edupath-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps advising sessions in process memory.
// Sessions expire after the configured TTL, like the HTTP chat sessions did.
type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewSessionRepository creates a cache whose entries live for ttl and which
// purges expired items every ttl/6. A ttl <= 0 keeps sessions forever.
func NewSessionRepository(ttl time.Duration) contract.AdvisingSessionRepository {
	cleanup := ttl / 6
	if ttl <= 0 {
		ttl = cache.NoExpiration
		cleanup = 0
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.AdvisingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if err := r.cache.Add(session.Id, session.Clone(), cache.DefaultExpiration); err != nil {
		return fmt.Errorf("session %s: %w", session.Id, err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*entity.AdvisingSession, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*entity.AdvisingSession).Clone(), nil
	}
	return nil, nil
}

// Update copies the named fields onto a fresh copy of the stored session and swaps it in.
func (r *SessionRepository) Update(ctx context.Context, session *entity.AdvisingSession, fields ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(session.Id)
	if !found {
		return apperror.ErrSessionNotFound
	}
	next := x.(*entity.AdvisingSession).Clone()
	src := session.Clone()

	for _, f := range fields {
		switch f {
		case entity.SessionFieldStatus:
			next.Status = src.Status
		case entity.SessionFieldTargetList:
			next.TargetList = src.TargetList
		case entity.SessionFieldReachList:
			next.ReachList = src.ReachList
		case entity.SessionFieldTimeline:
			next.Timeline = src.Timeline
		default:
			return fmt.Errorf("%w: session field %q is not updatable", apperror.ErrInvalidInput, f)
		}
	}

	now := time.Now()
	next.UpdatedAt = &now
	session.UpdatedAt = &now

	r.cache.Set(next.Id, next, cache.DefaultExpiration)
	return nil
}
