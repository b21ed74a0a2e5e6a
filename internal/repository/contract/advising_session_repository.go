package contract

import (
	"context"

	"edupath-be/internal/entity"
)

type AdvisingSessionRepository interface {
	Create(ctx context.Context, session *entity.AdvisingSession) error
	// FindByID returns nil, nil when the session does not exist.
	FindByID(ctx context.Context, id string) (*entity.AdvisingSession, error)
	// Update writes only the named fields (entity.SessionField*) in a single atomic step.
	Update(ctx context.Context, session *entity.AdvisingSession, fields ...string) error
}
