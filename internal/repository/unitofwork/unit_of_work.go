package unitofwork

import (
	"context"

	"edupath-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProgramRepository() contract.ProgramRepository
	AdvisingSessionRepository() contract.AdvisingSessionRepository
}
