package unitofwork

import "context"

// RepositoryFactory hands out request-scoped units of work. Services hold
// the factory, not a live transaction.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
