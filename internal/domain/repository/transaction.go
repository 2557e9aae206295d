package repository

import "context"

// TransactionManager runs use case logic inside one database transaction
// without leaking the driver into the use case layer.
type TransactionManager interface {
	// Execute commits when fn returns nil and rolls back otherwise.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to the running transaction.
type RepositoryFactory interface {
	NewUserRepository() UserRepository
	NewGoalRepository() GoalRepository
}
