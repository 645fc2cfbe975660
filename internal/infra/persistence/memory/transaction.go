package memory

import (
	"context"
	"sync"

	"posauth/internal/domain/repository"
)

// transactionManager implements repository.TransactionManager for the
// in-memory registry. There is no rollback; atomicity of the check-then-write
// comes from serializing Execute calls against each other, on top of the
// repository's own per-operation locking.
type transactionManager struct {
	mu   sync.Mutex
	repo repository.CredentialRepository
}

// NewTransactionManager is the constructor for transactionManager.
func NewTransactionManager(repo repository.CredentialRepository) repository.TransactionManager {
	return &transactionManager{repo: repo}
}

// Execute runs fn with a factory bound to the shared in-memory registry.
func (tm *transactionManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	return fn(&repositoryFactory{repo: tm.repo})
}

type repositoryFactory struct {
	repo repository.CredentialRepository
}

// CredentialRepo returns the registry instance.
func (f *repositoryFactory) CredentialRepo() repository.CredentialRepository {
	return f.repo
}
