package despertador

import (
	"context"
)

//go:generate mockgen -source=store.go -destination=mocks/store.go -package=mocks

// InstanceStore persists instances. Put is an atomic upsert of one record.
// Get returns an ErrNotFound error for unknown ids.
type InstanceStore interface {
	Get(ctx context.Context, id string) (*Instance, error)
	Put(ctx context.Context, inst *Instance) error
	Delete(ctx context.Context, id string) error
	QueryByDefinition(ctx context.Context, definitionID string) ([]*Instance, error)

	// QueryActive returns every non-terminal instance ordered by alert
	// time.
	QueryActive(ctx context.Context) ([]*Instance, error)
}

// DefinitionStore persists alarm definitions. GetDefinition returns an
// ErrNotFound error for unknown ids.
type DefinitionStore interface {
	GetDefinition(ctx context.Context, id string) (*Definition, error)
	PutDefinition(ctx context.Context, def *Definition) error
	DeleteDefinition(ctx context.Context, id string) error
	ListDefinitions(ctx context.Context) ([]*Definition, error)
}
