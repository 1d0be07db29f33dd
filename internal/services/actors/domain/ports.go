package domain

import "context"

// Directory answers whether an actor id names a persisted user
type Directory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ServicePort is the actors service contract
type ServicePort interface {
	Directory
	Create(ctx context.Context, in CreateInput) (User, error)
	Get(ctx context.Context, id string) (User, error)
}
