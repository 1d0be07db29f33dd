// Package service contains actor lookups and registration
package service

import (
	"context"
	"strings"

	"dap/internal/modkit/repokit"
	perr "dap/internal/platform/errors"
	"dap/internal/services/actors/domain"
	"dap/internal/services/actors/repo"

	"github.com/google/uuid"
)

// Service is the actors service contract
type Service interface{ domain.ServicePort }

// Svc implements Service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New creates an actors service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("actors.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("actors.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

// Exists reports whether id names a persisted user
// ids that are not uuids can never match a row so they short circuit to false
func (s *Svc) Exists(ctx context.Context, id string) (bool, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return false, nil
	}
	return s.Repo.Exists(ctx, u.String())
}

// Create registers a user
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return domain.User{}, perr.WithField(perr.InvalidArgf("email is required"), "email")
	}
	row, err := s.Repo.Insert(ctx, email, strings.TrimSpace(in.Name))
	if err != nil {
		return domain.User{}, err
	}
	return toUser(row), nil
}

// Get loads a user by id
func (s *Svc) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return domain.User{}, perr.NotFoundf("user %s not found", id)
	}
	row, err := s.Repo.Get(ctx, u.String())
	if err != nil {
		return domain.User{}, err
	}
	return toUser(row), nil
}

func toUser(r repo.RowUser) domain.User {
	return domain.User{ID: r.ID, Email: r.Email, Name: r.Name, CreatedAt: r.CreatedAt}
}
