// Package service contains audit log workflows
package service

import (
	"context"
	"encoding/json"
	"time"

	"dap/internal/platform/logger"
	"dap/internal/services/audit/domain"
	"dap/internal/services/audit/repo"
)

// Service is the audit service contract
type Service interface{ domain.ServicePort }

// Svc implements Service
type Svc struct {
	Repo repo.Repo
	log  logger.Logger
	now  func() time.Time
}

// New creates an audit service
func New(r repo.Repo, log logger.Logger) *Svc {
	if r == nil {
		panic("audit.Service requires a non nil Repo")
	}
	return &Svc{Repo: r, log: log.With().Str("component", "audit").Logger(), now: time.Now}
}

// Log appends e, failures are logged so a primary mutation never fails on audit
func (s *Svc) Log(ctx context.Context, e domain.Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	details := "{}"
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			s.log.Warn().Err(err).Str("action", string(e.Action)).Msg("audit: details not encodable, dropping them")
		} else {
			details = string(b)
		}
	}
	row := repo.RowEntry{
		CreatedAt: e.CreatedAt,
		Action:    string(e.Action),
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		UserID:    e.UserID,
		Details:   details,
	}
	if err := s.Repo.Insert(ctx, row); err != nil {
		s.log.Error().Err(err).
			Str("action", row.Action).
			Str("entity", row.Entity).
			Str("entity_id", row.EntityID).
			Msg("audit: append failed")
	}
}

// Recent lists newest entries, limit defaults to 50 and is clamped to 200
func (s *Svc) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.Repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Entry, 0, len(rows))
	for _, r := range rows {
		e := domain.Entry{
			Action:    domain.Action(r.Action),
			Entity:    r.Entity,
			EntityID:  r.EntityID,
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
		}
		if r.Details != "" {
			if err := json.Unmarshal([]byte(r.Details), &e.Details); err != nil {
				e.Details = map[string]any{"raw": r.Details}
			}
		}
		out = append(out, e)
	}
	return out, nil
}
