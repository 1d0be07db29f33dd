package service

import (
	"context"

	perr "dap/internal/platform/errors"
	"dap/internal/services/catalog/repo"
	changesdom "dap/internal/services/changes/domain"
)

// Restore writes the present snapshot fields back onto the entity
// revive is set when the undone item was the delete itself, only then is a soft deleted entity brought back
func (s *Svc) Restore(ctx context.Context, id string, snap changesdom.Snapshot, revive bool) error {
	if snap == nil {
		return perr.InvalidArgf("nil snapshot")
	}
	id, err := canonical(string(snap.Kind()), id)
	if err != nil {
		return err
	}
	p := repo.Patch{Undelete: revive}
	switch v := snap.(type) {
	case changesdom.ProductSnapshot:
		setField(&p, "name", v.Name)
		setField(&p, "description", v.Description)
		_, err = s.Repo.UpdateNamed(ctx, repo.Products, id, p)
	case changesdom.SolutionSnapshot:
		setField(&p, "name", v.Name)
		setField(&p, "description", v.Description)
		_, err = s.Repo.UpdateNamed(ctx, repo.Solutions, id, p)
	case changesdom.TaskSnapshot:
		setField(&p, "name", v.Name)
		setField(&p, "description", v.Description)
		setField(&p, "est_minutes", v.EstMinutes)
		setField(&p, "weight", v.Weight)
		setField(&p, "notes", v.Notes)
		setField(&p, "priority", v.Priority)
		setField(&p, "sequence_number", v.SequenceNumber)
		_, err = s.Repo.UpdateTask(ctx, id, p)
	default:
		return perr.InvalidArgf("unsupported snapshot %T", snap)
	}
	if err != nil {
		return err
	}
	s.log.Debug().Str("kind", string(snap.Kind())).Str("id", id).Int("fields", p.Len()).Msg("entity restored")
	return nil
}

func setField[T any](p *repo.Patch, col string, f changesdom.Field[T]) {
	if f.Set {
		p.Set(col, f.Value)
	}
}

// Load re-reads a live entity of kind
func (s *Svc) Load(ctx context.Context, kind changesdom.EntityKind, id string) (any, error) {
	switch kind {
	case changesdom.KindProduct:
		return s.GetProduct(ctx, id)
	case changesdom.KindSolution:
		return s.GetSolution(ctx, id)
	case changesdom.KindTask:
		return s.GetTask(ctx, id)
	}
	return nil, perr.InvalidArgf("unknown entity kind %q", kind)
}
