package service

import (
	"context"
	"fmt"

	"github.com/jask/finecalc/internal/store"
)

// MaintenanceService houses destructive actions surfaced through the CLI.
type MaintenanceService struct {
	Store store.Store
}

// Reset empties the stored wanted ledger. Reference tables are kept.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.Store == nil {
		return fmt.Errorf("maintenance: store not configured")
	}
	if err := s.Store.Write(ctx, store.TableWanted, nil); err != nil {
		return fmt.Errorf("reset wanted: %w", err)
	}
	if inv, ok := s.Store.(store.Invalidator); ok {
		inv.Invalidate(store.TableWanted)
	}
	return nil
}
