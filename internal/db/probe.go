package db

import (
	"context"
	"fmt"
)

// Probe is a health check against the readings database. It satisfies the
// core.HealthProbe interface and is registered on the server at startup.
type Probe struct {
	db DBTX
}

// NewProbe creates a database health probe.
func NewProbe(db DBTX) *Probe {
	return &Probe{db: db}
}

// Name identifies the probe in health check responses.
func (p *Probe) Name() string { return "database" }

// Check runs a trivial query to verify connectivity. It respects the context
// deadline set by the health handler.
func (p *Probe) Check(ctx context.Context) error {
	var one int
	if err := p.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}
