package sheets

import (
	"context"

	"saba/internal/export"
)

// TableWriter replaces the content of one named tab with a table.
type TableWriter interface {
	PushTable(ctx context.Context, t export.Table) error
}
