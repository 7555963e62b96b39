package journal

import (
	"context"

	"github.com/starford/bulletin/internal/executor"
	"github.com/starford/bulletin/internal/models"
)

// Journal is the set of operations the rest of the tool relies on.
type Journal interface {
	Record(ctx context.Context, e models.Execution) error
	List(ctx context.Context, limit int) ([]models.Execution, error)
	Close() error
}

// Verify *DB satisfies Journal and executor.Recorder at compile time.
var (
	_ Journal           = (*DB)(nil)
	_ executor.Recorder = (*DB)(nil)
)
