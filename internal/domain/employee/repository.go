package employee

import (
	"context"
)

// Directory is the engine's view of the external user directory.
type Directory interface {
	// GetByID retrieves one employee
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive retrieves all active employees
	ListActive(ctx context.Context) ([]Employee, error)
}
