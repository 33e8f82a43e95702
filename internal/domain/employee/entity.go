package employee

import (
	"github.com/shopspring/decimal"
)

// Role mirrors the role model of the external user directory.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
	RoleMaster   Role = "master"
)

// Employee is the engine's read model of a directory user. The directory
// itself (CRUD, roles, invitations) is an external collaborator.
type Employee struct {
	ID         string
	FullName   string
	Department string
	Role       Role
	Active     bool

	// MonthlyComponents is the sum of fixed monthly salary components used
	// to derive the daily rate.
	MonthlyComponents decimal.Decimal
}
