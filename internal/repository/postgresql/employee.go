package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendly/timepay-engine-go/internal/domain/employee"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, full_name, department, role, active, monthly_components`

type employeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository returns an employee.Directory backed by the local
// replica of the user-management employee table.
func NewEmployeeRepository(db *database.DB) employee.Directory {
	return &employeeRepository{db: db}
}

// GetByID implements employee.Directory.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.FullName, &emp.Department, &emp.Role, &emp.Active, &emp.MonthlyComponents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ListActive implements employee.Directory.
func (e *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE active ORDER BY id`
	return e.queryEmployees(ctx, query)
}

func (e *employeeRepository) queryEmployees(ctx context.Context, query string, args ...any) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.ID, &emp.FullName, &emp.Department, &emp.Role, &emp.Active, &emp.MonthlyComponents); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}
