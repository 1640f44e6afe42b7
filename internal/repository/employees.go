package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, employee_id, first_name, last_name, full_name, email, department, position, phone, hire_date, status, handover_details, created_at, version
		FROM employees
		ORDER BY employee_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{&employee.ID, &employee.EmployeeID, &employee.FirstName, &employee.LastName, &employee.FullName, &employee.Email, &employee.Department, &employee.Position, &employee.Phone, &employee.HireDate, &employee.Status, &employee.HandoverDetails, &employee.CreatedAt, &employee.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	query := `
		SELECT employee_id, first_name, last_name, full_name, email, department, position, phone, hire_date, status, handover_details, created_at, version
		FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		ID: id,
	}

	dst := []any{&employee.EmployeeID, &employee.FirstName, &employee.LastName, &employee.FullName, &employee.Email, &employee.Department, &employee.Position, &employee.Phone, &employee.HireDate, &employee.Status, &employee.HandoverDetails, &employee.CreatedAt, &employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return employee, nil
}

// GetActiveEmployeesExcept 返回除指定雇员外所有在职雇员，
// 用于填充交接接收人的候选列表
func (r *Repository) GetActiveEmployeesExcept(id int64) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, employee_id, first_name, last_name, full_name, email, department, position, phone, hire_date, status, handover_details, created_at, version
		FROM employees
		WHERE status = $1 AND id != $2
		ORDER BY employee_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, domain.EmployeeStatusActive, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{&employee.ID, &employee.EmployeeID, &employee.FirstName, &employee.LastName, &employee.FullName, &employee.Email, &employee.Department, &employee.Position, &employee.Phone, &employee.HireDate, &employee.Status, &employee.HandoverDetails, &employee.CreatedAt, &employee.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employees (employee_id, first_name, last_name, full_name, email, department, position, phone, hire_date, status, handover_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, version
	`

	args := []any{employee.EmployeeID, employee.FirstName, employee.LastName, employee.FullName, employee.Email, employee.Department, employee.Position, employee.Phone, employee.HireDate, employee.Status, employee.HandoverDetails}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.ID, &employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			employee_id = $1,
			first_name = $2,
			last_name = $3,
			full_name = $4,
			email = $5,
			department = $6,
			position = $7,
			phone = $8,
			hire_date = $9,
			status = $10,
			handover_details = $11,
			version = version + 1
		WHERE id = $12 AND version = $13
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{employee.EmployeeID, employee.FirstName, employee.LastName, employee.FullName, employee.Email, employee.Department, employee.Position, employee.Phone, employee.HireDate, employee.Status, employee.HandoverDetails, employee.ID, employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployee(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM employees WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
