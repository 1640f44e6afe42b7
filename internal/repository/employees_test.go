package repository

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

var employeeColumns = []string{"id", "employee_id", "first_name", "last_name", "full_name", "email", "department", "position", "phone", "hire_date", "status", "handover_details", "created_at", "version"}

func TestGetAllEmployees(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	handover := []byte(`{"handoverDate":"2026-02-01T00:00:00Z","handoverTo":"李娜","handoverReason":"离职","assetsToReturn":["uuid-1"],"handoverStatus":"Pending"}`)
	rows := sqlmock.NewRows(employeeColumns).
		AddRow(1, "EMP-001", "伟", "张", "张伟", "zhangwei@example.com", "技术部", "工程师", "1380013800", now, "Active", nil, now, 1).
		AddRow(2, "EMP-002", "娜", "李", "李娜", "lina@example.com", "行政部", "", "", nil, "Relieved", handover, now, 2)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees")).WillReturnRows(rows)

	employees, err := repo.GetAllEmployees()
	require.NoError(t, err)
	require.Len(t, employees, 2)

	assert.Equal(t, "张伟", employees[0].DisplayName())
	assert.Nil(t, employees[0].HandoverDetails)

	require.NotNil(t, employees[1].HandoverDetails)
	assert.Equal(t, []string{"uuid-1"}, employees[1].HandoverDetails.AssetsToReturn)
	assert.Equal(t, domain.HandoverStatusPending, employees[1].HandoverDetails.HandoverStatus)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmployeeByID(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	rows := sqlmock.NewRows(employeeColumns[1:]).
		AddRow("EMP-001", "伟", "张", "张伟", "zhangwei@example.com", "技术部", "工程师", "", nil, "Active", nil, now, 1)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	employee, err := repo.GetEmployeeByID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), employee.ID)
	assert.Equal(t, domain.EmployeeStatusActive, employee.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveEmployeesExcept(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	rows := sqlmock.NewRows(employeeColumns).
		AddRow(2, "EMP-002", "娜", "李", "李娜", "lina@example.com", "行政部", "", "", nil, "Active", nil, now, 1)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND id != $2")).
		WithArgs(string(domain.EmployeeStatusActive), int64(1)).
		WillReturnRows(rows)

	employees, err := repo.GetActiveEmployeesExcept(1)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "EMP-002", employees[0].EmployeeID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmployee(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO employees")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "version"}).AddRow(7, now, 1))

	employee := &domain.Employee{
		EmployeeID: "EMP-007",
		FullName:   "王芳",
		Email:      "wangfang@example.com",
		Department: "财务部",
		Status:     domain.EmployeeStatusActive,
	}
	require.NoError(t, repo.CreateEmployee(employee))
	assert.Equal(t, int64(7), employee.ID)
	assert.Equal(t, int32(1), employee.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmployeeStaleVersion(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE employees")).
		WillReturnError(sql.ErrNoRows)

	employee := &domain.Employee{ID: 1, EmployeeID: "EMP-001", Version: 1}
	assert.ErrorIs(t, repo.UpdateEmployee(employee), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmployee(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteEmployee(1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
