package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"employee-management-api/internal/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, mock
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
	require.Equal(t, "", NormalizeEmail("   "))
}

func TestFindByEmail_QueriesNormalizedForm(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "normalized_email"}).
		AddRow(1, "User@Example.com", "user@example.com")

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE normalized_email = \\?").
		WithArgs("user@example.com", 1).
		WillReturnRows(rows)

	user, err := repo.FindByEmail("  User@Example.COM ")
	require.NoError(t, err)
	require.Equal(t, uint64(1), user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRole_ReturnsGrant(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"user_id", "role"}).
		AddRow(7, string(models.RoleManager))

	mock.ExpectQuery("SELECT \\* FROM `user_roles` WHERE user_id = \\?").
		WithArgs(uint64(7), 1).
		WillReturnRows(rows)

	role, err := repo.GetRole(7)
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListUserIDsInRole_PlucksUserIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"user_id"}).AddRow(3).AddRow(9)

	mock.ExpectQuery("SELECT `user_id` FROM `user_roles` WHERE role = \\?").
		WithArgs(string(models.RoleEmployee)).
		WillReturnRows(rows)

	ids, err := repo.ListUserIDsInRole(models.RoleEmployee)
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 9}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
