package repository

import (
	"context"
	"testing"
	"time"

	"quorum/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB wires GORM's postgres dialect over a sqlmock connection so the
// generated SQL can be asserted directly.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserGetByEmailMissingReturnsNilNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("ghost@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "role", "created_at", "updated_at"}))

	user, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	require.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListSelectsAllRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "role", "created_at", "updated_at"}).
			AddRow("u1", "alice", "a@x.com", "hash", models.RoleMember, now, now).
			AddRow("u2", "bob", "b@x.com", "hash", models.RoleAdmin, now, now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateIssuesMergeWithTimestamp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	// Map updates merge the patch and refresh updated_at in one statement;
	// the patch columns come first, the tracked timestamp last.
	mock.ExpectExec(`UPDATE "users" SET "username"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs("renamed", sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "u1", map[string]any{"username": "renamed"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
