package user

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "created_at"}

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestCreate(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Alice", "alice@example.com", "hashed", RoleCustomer).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "Alice", "alice@example.com", "hashed", RoleCustomer, time.Now()))

	u, err := repo.Create(context.Background(), "Alice", "alice@example.com", "hashed", RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.Equal(t, RoleCustomer, u.Role)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindByID(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(7, "Bob", "bob@example.com", "hashed", RoleAdmin, time.Now()))

	u, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)
	assert.Equal(t, RoleAdmin, u.Role)
}

func TestEmailExists(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}
