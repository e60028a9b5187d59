package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-manager/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err, "open in-memory sqlite")
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func setupUserRepo(t *testing.T) *UserRepository {
	t.Helper()

	repo := NewUserRepository(setupTestDB(t)).(*UserRepository)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func newUser(email string) *domain.User {
	return &domain.User{
		Username: "alice",
		Email:    email,
		Password: "$2a$10$hash",
		Role:     []string{"user"},
		Phone:    []string{"555"},
		Status:   "active",
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := setupUserRepo(t)

	user := newUser("a@x.com")
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, id, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "$2a$10$hash", got.Password)
	assert.Equal(t, []string{"user"}, got.Role)
	assert.Equal(t, []string{"555"}, got.Phone)
	assert.Equal(t, "active", got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepository_CreateNilListsStoredEmpty(t *testing.T) {
	ctx := context.Background()
	repo := setupUserRepo(t)

	user := newUser("a@x.com")
	user.Role = nil
	user.Phone = nil
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, got.Role)
	assert.Empty(t, got.Role)
	assert.NotNil(t, got.Phone)
	assert.Empty(t, got.Phone)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := setupUserRepo(t)

	_, err := repo.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("a@x.com"))
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUserRepository_GetByIDMissing(t *testing.T) {
	repo := setupUserRepo(t)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo := setupUserRepo(t)

	user := newUser("a@x.com")
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	user.Username = "bob"
	user.Role = []string{"admin", "agent"}
	require.NoError(t, repo.Save(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, []string{"admin", "agent"}, got.Role)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestUserRepository_SaveMissing(t *testing.T) {
	repo := setupUserRepo(t)

	user := newUser("a@x.com")
	user.ID = 99
	err := repo.Save(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_SaveDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := setupUserRepo(t)

	_, err := repo.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)
	second := newUser("b@x.com")
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	second.Email = "a@x.com"
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUserRepository_ListOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := setupUserRepo(t)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := repo.Create(ctx, newUser(email))
		require.NoError(t, err)
	}

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "a@x.com", users[0].Email)
	assert.Equal(t, "c@x.com", users[2].Email)
	assert.Less(t, users[0].ID, users[1].ID)
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := setupUserRepo(t)

	user := newUser("a@x.com")
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err = repo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = repo.Delete(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_StoreFailures(t *testing.T) {
	t.Parallel()

	errDB := errors.New("db error")

	testCases := []struct {
		name      string
		mockSetup func(sqlmock.Sqlmock)
		call      func(*UserRepository) error
	}{
		{
			name: "insert fails",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO users").WillReturnError(errDB)
			},
			call: func(r *UserRepository) error {
				_, err := r.Create(context.Background(), newUser("a@x.com"))
				return err
			},
		},
		{
			name: "update fails",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users").WillReturnError(errDB)
			},
			call: func(r *UserRepository) error {
				user := newUser("a@x.com")
				user.ID = 1
				return r.Save(context.Background(), user)
			},
		},
		{
			name: "select fails",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM users WHERE id").WithArgs(int64(1)).WillReturnError(errDB)
			},
			call: func(r *UserRepository) error {
				_, err := r.GetByID(context.Background(), 1)
				return err
			},
		},
		{
			name: "list fails",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM users ORDER BY id").WillReturnError(errDB)
			},
			call: func(r *UserRepository) error {
				_, err := r.List(context.Background())
				return err
			},
		},
		{
			name: "delete fails",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM users").WithArgs(int64(1)).WillReturnError(errDB)
			},
			call: func(r *UserRepository) error {
				return r.Delete(context.Background(), 1)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			require.NoError(t, err, "Error mocking DB")
			defer db.Close()

			tc.mockSetup(mock)
			err = tc.call(NewUserRepository(db).(*UserRepository))

			assert.ErrorIs(t, err, errDB)
			assert.NotErrorIs(t, err, domain.ErrUserNotFound)
			assert.NoError(t, mock.ExpectationsWereMet(), "Expectations were not met")
		})
	}
}

func TestUserRepository_CorruptRoleColumn(t *testing.T) {
	now := time.Now().UTC()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").WithArgs(int64(1)).WillReturnRows(
		mock.NewRows([]string{"id", "username", "email", "password", "role", "phone", "status", "created_at", "updated_at"}).
			AddRow(int64(1), "alice", "a@x.com", "hash", "admin,agent", "[]", "active", now, now),
	)

	_, err = NewUserRepository(db).GetByID(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode role")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UniqueTextWithoutConstraintCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("unique index rebuild in progress"))

	_, err = NewUserRepository(db).Create(context.Background(), newUser("a@x.com"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	_, err := db.ExecContext(ctx, `CREATE TABLE t (v TEXT UNIQUE NOT NULL)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO t (v) VALUES ('a')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO t (v) VALUES ('a')`)
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", err)))

	_, err = db.ExecContext(ctx, `INSERT INTO t (v) VALUES (NULL)`)
	require.Error(t, err)
	assert.False(t, isUniqueViolation(err))
}
