package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"comment-board-service/internal/entity"
	"comment-board-service/migrations"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.AutoMigrateUsers(0, db))
	require.NoError(t, migrations.AutoMigrateComments(0, db))
	return db
}

func TestUserRepository_CreateAndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	created, err := r.CreateUser(ctx, &entity.User{Username: "alice", Password: "hash"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := r.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
}

func TestUserRepository_GetByID_NotExists_ReturnsNilNil(t *testing.T) {
	db := setupDB(t)
	r := NewUserRepository(db)

	got, err := r.GetUserByID(context.Background(), 42)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := setupDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	_, err := r.CreateUser(ctx, &entity.User{Username: "bob", Password: "hash"})
	require.NoError(t, err)

	got, err := r.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, "bob", got.Username)

	missing, err := r.GetUserByUsername(ctx, "nobody")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUserRepository_ListUsers_OrderedByID(t *testing.T) {
	db := setupDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "charlie"} {
		_, err := r.CreateUser(ctx, &entity.User{Username: name, Password: "hash"})
		require.NoError(t, err)
	}

	users, err := r.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "alice", users[0].Username)
	require.Equal(t, "charlie", users[2].Username)
	require.Less(t, users[0].ID, users[1].ID)
	require.Less(t, users[1].ID, users[2].ID)
}

func TestCommentRepository_CreateAssignsID(t *testing.T) {
	db := setupDB(t)
	r := NewCommentRepository(db)
	ctx := context.Background()

	first, err := r.CreateComment(ctx, &entity.Comment{Content: "first"})
	require.NoError(t, err)
	second, err := r.CreateComment(ctx, &entity.Comment{Content: "second"})
	require.NoError(t, err)

	require.NotZero(t, first.ID)
	require.Greater(t, second.ID, first.ID)
}

func TestCommentRepository_ListComments_EmptyAndOrdered(t *testing.T) {
	db := setupDB(t)
	r := NewCommentRepository(db)
	ctx := context.Background()

	comments, err := r.ListComments(ctx)
	require.NoError(t, err)
	require.Empty(t, comments)

	_, err = r.CreateComment(ctx, &entity.Comment{Content: "one"})
	require.NoError(t, err)
	_, err = r.CreateComment(ctx, &entity.Comment{Content: "two"})
	require.NoError(t, err)

	comments, err = r.ListComments(ctx)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "one", comments[0].Content)
	require.Equal(t, "two", comments[1].Content)
}
