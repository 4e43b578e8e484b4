package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"quorum/internal/auth"
	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires real repositories over in-memory SQLite and a miniredis
// cache, mirroring the production assembly in cmd/server.
type testEnv struct {
	db       *gorm.DB
	redis    *miniredis.Miniredis
	posts    repository.PostRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	votes    repository.VoteRepository
	content  *ContentService
	vote     *VoteService
	user     *UserService
	tokens   *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	kv := cache.New(client)

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	env := &testEnv{
		db:       db,
		redis:    mr,
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		users:    repository.NewUserRepository(db),
		votes:    repository.NewVoteRepository(db),
		tokens:   tokens,
	}
	env.content = NewContentService(env.posts, env.comments, env.users, PolicyOwnerOnly, discard)
	env.vote = NewVoteService(env.votes, env.posts, env.comments, discard)
	env.user = NewUserService(env.users, env.posts, env.comments, kv, tokens, time.Hour, discard)
	return env
}

// seedUser inserts a user directly with a known role.
func (e *testEnv) seedUser(t *testing.T, role string) *models.User {
	t.Helper()
	u := &models.User{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: "hash",
		Role:     role,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

// seedPost creates a post through the service and returns the stored item.
func (e *testEnv) seedPost(t *testing.T, ownerID, title string, categories ...string) *models.Post {
	t.Helper()
	res := e.content.CreatePost(context.Background(), ownerID, CreatePostInput{
		Title:       title,
		Description: gofakeit.Sentence(6),
		Categories:  categories,
	})
	require.Equal(t, 201, res.Status)
	post, ok := res.Data.(*models.Post)
	require.True(t, ok)
	return post
}
