package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"quorum/internal/auth"
	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/repository"
)

// usersCacheKey is the fixed key for the full user listing. The cache is
// populated only by List; Create and Update deliberately do not touch it
// (documented staleness window), Delete invalidates it.
const usersCacheKey = "users"

// UserService owns account CRUD, credential verification and the
// cache-backed user listing.
type UserService struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	cache    *cache.Cache
	tokens   *auth.TokenIssuer
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	c *cache.Cache,
	tokens *auth.TokenIssuer,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		posts:    posts,
		comments: comments,
		cache:    c,
		tokens:   tokens,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *UserService) fail(op string, err error) *models.Response {
	if appErr, ok := models.AsAppError(err); !ok || appErr.Code == "INTERNAL_ERROR" {
		s.logger.Error("user operation failed", "op", op, "error", err)
	}
	return models.Fail(err)
}

// CreateUserInput carries the signup fields.
type CreateUserInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) *models.Response {
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return models.Fail(models.NewValidationError("Email, username, and password are required"))
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return s.fail("create_user", err)
	}
	if existing != nil {
		return models.Fail(models.NewConflictError("User already exists"))
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return s.fail("create_user", models.NewInternalError(err))
	}

	user := &models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: hashed,
		Role:     models.RoleMember,
	}
	// The unique index on email closes the check-then-act race: a losing
	// concurrent insert comes back as the same Conflict.
	if err := s.users.Create(ctx, user); err != nil {
		return s.fail("create_user", err)
	}
	return models.Created("User created successfully!", nil)
}

// List serves the full user listing cache-aside: a hit returns the cached
// payload as-is, a miss reads the store, strips hashes, and repopulates with
// the configured TTL.
func (s *UserService) List(ctx context.Context) *models.Response {
	var users []models.User
	err := s.cache.Aside(ctx, usersCacheKey, &users, s.cacheTTL, func() error {
		fetched, err := s.users.List(ctx)
		if err != nil {
			return err
		}
		for i := range fetched {
			fetched[i].Password = ""
		}
		users = fetched
		return nil
	})
	if err != nil {
		return s.fail("list_users", err)
	}
	return models.OK("Users retrieved successfully!", users)
}

func (s *UserService) GetByID(ctx context.Context, id string) *models.Response {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return s.fail("get_user", err)
	}
	user.Password = ""
	return models.OK("User retrieved successfully!", user)
}

func (s *UserService) Update(ctx context.Context, id string, patch map[string]any) *models.Response {
	// Credentials and identity fields never pass through a general update.
	for _, f := range []string{"id", "password", "role", "email", "created_at", "updated_at"} {
		delete(patch, f)
	}
	if len(patch) == 0 {
		return models.Fail(models.NewValidationError("No updatable fields in request"))
	}
	if err := s.users.Update(ctx, id, patch); err != nil {
		return s.fail("update_user", err)
	}
	return models.OK("User updated successfully!", nil)
}

// Delete removes the user and invalidates the listing cache so the next
// List reflects the deletion.
func (s *UserService) Delete(ctx context.Context, id string) *models.Response {
	if err := s.users.Delete(ctx, id); err != nil {
		return s.fail("delete_user", err)
	}
	if err := s.cache.Invalidate(ctx, usersCacheKey); err != nil {
		s.logger.Warn("failed to invalidate users cache", "error", err)
	}
	return models.OK("User deleted successfully!", nil)
}

func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) *models.Response {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return s.fail("change_password", err)
	}
	if user.Password == "" {
		return s.fail("change_password", models.NewInternalError(errors.New("stored password hash is missing")))
	}
	if !auth.CheckPassword(user.Password, currentPassword) {
		return models.Fail(models.NewUnauthorizedError("Current password is incorrect."))
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return s.fail("change_password", models.NewInternalError(err))
	}
	if err := s.users.Update(ctx, id, map[string]any{"password": hashed}); err != nil {
		return s.fail("change_password", err)
	}
	return models.OK("Password changed successfully!", nil)
}

// Login verifies credentials and returns the user profile plus a token.
// An unknown email and a wrong password produce identical envelopes.
func (s *UserService) Login(ctx context.Context, email, password string) *models.Response {
	unauthorized := models.Fail(models.NewUnauthorizedError("Unauthorized"))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return s.fail("login", err)
	}
	if user == nil {
		return unauthorized
	}
	if !auth.CheckPassword(user.Password, password) {
		return unauthorized
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return s.fail("login", models.NewInternalError(err))
	}

	user.Password = ""
	return models.OK("User login successfully!", map[string]any{
		"user":  user,
		"token": token,
	})
}

// Activity returns the posts and comments authored by a user.
func (s *UserService) Activity(ctx context.Context, userID string) *models.Response {
	posts, err := s.posts.ListByOwner(ctx, userID)
	if err != nil {
		return s.fail("activity", err)
	}
	comments, err := s.comments.ListByOwner(ctx, userID)
	if err != nil {
		return s.fail("activity", err)
	}
	return models.OK("User activity retrieved successfully!", map[string]any{
		"posts":    posts,
		"comments": comments,
	})
}
