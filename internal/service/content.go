// Package service implements the service-level operation contract. Every
// operation returns the uniform response envelope; domain failures carry
// their status and message, internal failures are logged and rendered as a
// generic 500.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"quorum/internal/models"
	"quorum/internal/repository"
)

// MutationPolicy selects who may update or delete a content item.
type MutationPolicy string

const (
	// PolicyOwnerOnly permits mutation by the item's owner alone.
	PolicyOwnerOnly MutationPolicy = "owner"
	// PolicyOwnerOrAdmin additionally permits admin-role users.
	PolicyOwnerOrAdmin MutationPolicy = "owner_or_admin"
)

// protectedFields can never be altered through a general update patch.
var protectedFields = []string{
	"id", "owner_id", "post_id", "created_at", "updated_at",
	"vote_count", "upvotes", "downvotes",
}

// sortablePostFields is the allow-list for caller-supplied sort keys.
var sortablePostFields = map[string]string{
	"voteCount": "(upvotes - downvotes) DESC, created_at ASC, id ASC",
	"createdAt": "created_at ASC",
	"title":     "title ASC",
}

// ContentService owns CRUD and ownership enforcement for posts and comments.
type ContentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	policy   MutationPolicy
	logger   *slog.Logger
}

func NewContentService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	policy MutationPolicy,
	logger *slog.Logger,
) *ContentService {
	if policy == "" {
		policy = PolicyOwnerOnly
	}
	return &ContentService{posts: posts, comments: comments, users: users, policy: policy, logger: logger}
}

// fail logs unexpected errors and renders the envelope for any error.
func (s *ContentService) fail(op string, err error) *models.Response {
	if appErr, ok := models.AsAppError(err); !ok || appErr.Code == "INTERNAL_ERROR" {
		s.logger.Error("content operation failed", "op", op, "error", err)
	}
	return models.Fail(err)
}

// authorize applies the deployment's mutation policy.
func (s *ContentService) authorize(ctx context.Context, ownerID, requesterID string) error {
	if ownerID == requesterID {
		return nil
	}
	if s.policy == PolicyOwnerOrAdmin {
		requester, err := s.users.GetByID(ctx, requesterID)
		if err == nil && requester.Role == models.RoleAdmin {
			return nil
		}
	}
	return models.NewForbiddenError("You are not the owner of this content")
}

// stripPatch removes fields a caller may never set, regardless of intent.
func stripPatch(patch map[string]any) map[string]any {
	for _, f := range protectedFields {
		delete(patch, f)
	}
	return patch
}

// CreatePostInput carries the caller-supplied post fields.
type CreatePostInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}

func (s *ContentService) CreatePost(ctx context.Context, ownerID string, in CreatePostInput) *models.Response {
	if in.Title == "" {
		return models.Fail(models.NewValidationError("Title is required"))
	}

	post := &models.Post{
		Title:       in.Title,
		Description: in.Description,
		Categories:  in.Categories,
		OwnerID:     ownerID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return s.fail("create_post", err)
	}
	post.VoteCount = 0
	return models.Created("Post created successfully!", post)
}

func (s *ContentService) GetPosts(ctx context.Context) *models.Response {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return s.fail("get_posts", err)
	}
	return models.OK("Posts retrieved successfully!", posts)
}

func (s *ContentService) GetPostByID(ctx context.Context, id string) *models.Response {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return s.fail("get_post", err)
	}
	return models.OK("Post retrieved successfully!", post)
}

func (s *ContentService) GetPostsByUser(ctx context.Context, ownerID string) *models.Response {
	posts, err := s.posts.ListByOwner(ctx, ownerID)
	if err != nil {
		return s.fail("get_posts_by_user", err)
	}
	return models.OK("Posts retrieved successfully!", posts)
}

func (s *ContentService) GetPostsByCategory(ctx context.Context, category string) *models.Response {
	posts, err := s.posts.ListByCategory(ctx, strings.ToLower(category))
	if err != nil {
		return s.fail("get_posts_by_category", err)
	}
	return models.OK("Posts retrieved successfully!", posts)
}

func (s *ContentService) UpdatePost(ctx context.Context, id, requesterID string, patch map[string]any) *models.Response {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return s.fail("update_post", err)
	}
	if err := s.authorize(ctx, post.OwnerID, requesterID); err != nil {
		return models.Fail(err)
	}

	fields := stripPatch(patch)
	if cats, ok := fields["categories"]; ok {
		// The column holds JSON text; map updates skip the field serializer,
		// so the value must be encoded here.
		encoded, err := json.Marshal(normalizeCategories(cats))
		if err != nil {
			return models.Fail(models.NewValidationError("Invalid categories"))
		}
		fields["categories"] = string(encoded)
	}
	if len(fields) == 0 {
		return models.Fail(models.NewValidationError("No updatable fields in request"))
	}
	if err := s.posts.Update(ctx, id, fields); err != nil {
		return s.fail("update_post", err)
	}
	return models.OK("Post updated successfully!", nil)
}

func (s *ContentService) DeletePost(ctx context.Context, id, requesterID string) *models.Response {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return s.fail("delete_post", err)
	}
	if err := s.authorize(ctx, post.OwnerID, requesterID); err != nil {
		return models.Fail(err)
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return s.fail("delete_post", err)
	}
	return models.OK("Post deleted successfully!", nil)
}

func (s *ContentService) AddComment(ctx context.Context, ownerID, postID, content string) *models.Response {
	if content == "" {
		return models.Fail(models.NewValidationError("Content is required"))
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return s.fail("add_comment", err)
	}

	comment := &models.Comment{
		PostID:  postID,
		OwnerID: ownerID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return s.fail("add_comment", err)
	}
	return models.Created("Comment added successfully!", comment)
}

func (s *ContentService) GetComments(ctx context.Context, postID string) *models.Response {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return s.fail("get_comments", err)
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return s.fail("get_comments", err)
	}
	return models.OK("Comments retrieved successfully!", comments)
}

func (s *ContentService) GetAllComments(ctx context.Context) *models.Response {
	comments, err := s.comments.List(ctx)
	if err != nil {
		return s.fail("get_all_comments", err)
	}
	return models.OK("All comments retrieved successfully!", comments)
}

func (s *ContentService) UpdateComment(ctx context.Context, id, requesterID string, patch map[string]any) *models.Response {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return s.fail("update_comment", err)
	}
	if err := s.authorize(ctx, comment.OwnerID, requesterID); err != nil {
		return models.Fail(err)
	}

	fields := stripPatch(patch)
	if len(fields) == 0 {
		return models.Fail(models.NewValidationError("No updatable fields in request"))
	}
	if err := s.comments.Update(ctx, id, fields); err != nil {
		return s.fail("update_comment", err)
	}
	return models.OK("Comment updated successfully!", nil)
}

func (s *ContentService) DeleteComment(ctx context.Context, id, requesterID string) *models.Response {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return s.fail("delete_comment", err)
	}
	if err := s.authorize(ctx, comment.OwnerID, requesterID); err != nil {
		return models.Fail(err)
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return s.fail("delete_comment", err)
	}
	return models.OK("Comment deleted successfully!", nil)
}

// Search returns items whose indexed text field starts with query,
// case-sensitive. The type parameter selects the collection: "post" matches
// on title, "comment" on content, anything else searches users by username.
func (s *ContentService) Search(ctx context.Context, query, contentType string) *models.Response {
	if query == "" {
		return models.Fail(models.NewValidationError("Search query is required"))
	}

	var (
		data any
		err  error
	)
	switch contentType {
	case models.TargetPost:
		data, err = s.posts.SearchByTitle(ctx, query)
	case models.TargetComment:
		data, err = s.comments.SearchByContent(ctx, query)
	default:
		var users []models.User
		users, err = s.users.SearchByUsername(ctx, query)
		for i := range users {
			users[i].Password = ""
		}
		data = users
	}
	if err != nil {
		return s.fail("search", err)
	}
	return models.OK("Search results retrieved successfully!", data)
}

// Trending returns the ten posts with the highest net vote count.
func (s *ContentService) Trending(ctx context.Context) *models.Response {
	posts, err := s.posts.Trending(ctx, 10)
	if err != nil {
		return s.fail("trending", err)
	}
	return models.OK("Trending posts retrieved successfully!", posts)
}

// TopComments returns the ten comments with the highest net vote count.
func (s *ContentService) TopComments(ctx context.Context) *models.Response {
	comments, err := s.comments.Top(ctx, 10)
	if err != nil {
		return s.fail("top_comments", err)
	}
	return models.OK("Top comments retrieved successfully!", comments)
}

// Filtered lists posts with an optional category filter and an optional sort
// key validated against the sortable-field allow-list.
func (s *ContentService) Filtered(ctx context.Context, category, sortBy string) *models.Response {
	f := repository.PostFilter{Category: strings.ToLower(category)}
	if sortBy != "" {
		order, ok := sortablePostFields[sortBy]
		if !ok {
			return models.Fail(models.NewValidationError("Unsupported sort field: " + sortBy))
		}
		f.OrderBy = order
	}

	posts, err := s.posts.Filtered(ctx, f)
	if err != nil {
		return s.fail("filtered", err)
	}
	return models.OK("Filtered posts retrieved successfully!", posts)
}

func normalizeCategories(v any) []string {
	var out []string
	switch cats := v.(type) {
	case []string:
		for _, c := range cats {
			out = append(out, strings.ToLower(c))
		}
	case []any:
		for _, c := range cats {
			if s, ok := c.(string); ok {
				out = append(out, strings.ToLower(s))
			}
		}
	}
	return out
}
