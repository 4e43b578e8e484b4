package server

import "github.com/gofiber/fiber/v2"

// RegisterRoutes wires every handler onto the app.
func (s *Server) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Quorum API",
			"version": "1.0.0",
		})
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", s.Signup)
	auth.Post("/login", s.Login)

	// Post routes
	posts := api.Group("/posts")
	// Public post routes
	posts.Get("/", s.GetPosts)
	posts.Get("/trending", s.Trending)
	posts.Get("/filter", s.FilteredPosts)
	posts.Get("/category/:category", s.GetPostsByCategory)
	posts.Get("/:id", s.GetPost)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id/votes", s.PostVoteHistory)
	// Protected post routes
	posts.Post("/", s.AuthRequired, s.CreatePost)
	posts.Put("/:id", s.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", s.AuthRequired, s.DeletePost)
	posts.Post("/:id/comments", s.AuthRequired, s.CreateComment)
	posts.Post("/:id/vote", s.AuthRequired, s.VotePost)

	// Comment routes
	comments := api.Group("/comments")
	comments.Get("/", s.GetAllComments)
	comments.Get("/top", s.TopComments)
	comments.Get("/:id/votes", s.CommentVoteHistory)
	comments.Put("/:id", s.AuthRequired, s.UpdateComment)
	comments.Delete("/:id", s.AuthRequired, s.DeleteComment)
	comments.Post("/:id/vote", s.AuthRequired, s.VoteComment)

	// Search
	api.Get("/search", s.Search)

	// User routes (listing and account administration are admin-gated)
	users := api.Group("/users")
	users.Post("/me/password", s.AuthRequired, s.ChangePassword)
	users.Get("/:id/posts", s.GetPostsByUser)
	users.Get("/:id/activity", s.AuthRequired, s.UserActivity)
	users.Get("/", s.AuthRequired, s.AdminRequired, s.ListUsers)
	users.Get("/:id", s.AuthRequired, s.AdminRequired, s.GetUser)
	users.Put("/:id", s.AuthRequired, s.AdminRequired, s.UpdateUser)
	users.Delete("/:id", s.AuthRequired, s.AdminRequired, s.DeleteUser)
}
