package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/family-travel-blog/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/family-travel-blog/internal/middleware" // import middleware for session authentication and role enforcement
	"github.com/iliyamo/family-travel-blog/internal/model"      // role names for RequireRole
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Login and logout
// live under /v1/auth and need no session; /v1/me sits behind the
// session middleware.  The optional loginLimiter (a Redis token bucket)
// throttles credential guessing on the login endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, loginLimiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if loginLimiter != nil {
		g.POST("/login", a.Login, loginLimiter)
	} else {
		g.POST("/login", a.Login)
	}
	// Logout only clears the cookie; it works with or without a valid
	// session, so no middleware guards it.
	g.POST("/logout", a.Logout)

	// /v1/me requires some valid session but no particular role.
	auth := e.Group("/v1")
	auth.Use(middleware.SessionAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPosts registers the read side.  Every route requires a valid
// session (this is a private family blog; nothing is anonymous), but
// any role may call them: visibility of drafts is decided per request
// inside the handlers, not by the router.  The optional cache
// middleware serves repeated reads of published content from Redis.
func RegisterPosts(e *echo.Echo, p *handler.PostHandler, t *handler.TemplateHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.SessionAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleReader, model.RoleContributor))
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/posts", p.List)
	g.GET("/posts/:idOrSlug", p.Get)
	g.GET("/templates", t.List)
}

// RegisterContributor registers every mutating route.  The group
// requires a contributor session; per-post authorship is enforced by
// the handlers on top of the role check, so a contributor still cannot
// touch another contributor's posts.
func RegisterContributor(e *echo.Echo, h *handler.ContributorHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.SessionAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleContributor))

	// post lifecycle
	g.POST("/posts", h.CreatePost)
	g.PATCH("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/publish", h.Publish)

	// ordered content items
	g.POST("/posts/:id/photos", h.CreatePhoto)
	g.PATCH("/posts/:id/photos/:itemId", h.UpdatePhoto)
	g.DELETE("/posts/:id/photos/:itemId", h.DeletePhoto)
	g.POST("/posts/:id/videos", h.CreateVideo)
	g.PATCH("/posts/:id/videos/:itemId", h.UpdateVideo)
	g.DELETE("/posts/:id/videos/:itemId", h.DeleteVideo)
	g.POST("/posts/:id/text", h.CreateTextBlock)
	g.PATCH("/posts/:id/text/:itemId", h.UpdateTextBlock)
	g.DELETE("/posts/:id/text/:itemId", h.DeleteTextBlock)
	g.POST("/posts/:id/reorder", h.Reorder)

	// decoupled media upload
	g.POST("/media", h.UploadMedia)
}
