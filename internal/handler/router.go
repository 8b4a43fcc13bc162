package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router registers.
type Handlers struct {
	Auth       *AuthHandler
	Client     *ClientHandler
	Entry      *EntryHandler
	Session    *SessionHandler
	Note       *NoteHandler
	Statistics *StatisticsHandler
	Export     *ExportHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts the API under prefix. requireAuth must populate the
// user and actor context keys; requirePractitioner restricts a route to
// practitioner accounts.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, requireAuth, requirePractitioner gin.HandlerFunc) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	// Logout succeeds regardless of prior state, so it stays outside the
	// session-protected group.
	api.POST("/logout", h.Auth.Logout)
	api.POST("/forgot-password", h.Auth.ForgotPassword)
	api.POST("/reset-password", h.Auth.ResetPassword)

	auth := api.Group("", requireAuth)

	auth.GET("/user", h.Auth.Me)
	auth.PATCH("/user", h.Auth.UpdateProfile)
	auth.POST("/change-password", h.Auth.ChangePassword)

	auth.GET("/clients/:id", h.Client.Get)
	auth.GET("/clients/:id/data", h.Entry.List)
	auth.POST("/clients/:id/data", h.Entry.Create)
	auth.GET("/clients/:id/notes", h.Note.List)
	auth.GET("/sessions", h.Session.List)

	practitioner := auth.Group("", requirePractitioner)

	practitioner.GET("/clients", h.Client.List)
	practitioner.POST("/clients", h.Client.Create)
	practitioner.POST("/clients/with-user", h.Client.CreateWithUser)
	practitioner.PATCH("/clients/:id", h.Client.Update)
	practitioner.DELETE("/clients/:id", h.Client.Delete)
	practitioner.PATCH("/clients/:id/archive", h.Client.Archive)
	practitioner.PATCH("/clients/:id/unarchive", h.Client.Unarchive)
	practitioner.GET("/clients/:id/export", h.Export.Export)

	practitioner.POST("/clients/:id/notes", h.Note.Create)
	practitioner.PATCH("/notes/:id", h.Note.Update)
	practitioner.DELETE("/notes/:id", h.Note.Delete)

	practitioner.POST("/sessions", h.Session.Create)
	practitioner.PATCH("/sessions/:id", h.Session.Update)

	practitioner.GET("/statistics", h.Statistics.Get)
}
