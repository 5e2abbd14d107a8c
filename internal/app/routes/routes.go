package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sevasetu/sevasetu/internal/app/controllers"
	"github.com/sevasetu/sevasetu/internal/middleware"
	"github.com/sevasetu/sevasetu/internal/pkg/auth"
)

// Controllers bundles every controller the router needs
type Controllers struct {
	Health     *controllers.HealthController
	Auth       *controllers.AuthController
	Membership *controllers.MembershipController
	Donation   *controllers.DonationController
	Contact    *controllers.ContactController
	Chat       *controllers.ChatController
	Event      *controllers.EventController
	Task       *controllers.TaskController
}

// Setup registers every route on the engine
func Setup(router *gin.Engine, ctrl Controllers, jwtService *auth.JWTService) {
	router.Use(middleware.RequestLogger())

	authRequired := middleware.JWTAuth(jwtService)
	adminOnly := middleware.RoleRequired("ADMIN")

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", ctrl.Health.Check)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", ctrl.Auth.Register)
			authGroup.POST("/login", ctrl.Auth.Login)
			authGroup.POST("/refresh", ctrl.Auth.Refresh)
			authGroup.POST("/logout", authRequired, ctrl.Auth.Logout)
		}

		memberships := v1.Group("/memberships")
		{
			memberships.POST("/apply", ctrl.Membership.Apply)
			memberships.POST("/login", ctrl.Membership.Login)
			memberships.GET("/:membershipId/status", ctrl.Membership.Status)
			memberships.GET("/:membershipId/certificate", authRequired, ctrl.Membership.Certificate)
			memberships.GET("", authRequired, adminOnly, ctrl.Membership.List)
			memberships.POST("/:membershipId/approve", authRequired, adminOnly, ctrl.Membership.Approve)
			memberships.POST("/:membershipId/reject", authRequired, adminOnly, ctrl.Membership.Reject)
			memberships.POST("/:membershipId/extend", authRequired, adminOnly, ctrl.Membership.Extend)
		}

		donations := v1.Group("/donations")
		{
			donations.POST("", ctrl.Donation.Create)
			donations.GET("/:id/certificate", ctrl.Donation.Certificate)
			donations.GET("", authRequired, adminOnly, ctrl.Donation.List)
			donations.GET("/stats", authRequired, adminOnly, ctrl.Donation.Stats)
			donations.GET("/:id", authRequired, adminOnly, ctrl.Donation.Get)
			donations.PATCH("/:id/status", authRequired, adminOnly, ctrl.Donation.UpdateStatus)
		}

		contacts := v1.Group("/contacts")
		{
			contacts.POST("", ctrl.Contact.Create)
			contacts.GET("", authRequired, adminOnly, ctrl.Contact.List)
			contacts.GET("/:id", authRequired, adminOnly, ctrl.Contact.Get)
			contacts.PUT("/:id/assign", authRequired, adminOnly, ctrl.Contact.Assign)
			contacts.PUT("/:id/respond", authRequired, adminOnly, ctrl.Contact.Respond)
			contacts.PUT("/:id/resolve", authRequired, adminOnly, ctrl.Contact.Resolve)
			contacts.PUT("/:id/spam", authRequired, adminOnly, ctrl.Contact.MarkSpam)
		}

		chat := v1.Group("/chat")
		{
			chat.POST("/messages", ctrl.Chat.SendMessage)
			chat.GET("/sessions/:sessionId", ctrl.Chat.GetSession)
			chat.GET("/sessions", authRequired, adminOnly, ctrl.Chat.ListSessions)
			chat.PUT("/sessions/:sessionId/read", authRequired, adminOnly, ctrl.Chat.MarkRead)
			chat.PUT("/sessions/:sessionId/escalate", authRequired, adminOnly, ctrl.Chat.Escalate)
		}

		tasks := v1.Group("/tasks", authRequired, adminOnly)
		{
			tasks.GET("/failed", ctrl.Task.ListFailed)
			tasks.POST("/:id/requeue", ctrl.Task.Requeue)
		}

		events := v1.Group("/events")
		{
			events.GET("", ctrl.Event.List)
			events.GET("/:id", ctrl.Event.Get)
			events.POST("", authRequired, adminOnly, ctrl.Event.Create)
			events.PUT("/:id", authRequired, adminOnly, ctrl.Event.Update)
			events.DELETE("/:id", authRequired, adminOnly, ctrl.Event.Delete)
		}
	}
}
