// Package api exposes the HTTP surface: a JSON REST API split into three
// route classes (public, authenticated, verified) plus a WebSocket
// endpoint for realtime snapshots.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anragu/poolpal/internal/auth"
	"github.com/anragu/poolpal/internal/middleware"
	"github.com/anragu/poolpal/internal/realtime"
	"github.com/anragu/poolpal/internal/service"
)

// Services bundles the domain layer the router dispatches to.
type Services struct {
	Accounts *service.AccountService
	Friends  *service.FriendService
	Pools    *service.PoolService
	Chats    *service.ChatService
}

// NewRouter wires the full route table.
//
// Route classes:
//   - public: registration, login, token redemption
//   - authenticated: profile and verification management
//   - verified: everything touching friends, pools and chats
func NewRouter(svc Services, jwtManager *auth.JWTManager, users middleware.UserLoader, hub *realtime.Hub, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	if reg != nil {
		metrics := middleware.NewMetrics(reg)
		r.Use(metrics.Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := &authHandlers{accounts: svc.Accounts}
	friendH := &friendHandlers{friends: svc.Friends}
	poolH := &poolHandlers{pools: svc.Pools}
	chatH := &chatHandlers{chats: svc.Chats}
	wsH := &wsHandler{hub: hub}

	public := r.Group("/api/auth")
	{
		public.POST("/register", authH.register)
		public.POST("/login", authH.login)
		public.POST("/verify", authH.verifyEmail)
		public.POST("/password-reset/request", authH.requestPasswordReset)
		public.POST("/password-reset/confirm", authH.confirmPasswordReset)
	}

	session := r.Group("/api", middleware.RequireAuth(jwtManager))
	{
		session.GET("/auth/me", friendH.me)
		session.POST("/auth/resend-verification", authH.resendVerification)
	}

	verified := r.Group("/api", middleware.RequireAuth(jwtManager), middleware.RequireVerified(users))
	{
		verified.GET("/friends", friendH.list)
		verified.POST("/friends/requests", friendH.sendRequest)
		verified.POST("/friends/requests/:uid/accept", friendH.accept)
		verified.POST("/friends/requests/:uid/decline", friendH.decline)

		verified.GET("/pools/:uid", poolH.ledgerView)
		verified.POST("/pools/:uid/expenses", poolH.addExpense)
		verified.POST("/expenses/:pool/:expense/toggle", poolH.toggleExpense)

		verified.GET("/chats/:uid/messages", chatH.history)
		verified.POST("/chats/:uid/messages", chatH.send)

		verified.PATCH("/account/name", authH.updateName)
		verified.DELETE("/account", authH.deleteAccount)

		verified.GET("/ws", wsH.serve)
	}

	return r
}
