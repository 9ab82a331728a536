package api

import (
	"log/slog"

	"user-mgmt-go/pkg/api/handlers"
	"user-mgmt-go/pkg/api/middleware"
	"user-mgmt-go/pkg/auth"
	"user-mgmt-go/pkg/endpoints"
	"user-mgmt-go/pkg/services"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the account endpoints. checks are pinged by the health probe.
func NewRouter(
	svc *services.UserService,
	tokens *auth.TokenIssuer,
	logger *slog.Logger,
	checks map[string]handlers.HealthChecker,
) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandler(logger))

	// Health check
	router.GET(endpoints.Health, handlers.HealthCheck(checks))

	e := endpoints.User
	users := router.Group("")
	users.Use(middleware.Authenticate(tokens))
	{
		users.POST(e.Login, handlers.Login(svc))
		users.POST(e.TelLogin, handlers.TelLogin(svc))
		users.POST(e.Add, handlers.AddUser(svc))
		users.POST(e.Update, handlers.UpdateUser(svc))
		users.GET(e.CheckUser, handlers.CheckUser(svc))
		users.POST(e.SendEmailCaptcha, handlers.SendEmailCaptcha(svc))
		users.POST(e.SendSmsCaptcha, handlers.SendSmsCaptcha(svc))
		users.GET(e.CheckCaptcha, handlers.CheckCaptcha(svc))

		users.GET(e.Query, middleware.RequireAuth(), handlers.GetUser(svc))
		users.GET(e.QueryUsers, middleware.RequireAuth(), handlers.QueryUsers(svc))
	}

	return router
}
