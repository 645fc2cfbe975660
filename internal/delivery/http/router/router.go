// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"posauth/internal/delivery/http/middleware"
	"posauth/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	CredentialHandler *handler.CredentialHandler
	TerminalHandler   *handler.TerminalHandler
	RequestID         *middleware.RequestIDMiddleware
	Logger            *middleware.LoggerMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	credentialHandler *handler.CredentialHandler
	terminalHandler   *handler.TerminalHandler
	requestID         *middleware.RequestIDMiddleware
	logger            *middleware.LoggerMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		credentialHandler: params.CredentialHandler,
		terminalHandler:   params.TerminalHandler,
		requestID:         params.RequestID,
		logger:            params.Logger,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestID.Process)
	e.Use(r.logger.Handle)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	pos := e.Group("/pos")
	{
		pos.POST("/authenticate", r.authHandler.Authenticate)
		pos.GET("/rfid-users", r.authHandler.ListRfidUsers)

		pos.PUT("/credentials", r.credentialHandler.Upsert)
		pos.DELETE("/credentials/:user", r.credentialHandler.Remove)
	}

	terminal := pos.Group("/terminals/:terminal")
	{
		terminal.GET("/policy", r.terminalHandler.Policy)
		terminal.POST("/session", r.terminalHandler.OpenSession)
		terminal.DELETE("/session", r.terminalHandler.CloseSession)
		terminal.GET("/lock", r.terminalHandler.LockState)
		terminal.POST("/activity", r.terminalHandler.RecordActivity)
		terminal.POST("/lock", r.terminalHandler.Lock)
		terminal.POST("/unlock", r.terminalHandler.Unlock)
	}
}
