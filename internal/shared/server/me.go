package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

type meUser struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider"`
}

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	id, ok := middleware.CallerFromContext(c).(auth.Authenticated)
	if !ok {
		respond.JSON(c, http.StatusUnauthorized, gin.H{"user": nil})
		return
	}
	respond.OK(c, gin.H{"user": meUser{
		ID:       id.UserID,
		Email:    id.Email,
		Name:     id.Name,
		Provider: id.Provider,
	}})
}
