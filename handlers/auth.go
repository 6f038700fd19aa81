package handlers

import (
	"net/http"

	"stocks-tracker-web/customerrors"
	"stocks-tracker-web/middleware"
	"stocks-tracker-web/models"
	"stocks-tracker-web/session"
	"stocks-tracker-web/validator"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const portfolioPath = "/portfolio"

func (h *Handler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(customerrors.ErrMalformedRequest)
		return
	}
	if err := validator.Login(&input); err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.backend.Login(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(backendFailure(err))
		return
	}

	s := middleware.CurrentSession(c)
	if s == nil {
		s = &session.Session{}
	}
	if err := h.sessions.Login(c.Request.Context(), s, resp.Token, input.UserID, resp.Name); err != nil {
		_ = c.Error(err)
		return
	}
	middleware.IssueSessionCookie(c, s)
	log.Info().Str("user_id", input.UserID).Msg("signed in")

	ok(c, http.StatusOK, resp.Message, gin.H{
		"name":     resp.Name,
		"redirect": portfolioPath,
	})
}

func (h *Handler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(customerrors.ErrMalformedRequest)
		return
	}
	if err := validator.Register(&input); err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.backend.Register(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(backendFailure(err))
		return
	}

	message := resp.Text()
	if message == "" {
		message = "Registration successful"
	}
	ok(c, http.StatusCreated, message, gin.H{"redirect": middleware.LoginPath})
}

func (h *Handler) Logout(c *gin.Context) {
	if s := middleware.CurrentSession(c); s != nil {
		if err := h.sessions.Logout(c.Request.Context(), s); err != nil {
			_ = c.Error(err)
			return
		}
	}
	ok(c, http.StatusOK, "Logged out", gin.H{"redirect": middleware.LoginPath})
}
