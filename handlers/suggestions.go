package handlers

import (
	"net/http"

	"stocks-tracker-web/customerrors"
	"stocks-tracker-web/middleware"
	"stocks-tracker-web/suggestions"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Suggestions(c *gin.Context) {
	action := c.DefaultQuery("action", suggestions.All)
	if !suggestions.ValidAction(action) {
		_ = c.Error(customerrors.ErrInvalidFilter)
		return
	}

	s := middleware.CurrentSession(c)
	list, err := h.backend.Suggestions(c.Request.Context(), s.Token)
	if err != nil {
		h.gatedFailure(c, s, err)
		return
	}

	ok(c, http.StatusOK, "", gin.H{
		"suggestions": suggestions.Filter(list, action),
		"filter":      action,
		"total":       len(list),
	})
}
