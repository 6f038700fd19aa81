package handlers

import (
	"net/http"

	"stocks-tracker-web/aggregator"
	"stocks-tracker-web/customerrors"
	"stocks-tracker-web/market"
	"stocks-tracker-web/middleware"
	"stocks-tracker-web/models"
	"stocks-tracker-web/validator"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPortfolio(c *gin.Context) {
	h.renderPortfolio(c, http.StatusOK, "")
}

func (h *Handler) AddStock(c *gin.Context) {
	var input models.Holding
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(customerrors.ErrMalformedRequest)
		return
	}
	if err := validator.Holding(&input); err != nil {
		_ = c.Error(err)
		return
	}

	s := middleware.CurrentSession(c)
	ack, err := h.backend.AddHolding(c.Request.Context(), s.Token, input)
	if err != nil {
		h.gatedFailure(c, s, err)
		return
	}
	h.renderPortfolio(c, http.StatusCreated, ack.Text())
}

func (h *Handler) DeleteStock(c *gin.Context) {
	symbol := market.Normalize(c.Param("symbol"))
	if symbol == "" {
		_ = c.Error(customerrors.ErrEmptySymbol)
		return
	}

	s := middleware.CurrentSession(c)
	ack, err := h.backend.DeleteHolding(c.Request.Context(), s.Token, symbol)
	if err != nil {
		h.gatedFailure(c, s, err)
		return
	}
	h.renderPortfolio(c, http.StatusOK, ack.Text())
}

// renderPortfolio refetches the holdings and prices them.
func (h *Handler) renderPortfolio(c *gin.Context, status int, message string) {
	s := middleware.CurrentSession(c)

	holdings, err := h.backend.Portfolio(c.Request.Context(), s.Token)
	if err != nil {
		h.gatedFailure(c, s, err)
		return
	}

	views, err := h.enricher.Holdings(c.Request.Context(), holdings)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, status, message, models.PortfolioView{
		Stocks:  views,
		Summary: aggregator.Summarize(views),
	})
}
