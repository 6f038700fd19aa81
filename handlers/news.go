package handlers

import (
	"net/http"

	"stocks-tracker-web/models"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const (
	newsKey         = "news"
	newsUnavailable = "News service is currently unavailable."
)

// placeholderNews stands in for the feed while the backend cannot serve it.
func placeholderNews() []models.NewsArticle {
	return []models.NewsArticle{{
		Title:       "Market Update",
		Description: "News service is currently unavailable. Please try again later.",
		Image:       "https://via.placeholder.com/300x160?text=News+Image",
		URL:         "#",
		Source:      "System",
	}}
}

// News serves the backend feed, cached. A failure is never cached and
// degrades to a single placeholder article.
func (h *Handler) News(c *gin.Context) {
	if cached, found := h.news.Get(newsKey); found {
		ok(c, http.StatusOK, "", gin.H{"news": cached})
		return
	}

	articles, err := h.backend.News(c.Request.Context())
	if err != nil || len(articles) == 0 {
		log.Warn().Err(err).Msg("news feed unavailable")
		ok(c, http.StatusOK, newsUnavailable, gin.H{"news": placeholderNews()})
		return
	}

	h.news.Set(newsKey, articles, gocache.DefaultExpiration)
	ok(c, http.StatusOK, "", gin.H{"news": articles})
}
