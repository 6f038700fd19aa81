package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stocks-tracker-web/backend"
	"stocks-tracker-web/customerrors"
	"stocks-tracker-web/middleware"
	"stocks-tracker-web/models"
	"stocks-tracker-web/session"
	"stocks-tracker-web/watchlist"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const DefaultNewsTTL = 5 * time.Minute

// Backend is the REST collaborator behind auth, portfolio, suggestions and news.
type Backend interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.MessageResponse, error)
	Portfolio(ctx context.Context, token string) ([]models.Holding, error)
	AddHolding(ctx context.Context, token string, h models.Holding) (models.MessageResponse, error)
	DeleteHolding(ctx context.Context, token, symbol string) (models.MessageResponse, error)
	Suggestions(ctx context.Context, token string) ([]models.Suggestion, error)
	News(ctx context.Context) ([]models.NewsArticle, error)
}

// Enricher prices portfolio holdings.
type Enricher interface {
	Holdings(ctx context.Context, holdings []models.Holding) ([]models.HoldingView, error)
}

type Options struct {
	NewsTTL         time.Duration
	RefreshInterval time.Duration
	// AllowedOrigins limits websocket upgrades; empty allows same-origin only.
	AllowedOrigins []string
}

type Handler struct {
	backend   Backend
	sessions  *session.Manager
	watchlist *watchlist.Service
	enricher  Enricher

	news            *gocache.Cache
	refreshInterval time.Duration
	upgrader        websocket.Upgrader
}

func New(b Backend, sessions *session.Manager, wl *watchlist.Service, enricher Enricher, opts Options) *Handler {
	if opts.NewsTTL <= 0 {
		opts.NewsTTL = DefaultNewsTTL
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = watchlist.DefaultRefreshInterval
	}

	h := &Handler{
		backend:         b,
		sessions:        sessions,
		watchlist:       wl,
		enricher:        enricher,
		news:            gocache.New(opts.NewsTTL, 2*opts.NewsTTL),
		refreshInterval: opts.RefreshInterval,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(opts.AllowedOrigins) > 0 {
		allowed := make(map[string]bool, len(opts.AllowedOrigins))
		for _, o := range opts.AllowedOrigins {
			allowed[o] = true
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		}
	}
	return h
}

func ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, models.Response{Success: true, Message: message, Data: data})
}

// owner keys the watchlist board: the user when signed in, else the
// browser's session, else the shared read-only guest board.
func owner(s *session.Session) string {
	switch {
	case s.Authenticated(time.Now()):
		return watchlist.UserOwner(s.UserID)
	case s != nil:
		return watchlist.VisitorOwner(s.ID)
	default:
		return watchlist.GuestOwner
	}
}

// backendFailure turns a backend error into the error rendered to the
// browser. The backend's own message is passed through verbatim.
func backendFailure(err error) error {
	var be *backend.Error
	if errors.As(err, &be) {
		status := be.StatusCode
		if status >= http.StatusInternalServerError || status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return customerrors.New(status, be.Message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Error().Err(err).Msg("backend unreachable")
	return customerrors.New(http.StatusBadGateway, "Backend service is unavailable")
}

// gatedFailure handles a backend error on a view behind RequireSession. A
// refused token is dropped and the browser goes back to the login page.
func (h *Handler) gatedFailure(c *gin.Context, s *session.Session, err error) {
	if backend.IsUnauthorized(err) {
		if logoutErr := h.sessions.Logout(c.Request.Context(), s); logoutErr != nil {
			log.Error().Err(logoutErr).Str("session", s.ID).Msg("clear rejected credential")
		}
		c.Redirect(http.StatusFound, middleware.LoginPath)
		c.Abort()
		return
	}
	_ = c.Error(backendFailure(err))
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
