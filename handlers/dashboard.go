package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"stocks-tracker-web/customerrors"
	"stocks-tracker-web/middleware"
	"stocks-tracker-web/models"
	"stocks-tracker-web/validator"
	"stocks-tracker-web/watchlist"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

type searchInput struct {
	Symbol string `json:"symbol"`
}

// StreamMessage is what the dashboard socket pushes on connect and on every refresh.
type StreamMessage struct {
	Type      string             `json:"type"`
	Watchlist []models.StockView `json:"watchlist"`
}

func (h *Handler) Dashboard(c *gin.Context) {
	s := middleware.CurrentSession(c)

	views, err := h.watchlist.Board(c.Request.Context(), owner(s))
	if err != nil {
		_ = c.Error(err)
		return
	}
	var user string
	if s.Authenticated(time.Now()) {
		user = s.Username
	}
	ok(c, http.StatusOK, "", gin.H{
		"watchlist": views,
		"user":      user,
	})
}

func (h *Handler) Search(c *gin.Context) {
	var input searchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(customerrors.ErrMalformedRequest)
		return
	}
	symbol, err := validator.Symbol(input.Symbol)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// searching edits a board, so the browser needs a session of its own
	s, err := middleware.EnsureSession(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	views, err := h.watchlist.Search(c.Request.Context(), owner(s), symbol)
	if errors.Is(err, watchlist.ErrInvalidSymbol) {
		_ = c.Error(customerrors.ErrInvalidSymbol)
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"watchlist": views})
}

// Stream upgrades to a websocket that receives the board on connect and
// again on every refresh. The refresher lives exactly as long as the socket.
func (h *Handler) Stream(c *gin.Context) {
	board := owner(middleware.CurrentSession(c))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	var mu sync.Mutex
	send := func(kind string, views []models.StockView) error {
		mu.Lock()
		defer mu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(StreamMessage{Type: kind, Watchlist: views})
	}

	views, err := h.watchlist.Board(ctx, board)
	if err != nil {
		log.Warn().Err(err).Str("owner", board).Msg("initial board")
		return
	}
	if err := send("snapshot", views); err != nil {
		return
	}

	refresher := watchlist.NewRefresher(h.watchlist, board, h.refreshInterval, func(views []models.StockView) {
		if err := send("refresh", views); err != nil {
			log.Debug().Err(err).Str("owner", board).Msg("push refresh")
			cancel()
		}
	})
	if err := refresher.Start(ctx); err != nil {
		log.Error().Err(err).Msg("start refresher")
		return
	}
	defer refresher.Stop()

	// the client never sends anything useful; reading detects the close
	go func() {
		<-ctx.Done()
		_ = conn.SetReadDeadline(time.Now())
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				log.Debug().Err(err).Str("owner", board).Msg("stream closed")
			}
			return
		}
	}
}
