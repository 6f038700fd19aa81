package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stocks-tracker-web/models"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "http://127.0.0.1:8000"

// Error is a non-2xx answer from the backend. Message is the backend's own
// text when it sent one.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err means the bearer token was refused.
func IsUnauthorized(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.StatusCode == http.StatusUnauthorized || be.StatusCode == http.StatusForbidden
	}
	return false
}

// Client talks to the auth, portfolio, suggestions and news endpoints.
type Client struct {
	client *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		})

	return &Client{client: client}
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var out models.LoginResponse
	resp, err := c.client.R().SetContext(ctx).SetBody(req).SetResult(&out).Post("/auth/login")
	if err := check(resp, err); err != nil {
		return models.LoginResponse{}, err
	}
	if out.Token == "" {
		return models.LoginResponse{}, &Error{StatusCode: resp.StatusCode(), Message: "login response carried no token"}
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.MessageResponse, error) {
	var out models.MessageResponse
	resp, err := c.client.R().SetContext(ctx).SetBody(req).SetResult(&out).Post("/auth/register")
	if err := check(resp, err); err != nil {
		return models.MessageResponse{}, err
	}
	return out, nil
}

func (c *Client) Portfolio(ctx context.Context, token string) ([]models.Holding, error) {
	var out struct {
		Stocks []models.Holding `json:"stocks"`
	}
	resp, err := c.client.R().SetContext(ctx).SetAuthToken(token).SetResult(&out).Get("/portfolio")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	if out.Stocks == nil {
		out.Stocks = []models.Holding{}
	}
	return out.Stocks, nil
}

func (c *Client) AddHolding(ctx context.Context, token string, h models.Holding) (models.MessageResponse, error) {
	var out models.MessageResponse
	resp, err := c.client.R().SetContext(ctx).SetAuthToken(token).SetBody(h).SetResult(&out).Post("/portfolio/add")
	if err := check(resp, err); err != nil {
		return models.MessageResponse{}, err
	}
	return out, nil
}

func (c *Client) DeleteHolding(ctx context.Context, token, symbol string) (models.MessageResponse, error) {
	var out models.MessageResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("symbol", symbol).
		SetResult(&out).
		Delete("/portfolio/delete/{symbol}")
	if err := check(resp, err); err != nil {
		return models.MessageResponse{}, err
	}
	return out, nil
}

func (c *Client) Suggestions(ctx context.Context, token string) ([]models.Suggestion, error) {
	var out struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	resp, err := c.client.R().SetContext(ctx).SetAuthToken(token).SetResult(&out).Get("/suggestions/smart")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	if out.Suggestions == nil {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: "No suggestions data received"}
	}
	return out.Suggestions, nil
}

func (c *Client) News(ctx context.Context) ([]models.NewsArticle, error) {
	var out struct {
		News []models.NewsArticle `json:"news"`
	}
	resp, err := c.client.R().SetContext(ctx).SetResult(&out).Get("/api/news")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	if out.News == nil {
		return nil, &Error{StatusCode: resp.StatusCode(), Message: "No news data found"}
	}
	return out.News, nil
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	if resp.IsSuccess() {
		return nil
	}
	return &Error{StatusCode: resp.StatusCode(), Message: message(resp)}
}

// message pulls the human text out of an error body. FastAPI sends
// "detail" as a string, or as a list of {msg} for validation failures.
func message(resp *resty.Response) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Msg     string          `json:"msg"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if len(body.Detail) > 0 {
			var detail string
			if json.Unmarshal(body.Detail, &detail) == nil && detail != "" {
				return detail
			}
			var items []struct {
				Msg string `json:"msg"`
			}
			if json.Unmarshal(body.Detail, &items) == nil && len(items) > 0 && items[0].Msg != "" {
				return items[0].Msg
			}
		}
		if body.Message != "" {
			return body.Message
		}
		if body.Msg != "" {
			return body.Msg
		}
	}
	return http.StatusText(resp.StatusCode())
}
