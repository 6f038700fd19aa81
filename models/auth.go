package models

// LoginRequest is the login form, forwarded as-is to the backend.
type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// LoginResponse is returned by the backend on a successful login.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Name    string `json:"name"`
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserID   string `json:"user_id"`
	Age      int    `json:"age"`
	Password string `json:"password"`
}

// MessageResponse is a backend acknowledgement. Some endpoints answer with
// "message", others with "msg".
type MessageResponse struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

func (m MessageResponse) Text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Msg
}
