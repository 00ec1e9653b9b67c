// В этом файле описаны методы клиента для работы с эндпоинтами /auth:
// регистрация, подтверждение email, вход, сброс пароля и проверки email.
package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// RegisterRequest описывает тело запроса регистрации пользователя.
type RegisterRequest struct {
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone"`
	CompanyName           *string `json:"company_name,omitempty"`
	CompanySize           *string `json:"company_size,omitempty"`
	WorkArea              string  `json:"work_area"`
	Department            string  `json:"department"`
	Password              string  `json:"password"`
	AcceptedPrivacyPolicy bool    `json:"accepted_privacy_policy"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmailRequest — тело запросов, где нужен только email.
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest — тело запроса сброса пароля.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// MessageResponse — ответ сервера с сообщением для пользователя.
type MessageResponse struct {
	Message string `json:"message"`
}

// EmailExistsResponse — ответ /auth/email-exists.
type EmailExistsResponse struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

// IsEmailVerifiedResponse — ответ /auth/is-email-verified.
type IsEmailVerifiedResponse struct {
	IsVerified bool   `json:"is_verified"`
	Message    string `json:"message"`
}

// UserResponse — профиль текущего пользователя.
type UserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CompanyName *string   `json:"company_name,omitempty"`
	CompanySize *string   `json:"company_size,omitempty"`
	WorkArea    string    `json:"work_area"`
	Department  string    `json:"department"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

// HealthResponse — ответ /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Register регистрирует пользователя. Сессию не выдаёт: сначала нужно подтвердить email.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (MessageResponse, error) {
	var resp MessageResponse
	err := c.PostJSON(ctx, "/auth/register", req, &resp, "")
	return resp, err
}

// VerifyEmail подтверждает email по токену из письма и возвращает токен сессии.
func (c *Client) VerifyEmail(ctx context.Context, token string) (MessageResponse, string, error) {
	var resp MessageResponse
	session, err := c.do(ctx, http.MethodGet, "/auth/verify-email", url.Values{"token": {token}}, nil, &resp, "")
	return resp, session, err
}

// ForgotPassword запрашивает письмо со ссылкой сброса пароля.
func (c *Client) ForgotPassword(ctx context.Context, email string) (MessageResponse, error) {
	var resp MessageResponse
	err := c.PostJSON(ctx, "/auth/forgot-password", EmailRequest{Email: email}, &resp, "")
	return resp, err
}

// ResetPassword меняет пароль по токену из письма и возвращает токен сессии.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (MessageResponse, string, error) {
	var resp MessageResponse
	session, err := c.do(ctx, http.MethodPost, "/auth/reset-password", nil,
		ResetPasswordRequest{Token: token, NewPassword: newPassword}, &resp, "")
	return resp, session, err
}

// Login выполняет вход и возвращает токен сессии из cookie.
func (c *Client) Login(ctx context.Context, email, password string) (MessageResponse, string, error) {
	var resp MessageResponse
	session, err := c.do(ctx, http.MethodPost, "/auth/login", nil,
		LoginRequest{Email: email, Password: password}, &resp, "")
	return resp, session, err
}

// Logout сообщает серверу о выходе. Токен на сервере не отзывается.
func (c *Client) Logout(ctx context.Context) (MessageResponse, error) {
	var resp MessageResponse
	err := c.PostJSON(ctx, "/auth/logout", nil, &resp, "")
	return resp, err
}

// EmailExists проверяет, зарегистрирован ли email.
func (c *Client) EmailExists(ctx context.Context, email string) (EmailExistsResponse, error) {
	var resp EmailExistsResponse
	err := c.GetJSON(ctx, "/auth/email-exists", url.Values{"email": {email}}, &resp, "")
	return resp, err
}

// IsEmailVerified проверяет, подтверждён ли email.
func (c *Client) IsEmailVerified(ctx context.Context, email string) (IsEmailVerifiedResponse, error) {
	var resp IsEmailVerifiedResponse
	err := c.GetJSON(ctx, "/auth/is-email-verified", url.Values{"email": {email}}, &resp, "")
	return resp, err
}

// ResendVerification повторно отправляет письмо подтверждения.
func (c *Client) ResendVerification(ctx context.Context, email string) (MessageResponse, error) {
	var resp MessageResponse
	err := c.PostJSON(ctx, "/auth/resend-verification-email", EmailRequest{Email: email}, &resp, "")
	return resp, err
}

// Me запрашивает профиль пользователя по токену сессии.
func (c *Client) Me(ctx context.Context, accessToken string) (UserResponse, error) {
	var resp UserResponse
	err := c.GetJSON(ctx, "/auth/me", nil, &resp, accessToken)
	return resp, err
}

// Health опрашивает /healthz. Недоступная база даёт *APIError со статусом 503.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.GetJSON(ctx, "/healthz", nil, &resp, "")
	return resp, err
}
