// HTTP-хендлеры регистрации, подтверждения email, входа и сброса пароля
package api

import (
	"net/http"
	"time"

	"github.com/gabrieldeam/sysane/internal/server/middleware"
	"github.com/gabrieldeam/sysane/internal/server/models"
	"github.com/gabrieldeam/sysane/internal/server/service"
	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
)

// RegisterRequest описывает тело запроса регистрации пользователя.
type RegisterRequest struct {
	Name                  string  `json:"name" example:"Ana Souza"`
	Email                 string  `json:"email" example:"ana@empresa.com"`
	Phone                 string  `json:"phone" example:"+55 11 90000-0000"`
	CompanyName           *string `json:"company_name,omitempty" example:"Empresa"`
	CompanySize           *string `json:"company_size,omitempty" example:"11-50"`
	WorkArea              string  `json:"work_area" example:"TI"`
	Department            string  `json:"department" example:"Vendas"`
	Password              string  `json:"password" example:"Abcdef12"`
	AcceptedPrivacyPolicy bool    `json:"accepted_privacy_policy" example:"true"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmailRequest — тело запросов, где нужен только email (можно передать и в query).
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest — тело запроса сброса пароля (можно передать и в query).
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// EmailExistsResponse — ответ проверки email.
type EmailExistsResponse struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

// IsEmailVerifiedResponse — ответ проверки подтверждения email.
type IsEmailVerifiedResponse struct {
	IsVerified bool   `json:"is_verified"`
	Message    string `json:"message"`
}

// UserResponse — профиль текущего пользователя. Хэш пароля не отдаётся.
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

// Register обрабатывает регистрацию пользователя.
//
// @Summary      Register user
// @Description  Creates an unverified account and emails a verification link. Does not log the user in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration form"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse "DuplicateEmail or ValidationError"
// @Failure      500 {object} ErrorResponse "NotificationError (account is created, call resend)"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		h.writeServiceError(w, "register", err, nil)
		return
	}

	in := service.RegisterInput{
		Name:                  req.Name,
		Email:                 req.Email,
		Phone:                 req.Phone,
		CompanyName:           req.CompanyName,
		WorkArea:              models.WorkArea(req.WorkArea),
		Department:            models.Department(req.Department),
		Password:              req.Password,
		AcceptedPrivacyPolicy: req.AcceptedPrivacyPolicy,
	}
	if req.CompanySize != nil {
		size := models.CompanySize(*req.CompanySize)
		in.CompanySize = &size
	}

	if err := h.Svc.Auth.Register(r.Context(), in); err != nil {
		h.writeServiceError(w, "register", err, nil)
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Usuário registrado. Verifique seu email para ativar a conta."})
}

// VerifyEmail подтверждает email по токену из письма и выставляет cookie сессии.
//
// @Summary      Verify email
// @Description  Redeems the verification token, marks the email verified and sets the access_token session cookie.
// @Tags         auth
// @Produce      json
// @Param        token query string true "Verification token"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse "Expired, Malformed or AlreadyVerified"
// @Failure      404 {object} ErrorResponse "NotFound"
// @Router       /auth/verify-email [get]
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Svc.Auth.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.writeServiceError(w, "verify email", err, map[string]string{
			"Expired": "Token expirado. Solicite um novo email de verificação.",
		})
		return
	}

	h.setSessionCookie(w, sess)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Email verificado com sucesso"})
}

// ForgotPassword отправляет письмо со ссылкой сброса пароля.
//
// @Summary      Forgot password
// @Description  Emails a password reset link. Email may be passed as a query parameter or JSON body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        email query string false "User email"
// @Param        request body EmailRequest false "User email"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse "ValidationError"
// @Failure      404 {object} ErrorResponse "NotFound"
// @Failure      500 {object} ErrorResponse "NotificationError"
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email, err := h.emailParam(w, r)
	if err == nil {
		err = h.Svc.Auth.ForgotPassword(r.Context(), email)
	}
	if err != nil {
		h.writeServiceError(w, "forgot password", err, nil)
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Email para redefinição de senha enviado com sucesso."})
}

// ResetPassword меняет пароль по токену из письма и выставляет cookie сессии.
//
// @Summary      Reset password
// @Description  Redeems the reset token, replaces the password and sets the access_token session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token query string false "Reset token"
// @Param        new_password query string false "New password"
// @Param        request body ResetPasswordRequest false "Token and new password"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse "Expired, Malformed or ValidationError"
// @Failure      404 {object} ErrorResponse "NotFound"
// @Router       /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ResetPasswordRequest{Token: q.Get("token"), NewPassword: q.Get("new_password")}
	if req.Token == "" || req.NewPassword == "" {
		var body ResetPasswordRequest
		if err := h.decodeJSON(w, r, &body, true); err != nil {
			h.writeServiceError(w, "reset password", err, nil)
			return
		}
		if req.Token == "" {
			req.Token = body.Token
		}
		if req.NewPassword == "" {
			req.NewPassword = body.NewPassword
		}
	}

	sess, err := h.Svc.Auth.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		h.writeServiceError(w, "reset password", err, map[string]string{
			"Expired": "Token expirado. Solicite um novo email de redefinição de senha.",
		})
		return
	}

	h.setSessionCookie(w, sess)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Senha redefinida com sucesso"})
}

// Login обрабатывает вход пользователя и выставляет cookie сессии.
//
// @Summary      Login
// @Description  Checks email and password and sets the access_token session cookie. Email verification is not required.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse "ValidationError"
// @Failure      401 {object} ErrorResponse "InvalidCredentials"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		h.writeServiceError(w, "login", err, nil)
		return
	}

	sess, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, "login", err, nil)
		return
	}

	h.setSessionCookie(w, sess)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Login realizado com sucesso"})
}

// EmailExists сообщает, зарегистрирован ли email.
//
// @Summary      Email exists
// @Tags         auth
// @Produce      json
// @Param        email query string true "Email"
// @Success      200 {object} EmailExistsResponse
// @Failure      400 {object} ErrorResponse "ValidationError"
// @Router       /auth/email-exists [get]
func (h *Handler) EmailExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.Svc.Auth.EmailExists(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.writeServiceError(w, "email exists", err, nil)
		return
	}

	msg := "Email não está cadastrado."
	if exists {
		msg = "Email já está cadastrado."
	}
	WriteJSON(w, http.StatusOK, EmailExistsResponse{Exists: exists, Message: msg})
}

// IsEmailVerified сообщает, подтверждён ли email.
//
// @Summary      Is email verified
// @Tags         auth
// @Produce      json
// @Param        email query string true "Email"
// @Success      200 {object} IsEmailVerifiedResponse
// @Failure      404 {object} ErrorResponse "NotFound"
// @Router       /auth/is-email-verified [get]
func (h *Handler) IsEmailVerified(w http.ResponseWriter, r *http.Request) {
	verified, err := h.Svc.Auth.IsEmailVerified(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.writeServiceError(w, "is email verified", err, nil)
		return
	}

	msg := "Email não verificado."
	if verified {
		msg = "Email verificado."
	}
	WriteJSON(w, http.StatusOK, IsEmailVerifiedResponse{IsVerified: verified, Message: msg})
}

// ResendVerification повторно отправляет письмо подтверждения.
//
// @Summary      Resend verification email
// @Description  Re-sends the verification link. Already verified accounts get an acknowledgment and no email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        email query string false "User email"
// @Param        request body EmailRequest false "User email"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse "NotFound"
// @Failure      500 {object} ErrorResponse "NotificationError"
// @Router       /auth/resend-verification-email [post]
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	email, err := h.emailParam(w, r)
	var res service.ResendResult
	if err == nil {
		res, err = h.Svc.Auth.ResendVerification(r.Context(), email)
	}
	if err != nil {
		h.writeServiceError(w, "resend verification", err, nil)
		return
	}

	msg := "Email de verificação reenviado com sucesso."
	if res.AlreadyVerified {
		msg = "Email já foi verificado."
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// Me возвращает профиль пользователя текущей сессии.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UserResponse
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      404 {object} ErrorResponse "NotFound"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeServiceError(w, "me", serr.ErrUnauthorized, nil)
		return
	}

	u, err := h.Svc.Auth.CurrentUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "me", err, nil)
		return
	}

	WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// Logout сбрасывает cookie сессии. Сам токен остаётся валидным до истечения срока.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logout realizado com sucesso"})
}

// emailParam берёт email из query, иначе из JSON-тела. Пустой email отклонит сервис.
func (h *Handler) emailParam(w http.ResponseWriter, r *http.Request) (string, error) {
	if email := r.URL.Query().Get("email"); email != "" {
		return email, nil
	}
	var req EmailRequest
	if err := h.decodeJSON(w, r, &req, true); err != nil {
		return "", err
	}
	return req.Email, nil
}

func toUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		CompanyName: u.CompanyName,
		WorkArea:    string(u.WorkArea),
		Department:  string(u.Department),
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
	}
	if u.CompanySize != nil {
		size := string(*u.CompanySize)
		resp.CompanySize = &size
	}
	return resp
}
