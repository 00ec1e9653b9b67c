package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gabrieldeam/sysane/internal/server/api"
	"github.com/gabrieldeam/sysane/internal/server/config"
	"github.com/gabrieldeam/sysane/internal/server/crypto"
	"github.com/gabrieldeam/sysane/internal/server/middleware"
	"github.com/gabrieldeam/sysane/internal/server/models"
	"github.com/gabrieldeam/sysane/internal/server/service"
	svcmocks "github.com/gabrieldeam/sysane/internal/server/service/mocks"
	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
	"github.com/gabrieldeam/sysane/internal/shared/logger"
)

const testKey = "supersecretkeysupersecretkey123456"

type testEnv struct {
	h        *api.Handler
	users    *svcmocks.MockUsersRepo
	notifier *svcmocks.MockNotifier
	health   *svcmocks.MockHealthRepo
	tokens   *crypto.TokenService
	hasher   *crypto.PasswordHasher
}

// newTestEnv создаёт Handler с моками хранилища и почты и настоящими токенами/хэшером.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := svcmocks.NewMockUsersRepo(ctrl)
	notifier := svcmocks.NewMockNotifier(ctrl)
	health := svcmocks.NewMockHealthRepo(ctrl)

	cfg := &config.Config{
		App:  config.AppConfig{FrontendURL: "https://app.sysane.com"},
		Auth: config.AuthConfig{TokenTTLMinutes: 30, JWT: config.JWTConfig{Algorithm: "HS256", SigningKey: testKey}},
	}

	tokens, err := crypto.NewTokenService(crypto.JWTConfig{Algorithm: "HS256", SigningKey: testKey})
	require.NoError(t, err)
	// bcrypt с минимальной стоимостью, чтобы тесты были быстрыми
	hasher, err := crypto.NewPasswordHasher(crypto.HasherBcrypt, crypto.Argon2Params{}, 4)
	require.NoError(t, err)

	svc := service.NewServices(
		service.Repositories{Users: users},
		service.Infra{Notifier: notifier, Tokens: tokens, Hasher: hasher},
		cfg,
	)
	h := api.NewHandler(svc, logger.NewNop(), middleware.NewSessionVerifier(tokens), api.Options{
		SecureCookie: true,
		MaxBodyBytes: 1 << 10,
		Health:       health,
	})

	return &testEnv{h: h, users: users, notifier: notifier, health: health, tokens: tokens, hasher: hasher}
}

func (e *testEnv) user(t *testing.T, password string, verified bool) *models.User {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Name:         "Ana",
		Email:        "ana@x.com",
		Phone:        "+55 11 90000-0000",
		WorkArea:     models.WorkAreaIT,
		Department:   models.DepartmentIT,
		PasswordHash: hash,
		IsVerified:   verified,
		CreatedAt:    time.Now(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.MessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Message
}

// sessionCookie проверяет атрибуты cookie сессии и возвращает токен без "Bearer ".
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name != middleware.CookieName {
			continue
		}
		require.True(t, c.HttpOnly)
		require.True(t, c.Secure)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
		require.Equal(t, 30*60, c.MaxAge)
		require.True(t, strings.HasPrefix(c.Value, "Bearer "), c.Value)
		return strings.TrimPrefix(c.Value, "Bearer ")
	}
	t.Fatalf("cookie %s not set", middleware.CookieName)
	return ""
}

func registerRequest() api.RegisterRequest {
	size := string(models.CompanySize11To50)
	return api.RegisterRequest{
		Name:                  "Ana",
		Email:                 "Ana@X.com",
		Phone:                 "+55 11 90000-0000",
		CompanySize:           &size,
		WorkArea:              string(models.WorkAreaIT),
		Department:            string(models.DepartmentSales),
		Password:              "Abcdef12",
		AcceptedPrivacyPolicy: true,
	}
}

// --- register ---

func TestHandler_Register_BadJSON(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()
	e.h.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "ValidationError", decodeError(t, rec).Error)
}

func TestHandler_Register_Success(t *testing.T) {
	e := newTestEnv(t)
	id := uuid.New()

	e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(nil, serr.ErrNotFound)
	e.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) (*models.User, error) {
		require.Equal(t, models.DepartmentSales, u.Department)
		require.NotNil(t, u.CompanySize)
		require.Equal(t, models.CompanySize11To50, *u.CompanySize)
		cp := *u
		cp.ID = id
		return &cp, nil
	})
	e.notifier.EXPECT().Send(gomock.Any(), "ana@x.com", "Ana", gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _, actionURL string) error {
			require.True(t, strings.HasPrefix(actionURL, "https://app.sysane.com/auth/verify-email?token="))
			return nil
		})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", jsonBody(t, registerRequest()))
	req.Header.Set(api.ContentType, api.JsonContentType)
	rec := httptest.NewRecorder()
	e.h.Register(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Usuário registrado. Verifique seu email para ativar a conta.", decodeMessage(t, rec))
	// регистрация не логинит
	require.Empty(t, rec.Result().Cookies())
}

func TestHandler_Register_Duplicate(t *testing.T) {
	e := newTestEnv(t)
	e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(e.user(t, "Abcdef12", false), nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", jsonBody(t, registerRequest()))
	rec := httptest.NewRecorder()
	e.h.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "DuplicateEmail", decodeError(t, rec).Error)
}

func TestHandler_Register_Validation(t *testing.T) {
	e := newTestEnv(t)

	in := registerRequest()
	in.AcceptedPrivacyPolicy = false
	req := httptest.NewRequest(http.MethodPost, "/auth/register", jsonBody(t, in))
	rec := httptest.NewRecorder()
	e.h.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	require.Equal(t, "ValidationError", resp.Error)
	require.Contains(t, resp.Message, "accepted_privacy_policy")
}

func TestHandler_Register_NotificationFailed(t *testing.T) {
	e := newTestEnv(t)

	e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(nil, serr.ErrNotFound)
	e.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) (*models.User, error) {
		cp := *u
		cp.ID = uuid.New()
		return &cp, nil
	})
	e.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	req := httptest.NewRequest(http.MethodPost, "/auth/register", jsonBody(t, registerRequest()))
	rec := httptest.NewRecorder()
	e.h.Register(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "NotificationError", decodeError(t, rec).Error)
}

func TestHandler_Register_BodyTooLarge(t *testing.T) {
	e := newTestEnv(t)

	in := registerRequest()
	in.Name = strings.Repeat("a", 4<<10)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", jsonBody(t, in))
	rec := httptest.NewRecorder()
	e.h.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "ValidationError", decodeError(t, rec).Error)
}

// --- verify email ---

func TestHandler_VerifyEmail_OK(t *testing.T) {
	e := newTestEnv(t)
	u := e.user(t, "Abcdef12", false)

	token, err := e.tokens.Issue(u.ID.String(), 30*time.Minute)
	require.NoError(t, err)

	e.users.EXPECT().FindByID(gomock.Any(), u.ID).Return(u, nil)
	e.users.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, saved *models.User) error {
		require.True(t, saved.IsVerified)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/verify-email?token="+url.QueryEscape(token), nil)
	rec := httptest.NewRecorder()
	e.h.VerifyEmail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sess := sessionCookie(t, rec)
	sub, err := e.tokens.Verify(sess)
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), sub)
	require.Equal(t, "Email verificado com sucesso", decodeMessage(t, rec))
}

func TestHandler_VerifyEmail_Expired(t *testing.T) {
	e := newTestEnv(t)

	past := e.tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	token, err := past.Issue(uuid.NewString(), 30*time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify-email?token="+url.QueryEscape(token), nil)
	rec := httptest.NewRecorder()
	e.h.VerifyEmail(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	require.Equal(t, "Expired", resp.Error)
	require.Equal(t, "Token expirado. Solicite um novo email de verificação.", resp.Message)
}

func TestHandler_VerifyEmail_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(e *testEnv) string
		wantCode int
		wantKind string
	}{
		{
			name:     "malformed",
			setup:    func(e *testEnv) string { return "garbage" },
			wantCode: http.StatusBadRequest,
			wantKind: "Malformed",
		},
		{
			name:     "missing token",
			setup:    func(e *testEnv) string { return "" },
			wantCode: http.StatusBadRequest,
			wantKind: "Malformed",
		},
		{
			name: "unknown user",
			setup: func(e *testEnv) string {
				id := uuid.New()
				e.users.EXPECT().FindByID(gomock.Any(), id).Return(nil, serr.ErrNotFound)
				tok, _ := e.tokens.Issue(id.String(), time.Minute)
				return tok
			},
			wantCode: http.StatusNotFound,
			wantKind: "NotFound",
		},
		{
			name: "already verified",
			setup: func(e *testEnv) string {
				u := e.user(t, "Abcdef12", true)
				e.users.EXPECT().FindByID(gomock.Any(), u.ID).Return(u, nil)
				tok, _ := e.tokens.Issue(u.ID.String(), time.Minute)
				return tok
			},
			wantCode: http.StatusBadRequest,
			wantKind: "AlreadyVerified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			token := tt.setup(e)

			req := httptest.NewRequest(http.MethodGet, "/auth/verify-email?token="+url.QueryEscape(token), nil)
			rec := httptest.NewRecorder()
			e.h.VerifyEmail(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			require.Equal(t, tt.wantKind, decodeError(t, rec).Error)
			require.Empty(t, rec.Result().Cookies())
		})
	}
}

// --- forgot / reset password ---

func TestHandler_ForgotPassword_QueryAndBody(t *testing.T) {
	for name, build := range map[string]func() *http.Request{
		"query": func() *http.Request {
			return httptest.NewRequest(http.MethodPost, "/auth/forgot-password?email=ana@x.com", nil)
		},
		"body": func() *http.Request {
			return httptest.NewRequest(http.MethodPost, "/auth/forgot-password", strings.NewReader(`{"email":"ana@x.com"}`))
		},
	} {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t)
			u := e.user(t, "Abcdef12", false)

			e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(u, nil)
			e.notifier.EXPECT().Send(gomock.Any(), u.Email, u.Name, gomock.Any()).DoAndReturn(
				func(_ context.Context, _, _, actionURL string) error {
					require.True(t, strings.HasPrefix(actionURL, "https://app.sysane.com/auth/reset-password?token="))
					return nil
				})

			rec := httptest.NewRecorder()
			e.h.ForgotPassword(rec, build())

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			require.Equal(t, "Email para redefinição de senha enviado com sucesso.", decodeMessage(t, rec))
		})
	}
}

func TestHandler_ForgotPassword_Errors(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.EXPECT().FindByEmail(gomock.Any(), "nobody@x.com").Return(nil, serr.ErrNotFound)

		req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password?email=nobody@x.com", nil)
		rec := httptest.NewRecorder()
		e.h.ForgotPassword(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "NotFound", decodeError(t, rec).Error)
	})

	t.Run("no email", func(t *testing.T) {
		e := newTestEnv(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", nil)
		rec := httptest.NewRecorder()
		e.h.ForgotPassword(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "ValidationError", decodeError(t, rec).Error)
	})
}

func TestHandler_ResetPassword_OK(t *testing.T) {
	e := newTestEnv(t)
	u := e.user(t, "OldPass123", true)

	token, err := e.tokens.Issue(u.ID.String(), 30*time.Minute)
	require.NoError(t, err)

	e.users.EXPECT().FindByID(gomock.Any(), u.ID).Return(u, nil)
	e.users.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, saved *models.User) error {
		ok, err := e.hasher.Verify("NewPass456", saved.PasswordHash)
		require.NoError(t, err)
		require.True(t, ok)
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password",
		jsonBody(t, api.ResetPasswordRequest{Token: token, NewPassword: "NewPass456"}))
	rec := httptest.NewRecorder()
	e.h.ResetPassword(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sessionCookie(t, rec)
	require.Equal(t, "Senha redefinida com sucesso", decodeMessage(t, rec))
}

func TestHandler_ResetPassword_Errors(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		e := newTestEnv(t)
		past := e.tokens.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
		token, err := past.Issue(uuid.NewString(), time.Minute)
		require.NoError(t, err)

		q := url.Values{"token": {token}, "new_password": {"NewPass456"}}
		req := httptest.NewRequest(http.MethodPost, "/auth/reset-password?"+q.Encode(), nil)
		rec := httptest.NewRecorder()
		e.h.ResetPassword(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		require.Equal(t, "Expired", resp.Error)
		require.Equal(t, "Token expirado. Solicite um novo email de redefinição de senha.", resp.Message)
	})

	t.Run("weak password", func(t *testing.T) {
		e := newTestEnv(t)
		token, err := e.tokens.Issue(uuid.NewString(), time.Minute)
		require.NoError(t, err)

		q := url.Values{"token": {token}, "new_password": {"short"}}
		req := httptest.NewRequest(http.MethodPost, "/auth/reset-password?"+q.Encode(), nil)
		rec := httptest.NewRecorder()
		e.h.ResetPassword(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "ValidationError", decodeError(t, rec).Error)
	})

	t.Run("malformed", func(t *testing.T) {
		e := newTestEnv(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/reset-password",
			jsonBody(t, api.ResetPasswordRequest{Token: "x.y.z", NewPassword: "NewPass456"}))
		rec := httptest.NewRecorder()
		e.h.ResetPassword(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Malformed", decodeError(t, rec).Error)
	})
}

// --- login ---

func TestHandler_Login_OK(t *testing.T) {
	e := newTestEnv(t)
	// неподтверждённый email не мешает входу
	u := e.user(t, "Abcdef12", false)
	e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(u, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		jsonBody(t, api.LoginRequest{Email: " ANA@x.com", Password: "Abcdef12"}))
	rec := httptest.NewRecorder()
	e.h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sub, err := e.tokens.Verify(sessionCookie(t, rec))
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), sub)
	require.Equal(t, "Login realizado com sucesso", decodeMessage(t, rec))
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(e.user(t, "Abcdef12", true), nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			jsonBody(t, api.LoginRequest{Email: "ana@x.com", Password: "Wrong1234"}))
		rec := httptest.NewRecorder()
		e.h.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "InvalidCredentials", decodeError(t, rec).Error)
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("unknown email", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.EXPECT().FindByEmail(gomock.Any(), "nobody@x.com").Return(nil, serr.ErrNotFound)

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			jsonBody(t, api.LoginRequest{Email: "nobody@x.com", Password: "Abcdef12"}))
		rec := httptest.NewRecorder()
		e.h.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "InvalidCredentials", decodeError(t, rec).Error)
	})
}

// --- email checks ---

func TestHandler_EmailExists(t *testing.T) {
	e := newTestEnv(t)
	gomock.InOrder(
		e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(e.user(t, "Abcdef12", false), nil),
		e.users.EXPECT().FindByEmail(gomock.Any(), "nobody@x.com").Return(nil, serr.ErrNotFound),
	)

	for _, tc := range []struct {
		email  string
		exists bool
		msg    string
	}{
		{"ana@x.com", true, "Email já está cadastrado."},
		{"nobody@x.com", false, "Email não está cadastrado."},
	} {
		req := httptest.NewRequest(http.MethodGet, "/auth/email-exists?email="+tc.email, nil)
		rec := httptest.NewRecorder()
		e.h.EmailExists(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.EmailExistsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, tc.exists, resp.Exists)
		require.Equal(t, tc.msg, resp.Message)
	}
}

func TestHandler_IsEmailVerified(t *testing.T) {
	e := newTestEnv(t)
	e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(e.user(t, "Abcdef12", true), nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/is-email-verified?email=ana@x.com", nil)
	rec := httptest.NewRecorder()
	e.h.IsEmailVerified(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.IsEmailVerifiedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.IsVerified)
	require.Equal(t, "Email verificado.", resp.Message)
}

func TestHandler_IsEmailVerified_NotFound(t *testing.T) {
	e := newTestEnv(t)
	e.users.EXPECT().FindByEmail(gomock.Any(), "nobody@x.com").Return(nil, serr.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/auth/is-email-verified?email=nobody@x.com", nil)
	rec := httptest.NewRecorder()
	e.h.IsEmailVerified(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NotFound", decodeError(t, rec).Error)
}

// --- resend ---

func TestHandler_ResendVerification(t *testing.T) {
	t.Run("sends email", func(t *testing.T) {
		e := newTestEnv(t)
		u := e.user(t, "Abcdef12", false)
		e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(u, nil)
		e.notifier.EXPECT().Send(gomock.Any(), u.Email, u.Name, gomock.Any()).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/resend-verification-email",
			jsonBody(t, api.EmailRequest{Email: "ana@x.com"}))
		rec := httptest.NewRecorder()
		e.h.ResendVerification(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Email de verificação reenviado com sucesso.", decodeMessage(t, rec))
	})

	t.Run("already verified", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(e.user(t, "Abcdef12", true), nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/resend-verification-email?email=ana@x.com", nil)
		rec := httptest.NewRecorder()
		e.h.ResendVerification(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Email já foi verificado.", decodeMessage(t, rec))
	})

	t.Run("notification failed", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.EXPECT().FindByEmail(gomock.Any(), "ana@x.com").Return(e.user(t, "Abcdef12", false), nil)
		e.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(serr.ErrNotification)

		req := httptest.NewRequest(http.MethodPost, "/auth/resend-verification-email?email=ana@x.com", nil)
		rec := httptest.NewRecorder()
		e.h.ResendVerification(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "NotificationError", decodeError(t, rec).Error)
	})
}

// --- me / logout / health ---

func TestHandler_Me(t *testing.T) {
	e := newTestEnv(t)
	u := e.user(t, "Abcdef12", true)
	e.users.EXPECT().FindByID(gomock.Any(), u.ID).Return(u, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), u.ID))
	rec := httptest.NewRecorder()
	e.h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "password")

	var resp api.UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, u.ID.String(), resp.ID)
	require.Equal(t, u.Email, resp.Email)
	require.True(t, resp.IsVerified)
}

func TestHandler_Me_NoSession(t *testing.T) {
	e := newTestEnv(t)

	rec := httptest.NewRecorder()
	e.h.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized", decodeError(t, rec).Error)
}

func TestHandler_Logout_ClearsCookie(t *testing.T) {
	e := newTestEnv(t)

	rec := httptest.NewRecorder()
	e.h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, middleware.CookieName, cookies[0].Name)
	require.Equal(t, "", cookies[0].Value)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestHandler_Health(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		e := newTestEnv(t)
		e.health.EXPECT().Ping(gomock.Any()).Return(nil)

		rec := httptest.NewRecorder()
		e.h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("db down", func(t *testing.T) {
		e := newTestEnv(t)
		e.health.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		e.h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
	})
}
