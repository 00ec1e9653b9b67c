// Package api содержит HTTP-клиент для взаимодействия с сервером Sysane.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для отправки JSON-запросов с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ответах не 2xx возвращается *APIError с видом ошибки из тела ответа.
//   - Токен сессии берётся из cookie access_token ответа.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SessionCookie — имя cookie, в которой сервер отдаёт токен сессии.
const SessionCookie = "access_token"

// Client реализует HTTP-клиент для общения с сервером Sysane.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// insecure отключает проверку TLS сертификата. Только для локальной разработки
// с самоподписанным сертификатом.
func NewClient(baseURL string, insecure bool) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // только для dev
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: tr,
		},
	}
}

// APIError — ошибочный ответ сервера.
type APIError struct {
	Status  int    `json:"-"`
	Kind    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	switch {
	case e.Kind != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Kind != "":
		return e.Kind
	default:
		return fmt.Sprintf("http %d", e.Status)
	}
}

// IsKind сообщает, что err — ответ сервера с видом ошибки kind.
func IsKind(err error, kind string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// readAPIError читает тело ошибочного ответа сервера.
// Если тело не JSON, оно берётся как сообщение целиком.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)
	apiErr := &APIError{Status: res.StatusCode}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Kind == "" {
		apiErr.Kind = ""
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = res.Status
		}
	}
	return apiErr
}

// decodeJSONOrOK декодирует JSON из r в resp. Пустое тело не ошибка.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// do выполняет запрос и возвращает токен сессии из cookie ответа (если есть).
//
// Параметры:
//   - query: параметры строки запроса, может быть nil;
//   - req: тело для сериализации в JSON. nil — без тела и без Content-Type;
//   - resp: куда декодировать JSON-ответ. nil — тело не декодируется;
//   - authToken: если непустой, добавляется Authorization: Bearer <token>.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, req, resp any, authToken string) (string, error) {
	var body io.Reader
	if req != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return "", err
		}
		body = &buf
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	r, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return "", err
	}
	r.Header.Set("Accept", "application/json")
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", readAPIError(res)
	}

	if err := decodeJSONOrOK(res.Body, resp); err != nil {
		return "", err
	}
	return sessionFromCookies(res.Cookies()), nil
}

// sessionFromCookies достаёт токен из cookie access_token="Bearer <token>".
func sessionFromCookies(cookies []*http.Cookie) string {
	for _, ck := range cookies {
		if ck.Name != SessionCookie || ck.MaxAge < 0 {
			continue
		}
		v := strings.TrimSpace(ck.Value)
		if tok, ok := strings.CutPrefix(v, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return v
	}
	return ""
}

// PostJSON выполняет POST-запрос, сериализуя req в JSON, и декодирует ответ в resp.
func (c *Client) PostJSON(ctx context.Context, path string, req, resp any, authToken string) error {
	_, err := c.do(ctx, http.MethodPost, path, nil, req, resp, authToken)
	return err
}

// GetJSON выполняет GET-запрос с параметрами query и декодирует ответ в resp.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, resp any, authToken string) error {
	_, err := c.do(ctx, http.MethodGet, path, query, nil, resp, authToken)
	return err
}
