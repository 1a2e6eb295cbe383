package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	// HeaderUserID заголовок с ID аутентифицированного пациента.
	// Проставляется API-шлюзом после проверки токена
	HeaderUserID = "X-User-ID"

	// HeaderAdminToken заголовок административного токена
	HeaderAdminToken = "X-Admin-Token"
)

const (
	msgUnauthorized      = "требуется аутентификация"
	msgAdminUnauthorized = "требуется административный доступ"
)

type ctxKey string

const userIDKey ctxKey = "auth_user_id"

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// GetUserID извлекает ID пациента, положенный Auth middleware
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// Auth проверяет наличие корректного X-User-ID и кладет его в контекст.
// Запросы без заголовка получают 401
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderUserID)
			if raw == "" {
				logger.Warn("Auth: missing %s header: %s %s", HeaderUserID, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("Auth: malformed %s header %q: %s %s", HeaderUserID, raw, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth проверяет административный токен.
// Сравнение константное по времени
func AdminAuth(adminToken string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderAdminToken)
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				logger.Warn("AdminAuth: invalid admin token: %s %s", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgAdminUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
