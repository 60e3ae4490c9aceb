// пакет middleware содержит общие для маршрутизаторов
// промежуточные обработчики и функции записи ответов
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInternal = errors.New("internal server error")

type ctxKey int

const (
	requestID ctxKey = iota
)

// ResponseWriter запоминает код и длину ответа, а также
// внутреннюю ошибку обработчика для журнала запросов.
type ResponseWriter struct {
	http.ResponseWriter
	length, status int
	internalErr    error
}

func (w *ResponseWriter) WriteHeader(status int) {
	w.ResponseWriter.WriteHeader(status)
	w.status = status
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.length += n
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return n, err
}

// SetInternalError сохраняет ошибку для журнала, если w - [*ResponseWriter].
func SetInternalError(w http.ResponseWriter, err error) {
	if rw, ok := w.(*ResponseWriter); ok {
		rw.internalErr = err
	}
}

// RequestIDFrom возвращает id запроса из контекста.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestID).(string)
	return id
}

// RequestID извлекает id запроса функцией extract.
// В случае если id отсутствует, id генерируется.
// Далее id добавляется в контекст запроса.
func RequestID(extract func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := extract(r)
			if rid == "" {
				rid = uuid.NewString()
			}
			ctx := context.WithValue(r.Context(), requestID, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromQuery берёт id запроса из параметра "request-id".
func FromQuery(r *http.Request) string {
	return r.URL.Query().Get("request-id")
}

// FromHeader берёт id запроса из заголовка X-Request-ID.
func FromHeader(r *http.Request) string {
	return r.Header.Get("X-Request-ID")
}

// WideEventLog собирает и регистрирует информацию о полученном запросе.
func WideEventLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wideWriter := &ResponseWriter{ResponseWriter: w}

			next.ServeHTTP(wideWriter, r)

			addr, _, _ := net.SplitHostPort(r.RemoteAddr)
			logger.Info("request received",
				zap.String("request_id", RequestIDFrom(r.Context())),
				zap.Int("status_code", wideWriter.status),
				zap.Int("response_length", wideWriter.length),
				zap.Int64("content_length", r.ContentLength),
				zap.String("method", r.Method),
				zap.String("proto", r.Proto),
				zap.String("remote_addr", addr),
				zap.String("uri", r.RequestURI),
				zap.String("user_agent", r.UserAgent()),
				zap.Error(wideWriter.internalErr),
			)
		})
	}
}

// Closer считывает и закрывает тело запроса
// для повторного использования TCP-соединения.
func Closer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	})
}

// JSONHeaders задает заголовок JSON для всех ответов.
func JSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// SecHeaders устанавливает строгие заголовки безопасности для всех ответов.
func SecHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "0")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; form-action 'self'; frame-ancestors 'none'")
		w.Header().Set("Server", "")
		next.ServeHTTP(w, r)
	})
}

// WriteJSONError пишет ошибку в JSON. Текст ошибки 500
// заменяется на [ErrInternal], исходная ошибка попадает в журнал.
func WriteJSONError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(code)
	SetInternalError(w, err)
	if code == http.StatusInternalServerError {
		err = ErrInternal
	}
	msg := map[string]string{"error": err.Error()}
	_ = json.NewEncoder(w).Encode(&msg)
}

func WriteJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
