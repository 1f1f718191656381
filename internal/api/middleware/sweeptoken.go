package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WaitlistService/internal/api/handlers"
)

// SweepAuth защищает служебные маршруты общим секретом в заголовке
// X-Sweep-Token. Сравнение за константное время, чтобы не утекала
// длина совпавшего префикса.
func SweepAuth(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				handlers.RespondForbidden(w, "служебные маршруты отключены")
				return
			}

			provided := r.Header.Get("X-Sweep-Token")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				handlers.RespondUnauthorized(w, "неверный служебный токен")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
