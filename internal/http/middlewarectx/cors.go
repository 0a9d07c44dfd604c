package middlewarectx

import (
	"net/http"
	"strings"

	"github.com/magabrotheeeer/alcateia-auth/internal/config"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// CORS проставляет заголовки кросс-доменного доступа на каждый ответ.
// Origin из списка разрешённых отражается как есть, иначе подставляется
// основной домен фронтенда. OPTIONS завершается сразу со статусом 200 без тела.
func CORS(cfg config.CORS) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := cfg.FrontendDomain
			if reqOrigin := r.Header.Get("Origin"); reqOrigin != "" {
				if _, ok := allowed[reqOrigin]; ok {
					origin = reqOrigin
				}
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
