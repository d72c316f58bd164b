package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"tablo-backend/internal/api"
	"tablo-backend/internal/api/endpoints"
	"tablo-backend/internal/api/middleware"
	"tablo-backend/internal/diag"
	"tablo-backend/internal/env"
	widgetservice "tablo-backend/internal/service/widget"
	"tablo-backend/internal/token"
)

func EmbedRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		service := newWidgetService(s)
		paths := endpoints.EmbedPaths{
			WidgetKeysPrefix: strings.TrimRight(prefix, "/") + "/embed/keys/",
		}
		embedEndpoints := endpoints.NewEmbedEndpoints(service, newDiagStore(), paths)

		mux.HandleFunc(prefix+"/embed/settings", s.MakeHTTPHandleFunc(embedEndpoints.EmbedSettings, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/embed/code", s.MakeHTTPHandleFunc(embedEndpoints.EmbedCode, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/embed/preview", s.MakeHTTPHandleFunc(embedEndpoints.EmbedPreview, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/embed/diagnostics", s.MakeHTTPHandleFunc(embedEndpoints.EmbedDiagnostics, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/embed/keys", s.MakeHTTPHandleFunc(embedEndpoints.WidgetKeys, middleware.ValidateUserJWT))
		mux.HandleFunc(prefix+"/embed/keys/", s.MakeHTTPHandleFunc(embedEndpoints.WidgetKeyByID, middleware.ValidateUserJWT))
	}
}

func newWidgetService(s *api.APIServer) *widgetservice.Service {
	issuer := token.NewIssuer(
		env.Get(env.SignerURL),
		env.Get(env.SignerAPIKey),
		signerTimeout(),
	)
	return widgetservice.New(s.Database(), issuer, env.GetOrDefault(env.WidgetBaseURL, "https://widget.tablo.app"))
}

func signerTimeout() time.Duration {
	ms, err := strconv.Atoi(env.GetOrDefault(env.SignerTimeoutMS, "5000"))
	if err != nil || ms <= 0 {
		ms = 5000
	}
	return time.Duration(ms) * time.Millisecond
}

func newDiagStore() diag.Store {
	client := redis.NewClient(&redis.Options{
		Addr:     env.Get(env.EventsRedisURL),
		Password: env.Get(env.EventsRedisPass),
		DB:       0,
	})
	return diag.NewRedisStore(client, 0)
}
