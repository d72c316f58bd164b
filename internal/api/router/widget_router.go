package router

import (
	"net/http"

	"tablo-backend/internal/api"
	"tablo-backend/internal/api/endpoints"
	"tablo-backend/internal/preview"
)

func WidgetPublicRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		service := newWidgetService(s)
		widgetEndpoints := endpoints.NewWidgetEndpoints(service, newDiagStore(), preview.Publish)

		mux.HandleFunc(prefix+"/widget/boot", s.MakeHTTPHandleFunc(widgetEndpoints.WidgetBoot))
		mux.HandleFunc(prefix+"/widget/events", s.MakeHTTPHandleFunc(widgetEndpoints.WidgetEvents))
	}
}
