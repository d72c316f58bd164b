package router

import (
	"net/http"

	"tablo-backend/internal/api"
	"tablo-backend/internal/api/endpoints"
)

func PreviewRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		service := newWidgetService(s)
		previewEndpoints := endpoints.NewPreviewEndpoints(service, s.Handler())

		mux.HandleFunc(prefix+"/preview/stream", s.MakeHTTPHandleFunc(previewEndpoints.PreviewStream))
	}
}
