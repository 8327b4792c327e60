package http

import (
	"net/http"

	"timetable-export/internal/http/handlers"
)

type Router struct {
	mux *http.ServeMux
}

func NewRouter(exportHandler *handlers.ExportHandler, uploadHandler *handlers.UploadHandler) *Router {
	mux := http.NewServeMux()
	exportHandler.Register(mux)
	uploadHandler.Register(mux)

	return &Router{mux: mux}
}

func (r *Router) Handler() http.Handler {
	return r.mux
}
