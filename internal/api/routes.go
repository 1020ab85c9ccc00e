package api

import (
	"net/http"

	"github.com/JaimeStill/sibyl/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Chat.Handler(runtime.RequestTimeout).Routes(),
		domain.Prompts.Handler().Routes(),
	)
}
