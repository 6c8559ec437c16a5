package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/koya-pay/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	shellHandler := handlers.NewShellHandler(s.shell, s.logger)
	uploadHandler := handlers.NewUploadHandler(s.shell, s.logger)
	databaseHandler := handlers.NewDatabaseHandler(s.shell, s.logger)
	faceMatchHandler := handlers.NewFaceMatchHandler(s.shell, s.logger)
	cameraHandler := handlers.NewCameraHandler(s.shell, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)

		// Navigation
		r.Get("/screens", shellHandler.Screens)
		r.Get("/screen", shellHandler.Screen)
		r.Post("/navigate", shellHandler.Navigate)

		// Upload
		r.Post("/upload", uploadHandler.Upload)

		// Database
		r.Post("/database", databaseHandler.Append)
		r.Post("/database/reload", databaseHandler.Reload)

		// Face match and location update
		r.Post("/face-match", faceMatchHandler.Match)
		r.Get("/face-match", faceMatchHandler.Filter)
		r.Post("/face-match/retry", faceMatchHandler.Retry)
		r.Post("/face-match/{id}/location", faceMatchHandler.UpdateLocation)

		// Camera
		r.Post("/camera/start", cameraHandler.Start)
		r.Post("/camera/capture", cameraHandler.Capture)
		r.Post("/camera/use", cameraHandler.Use)
		r.Post("/camera/stop", cameraHandler.Stop)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}` + "\n"))
	})
}
