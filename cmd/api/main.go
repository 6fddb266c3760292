// CampusCred placement portal backend entrypoint.
package main

import (
	"errors"
	"log"
	"net/http"

	"CampusCred-backend/internal/server"
)

// @title CampusCred API
// @version 1.0
// @description Campus placement portal backend: candidate matching, posting governance and placement analytics
// @BasePath /api/v1
func main() {
	srv := server.NewServer()

	log.Printf("Server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %s", err)
	}
}
