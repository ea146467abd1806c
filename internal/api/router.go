// Package api exposes the demand generator over REST.
package api

import (
	"github.com/gorilla/mux"

	"demand_generator/internal/generator"
)

// Server bundles the REST handlers around one generator.
type Server struct {
	gen *generator.Generator
}

func NewServer(gen *generator.Generator) *Server {
	return &Server{gen: gen}
}

// Router builds the route table. The caller mounts the WebSocket endpoint
// and static files alongside these routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/api/profiles", s.catalog).Methods("GET")
	r.HandleFunc("/api/profiles/electrical", s.electrical).Methods("POST")
	r.HandleFunc("/api/profiles/heat", s.heat).Methods("POST")
	r.HandleFunc("/api/profiles/vdi", s.vdi).Methods("POST")
	r.HandleFunc("/api/profiles/industrial", s.industrial).Methods("POST")

	return r
}
