package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jalez/resident-committee-portal-sub005/src/repositories"
	"github.com/Jalez/resident-committee-portal-sub005/src/services/relationships"
)

// Server is the portal's relationship API surface.
type Server struct {
	logger              *slog.Logger
	server              *http.Server
	mux                 *http.ServeMux
	port                int
	relationshipService *relationships.RelationshipService
	receipts            *repositories.CachedRecordRepository
}

func NewServer(
	logger *slog.Logger,
	port int,
	relationshipService *relationships.RelationshipService,
	receipts *repositories.CachedRecordRepository,
) *Server {
	server := &Server{
		mux:                 http.NewServeMux(),
		port:                port,
		logger:              logger,
		relationshipService: relationshipService,
		receipts:            receipts,
	}

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      server.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	server.mux.HandleFunc("GET /v1/entities/{kind}/{id}/relationships", server.GetEntityRelationships)
	server.mux.HandleFunc("GET /v1/entities/{kind}/{id}/context", server.GetRelationshipContext)
	server.mux.HandleFunc("GET /v1/entities/{kind}/context", server.GetRelationshipContextForNew)
	server.mux.HandleFunc("GET /v1/transactions/{id}/controlled-fields", server.GetControlledTransactionFields)
	server.mux.HandleFunc("GET /v1/receipts/{year}", server.GetReceiptsByYear)
	server.mux.HandleFunc("POST /v1/relationships", server.LinkEntities)
	server.mux.HandleFunc("DELETE /v1/relationships", server.UnlinkEntities)

	return server
}

func (s *Server) Start() error {
	s.logger.Info("Server started", "port", s.port)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
