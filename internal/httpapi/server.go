// Package httpapi serves published definition snapshots over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/petrijr/flowgraph/internal/persistence"
	"github.com/petrijr/flowgraph/pkg/api"
)

// Server is a read-only HTTP API over a SnapshotStore.
type Server struct {
	app    *fiber.App
	store  persistence.SnapshotStore
	logger *slog.Logger
}

// DefinitionSummary is one entry of the definition listing.
type DefinitionSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Fingerprint string    `json:"fingerprint"`
	PublishedAt time.Time `json:"published_at"`
	Nodes       int       `json:"nodes"`
	Edges       int       `json:"edges"`
}

// New builds the API. A nil logger means slog.Default().
func New(store persistence.SnapshotStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		app:    fiber.New(fiber.Config{AppName: "flowgraph"}),
		store:  store,
		logger: logger,
	}
	s.routes()
	return s
}

// App exposes the underlying fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http api listening", slog.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the server, waiting for in-flight requests until ctx is
// done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(s.logRequests)

	s.app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Get("/definitions", s.listDefinitions)
	s.app.Get("/definitions/:name/versions", s.listVersions)
	s.app.Get("/definitions/:name/versions/:version", s.getSnapshot)
	s.app.Get("/definitions/:name/versions/:version/edges", s.getEdges)
}

func (s *Server) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("http_request",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Int("status", c.Response().StatusCode()),
		slog.Duration("duration", time.Since(start)),
	)
	return err
}

func (s *Server) listDefinitions(c fiber.Ctx) error {
	snaps, err := s.store.ListSnapshots(c.Context(), persistence.SnapshotFilter{Name: c.Query("name")})
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]DefinitionSummary, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, DefinitionSummary{
			ID:          snap.ID,
			Name:        snap.Name,
			Version:     snap.Version,
			Fingerprint: snap.Fingerprint,
			PublishedAt: snap.PublishedAt,
			Nodes:       len(snap.Nodes),
			Edges:       len(snap.Edges),
		})
	}
	return c.JSON(out)
}

func (s *Server) listVersions(c fiber.Ctx) error {
	name := c.Params("name")
	versions, err := s.store.ListVersions(c.Context(), name)
	if err != nil {
		return s.fail(c, err)
	}
	if len(versions) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "definition not found"})
	}
	return c.JSON(fiber.Map{"name": name, "versions": versions})
}

func (s *Server) getSnapshot(c fiber.Ctx) error {
	snap, err := s.lookup(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(snap)
}

func (s *Server) getEdges(c fiber.Ctx) error {
	snap, err := s.lookup(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"name":    snap.Name,
		"version": snap.Version,
		"edges":   snap.RenderEdges(),
	})
}

func (s *Server) lookup(c fiber.Ctx) (*api.Snapshot, error) {
	return s.store.GetSnapshot(c.Context(), c.Params("name"), c.Params("version"))
}

func (s *Server) fail(c fiber.Ctx, err error) error {
	if errors.Is(err, persistence.ErrSnapshotNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "definition not found"})
	}
	s.logger.Error("http_request_failed",
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
