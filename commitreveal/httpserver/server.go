// Package httpserver is the Commit-Reveal Wrapper's HTTP surface:
// /commit and /reveal (spec §4.5), adapted directly from bp/httpserver's
// echo + opts-struct-with-Validate wiring.
package httpserver

import (
	"context"
	"net/http"
	"os"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nativerollup/bridge/commitreveal"
	"github.com/nativerollup/bridge/internal/chain"
)

// Wrapper is the subset of commitreveal.Wrapper's behavior the HTTP
// layer drives.
type Wrapper interface {
	Commit(committer chain.Address, h chain.Hash32)
	RevealAndRegister(ctx context.Context, committer chain.Address, p commitreveal.Preimage) error
}

// Server is the Commit-Reveal Wrapper's HTTP front end.
type Server struct {
	wrapper Wrapper
	echo    *echo.Echo
}

// NewServerOpts configures NewServer.
type NewServerOpts struct {
	Wrapper Wrapper
	Echo    *echo.Echo
}

// Validate reports whether opts is complete enough to build a Server.
func (opts NewServerOpts) Validate() error {
	if opts.Echo == nil {
		return ErrNoHTTPFramework
	}
	if opts.Wrapper == nil {
		return ErrNoWrapper
	}
	return nil
}

// NewServer builds a Server and wires its middleware and routes.
func NewServer(opts NewServerOpts) (*Server, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	srv := &Server{wrapper: opts.Wrapper, echo: opts.Echo}
	srv.configureMiddleware()
	srv.configureRoutes()
	return srv, nil
}

// Start starts the HTTP server.
func (srv *Server) Start(address string) error { return srv.echo.Start(address) }

// Shutdown gracefully shuts the HTTP server down.
func (srv *Server) Shutdown(ctx context.Context) error { return srv.echo.Shutdown(ctx) }

// ServeHTTP implements http.Handler.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { srv.echo.ServeHTTP(w, r) }

// Health answers liveness probes.
func (srv *Server) Health(c echo.Context) error { return c.NoContent(http.StatusOK) }

func (srv *Server) returnError(c echo.Context, statusCode int, err error) error {
	return c.JSON(statusCode, map[string]string{"error": err.Error()})
}

func (srv *Server) configureMiddleware() {
	srv.echo.Use(middleware.RequestID())
	srv.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Output: os.Stdout}))
}

func (srv *Server) configureRoutes() {
	srv.echo.GET("/healthz", srv.Health)
	srv.echo.POST("/commit", srv.commit)
	srv.echo.POST("/reveal", srv.reveal)
}
