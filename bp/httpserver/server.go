// Package httpserver is BP's HTTP surface: /submit, /simulate and
// /status (spec §6), adapted directly from the teacher's blob-aggregator
// HTTP server (echo + go-cache + cyberhorsey error envelope) and rewired
// from its single queueProposal endpoint to these three.
package httpserver

import (
	"context"
	"net/http"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nativerollup/bridge/bp"
)

// Planner is the subset of bp.Planner's behavior the HTTP layer drives.
type Planner interface {
	Discover(ctx context.Context, root bp.IncomingCallRequest) (*bp.Plan, error)
	Register(ctx context.Context, plan *bp.Plan) error
}

// Broadcaster submits the already-registered transaction chain to L1.
type Broadcaster interface {
	Broadcast(ctx context.Context, plan *bp.Plan) (txHash string, err error)
}

// Server is BP's HTTP front end.
type Server struct {
	planner     Planner
	broadcaster Broadcaster
	echo        *echo.Echo
	statusCache *gocache.Cache
}

// NewServerOpts configures NewServer, the same opts-struct-with-Validate
// shape the teacher's NewServerOpts uses.
type NewServerOpts struct {
	Planner     Planner
	Broadcaster Broadcaster
	Echo        *echo.Echo
	CorsOrigins []string
}

// Validate reports whether opts is complete enough to build a Server.
func (opts NewServerOpts) Validate() error {
	if opts.Echo == nil {
		return ErrNoHTTPFramework
	}
	if opts.Planner == nil {
		return ErrNoPlanner
	}
	return nil
}

// NewServer builds a Server and wires its middleware and routes.
func NewServer(opts NewServerOpts) (*Server, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	srv := &Server{
		planner:     opts.Planner,
		broadcaster: opts.Broadcaster,
		echo:        opts.Echo,
		statusCache: gocache.New(5*time.Minute, 10*time.Minute),
	}

	corsOrigins := opts.CorsOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"*"}
	}
	srv.configureMiddleware(corsOrigins)
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

func logSkipper(c echo.Context) bool {
	switch c.Request().URL.Path {
	case "/healthz", "/metrics":
		return true
	default:
		return false
	}
}

func (srv *Server) configureMiddleware(corsOrigins []string) {
	srv.echo.Use(middleware.RequestID())
	srv.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: logSkipper,
		Format: `{"time":"${time_rfc3339_nano}","level":"INFO","message":{"id":"${id}","remote_ip":"${remote_ip}",` +
			`"host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}",` +
			`"response_status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}",` +
			`"bytes_in":${bytes_in},"bytes_out":${bytes_out}}}` + "\n",
		Output: os.Stdout,
	}))
	srv.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead},
	}))
}

func (srv *Server) configureRoutes() {
	srv.echo.GET("/healthz", srv.Health)
	srv.echo.GET("/", srv.Health)
	srv.echo.POST("/submit", srv.submit)
	srv.echo.POST("/simulate", srv.simulate)
	srv.echo.GET("/status/:roundID", srv.status)
}
