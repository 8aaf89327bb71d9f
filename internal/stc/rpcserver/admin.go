package rpcserver

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/labstack/echo-contrib/echoprometheus"
	echo "github.com/labstack/echo/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/morkid/paginate"
	"gorm.io/gorm"

	"github.com/nativerollup/bridge/internal/chain"
	"github.com/nativerollup/bridge/internal/stc/store"
)

// Unregisterer is the one mutating operation the admin surface exposes:
// forcibly dropping a pre-registered response, for operator recovery
// from a bad registration (SPEC_FULL §D.1).
type Unregisterer interface {
	Unregister(key chain.Hash32) bool
}

// AdminServer is the echo-based operator surface sitting alongside the
// JSON-RPC view namespace: a JWT-gated unregister endpoint and a
// paginated read-only listing of registered responses, adapted from
// blob-aggregator/pkg/http/server.go's echo wiring.
type AdminServer struct {
	echo    *echo.Echo
	admin   Unregisterer
	db      *gorm.DB
	pg      paginate.Pagination
}

// NewAdminServer wires the admin HTTP surface. jwtSecret gates the
// mutating /admin/unregister route; the read-only /admin/responses
// listing is unauthenticated, matching spec §6's framing of debug
// listings as observability rather than privileged operations.
func NewAdminServer(admin Unregisterer, db *gorm.DB, jwtSecret []byte) *AdminServer {
	e := echo.New()
	e.Use(echoprometheus.NewMiddleware("stc_admin"))

	s := &AdminServer{echo: e, admin: admin, db: db, pg: paginate.New()}

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/admin/responses", s.listResponses)

	protected := e.Group("/admin", echojwt.WithConfig(echojwt.Config{SigningKey: jwtSecret}))
	protected.POST("/unregister/:key", s.unregister)

	return s
}

// ServeHTTP implements http.Handler.
func (s *AdminServer) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.echo.ServeHTTP(w, r) }

func (s *AdminServer) listResponses(c echo.Context) error {
	page := s.pg.With(s.db.Model(&store.ResponseRow{})).Request(c.Request()).Response(&[]store.ResponseRow{})
	return c.JSON(http.StatusOK, page)
}

func (s *AdminServer) unregister(c echo.Context) error {
	keyHex := c.Param("key")
	key, err := parseHash32(keyHex)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if !s.admin.Unregister(key) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no such registered response"})
	}
	return c.NoContent(http.StatusNoContent)
}

func parseHash32(s string) (chain.Hash32, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return chain.Hash32{}, err
	}
	if len(b) != len(chain.Hash32{}) {
		return chain.Hash32{}, fmt.Errorf("rpcserver: want %d byte key, got %d", len(chain.Hash32{}), len(b))
	}
	return chain.Hash32(b), nil
}
