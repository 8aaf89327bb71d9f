package dfr

import (
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
)

// Server exposes Driver's RPC surface (spec §6) as a "dfr" JSON-RPC
// namespace, the same go-ethereum rpc.Server wiring
// internal/stc/rpcserver.Server uses for the "stc" namespace.
type Server struct {
	rpcServer *rpc.Server
	listener  net.Listener
	http      *http.Server
}

// NewServer binds addr and registers d under the "dfr" namespace.
// go-ethereum's reflection-based dispatch turns each exported Driver
// method (GetStateRoot, SimulateL1ToL2Call, ExecuteL1ToL2Call, ...)
// into dfr_getStateRoot, dfr_simulateL1ToL2Call, and so on.
func NewServer(addr string, d *Driver) (*Server, error) {
	rpcSrv := rpc.NewServer()
	if err := rpcSrv.RegisterName("dfr", d); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Server{
		rpcServer: rpcSrv,
		listener:  listener,
		http:      &http.Server{Handler: rpcSrv},
	}, nil
}

// Addr returns the bound listening address.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Serve blocks, serving JSON-RPC requests until Stop is called.
func (s *Server) Serve() error {
	if err := s.http.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the RPC server and its listener down.
func (s *Server) Stop() error {
	s.rpcServer.Stop()
	return s.listener.Close()
}
