package rpcserver

import (
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
)

// Server hosts the "stc" JSON-RPC namespace over HTTP, using
// go-ethereum's own *rpc.Server rather than a hand-rolled JSON-RPC
// dispatcher.
type Server struct {
	rpcServer *rpc.Server
	listener  net.Listener
	http      *http.Server
}

// NewServer registers the view namespace and wraps it in an HTTP
// listener bound to addr.
func NewServer(addr string, ledger Ledger) (*Server, error) {
	rpcSrv := rpc.NewServer()
	if err := rpcSrv.RegisterName("stc", NewViewAPI(ledger)); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{Handler: rpcSrv}
	return &Server{rpcServer: rpcSrv, listener: listener, http: httpSrv}, nil
}

// Addr returns the bound listener address, useful when addr was
// "127.0.0.1:0" and the OS chose the port.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Serve blocks serving JSON-RPC requests until the listener is closed.
func (s *Server) Serve() error {
	err := s.http.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop closes the listener and releases the registered RPC service.
func (s *Server) Stop() error {
	s.rpcServer.Stop()
	return s.listener.Close()
}
