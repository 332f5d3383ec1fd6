package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer wraps an http.Server with lifecycle methods.
type HTTPServer struct {
	server   *http.Server
	certFile string
	keyFile  string
	useTLS   bool
}

// Option configures the HTTPServer.
type Option func(*HTTPServer)

// WithTLS enables TLS using the given certificate and key files.
func WithTLS(certFile, keyFile string) Option {
	return func(s *HTTPServer) {
		s.certFile = certFile
		s.keyFile = keyFile
		s.useTLS = true
	}
}

// NewHTTPServer creates an HTTPServer for the given handler and address.
func NewHTTPServer(handler http.Handler, addr string, opts ...Option) *HTTPServer {
	s := &HTTPServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start serves on the configured address. It blocks until Stop is called
// or the listener fails.
func (s *HTTPServer) Start() error {
	var err error
	if s.useTLS {
		err = s.server.ListenAndServeTLS(s.certFile, s.keyFile)
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *HTTPServer) Address() string {
	return s.server.Addr
}
