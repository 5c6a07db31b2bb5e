package http

import (
	"context"
	"expvar"
	"net"
	"net/http"
	"net/http/pprof"
	"net/url"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/acme/autocert"

	"hellok8s"
)

// ShutdownTimeout is the time given for outstanding requests to finish before shutdown.
const ShutdownTimeout = 1 * time.Second

// Server serves the name provider routes, the greeting caller route, or
// both, depending on which services are attached before Open.
type Server struct {
	ln      net.Listener
	server  *http.Server
	router  *mux.Router
	handler http.Handler

	// Bind address & domain for the server's listener.
	// If domain is specified, server is run on TLS using acme/autocert.
	Addr   string
	Domain string

	// Origins allowed to make cross-origin requests. Defaults to all.
	AllowedOrigins []string

	// Logger for transport errors & recovered panics.
	Logger log.Logger

	// Services
	NameService     hellok8s.NameService
	GreetingService hellok8s.GreetingService
}

func NewServer() *Server {
	s := &Server{
		router:         mux.NewRouter(),
		server:         &http.Server{},
		AllowedOrigins: []string{"*"},
		Logger:         log.NewNopLogger(),
	}

	// Our router is wrapped by another function handler to perform some
	// middleware-like tasks that cannot be performed by actual middleware.
	// This includes tagging each request with an ID.
	s.server.Handler = http.HandlerFunc(s.serveHTTP)

	return s
}

// UseTLS returns true if the domain is specified.
func (s *Server) UseTLS() bool {
	return s.Domain != ""
}

// Scheme returns the URL scheme for the server.
func (s *Server) Scheme() string {
	if s.UseTLS() {
		return "https"
	}
	return "http"
}

// Port returns the TCP port for the running server.
// This is useful in tests where we allocate a random port by using ":0".
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	scheme, port := s.Scheme(), s.Port()

	// Use localhost unless a domain is specified.
	domain := "localhost"
	if s.Domain != "" {
		domain = s.Domain
	}

	// Return without port if using standard ports.
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return (&url.URL{Scheme: scheme, Host: domain}).String()
	}
	return (&url.URL{Scheme: scheme, Host: net.JoinHostPort(domain, strconv.Itoa(port))}).String()
}

// Open registers the routes and begins serving in a separate goroutine.
func (s *Server) Open() (err error) {
	s.registerRoutes()

	// Allow CORS & recover from panics in handlers.
	s.handler = handlers.CORS(
		handlers.AllowedOrigins(s.AllowedOrigins),
		handlers.AllowedHeaders([]string{"Content-Type", hellok8s.RequestIDHeader}),
		handlers.AllowedMethods([]string{"GET", "HEAD", "OPTIONS"}),
		handlers.ExposedHeaders([]string{hellok8s.HostHeader, hellok8s.RequestIDHeader}),
	)(handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.Logger}),
	)(s.router))

	// Open a listener on our bind address.
	if s.Domain != "" {
		s.ln = autocert.NewListener(s.Domain)
	} else {
		if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
			return err
		}
	}

	// Begin serving requests on the listener. We use Serve() instead of
	// ListenAndServe() because it allows us to check for listen errors (such
	// as trying to use an already open port) synchronously.
	go s.server.Serve(s.ln)

	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	// Reuse the caller's request ID so a greeting and the name lookup behind
	// it share one ID across both services.
	id := r.Header.Get(hellok8s.RequestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	w.Header().Set(hellok8s.RequestIDHeader, id)
	r = r.WithContext(hellok8s.NewContextWithRequestID(r.Context(), id))

	// Delegate remaining HTTP handling to the gorilla router.
	s.handler.ServeHTTP(w, r)
}

// ListenAndServeTLSRedirect runs an HTTP server on port 80 to redirect users
// to the TLS-enabled port 443 server.
func ListenAndServeTLSRedirect(domain string) error {
	return http.ListenAndServe(":80", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://"+domain, http.StatusFound)
	}))
}

// ListenAndServeDebug runs an HTTP server with /debug endpoints (e.g. pprof, vars).
func ListenAndServeDebug(addr string) error {
	h := http.NewServeMux()
	h.Handle("/debug/vars", expvar.Handler())
	h.HandleFunc("/debug/pprof/", pprof.Index)
	h.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	h.HandleFunc("/debug/pprof/profile", pprof.Profile)
	h.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	h.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return http.ListenAndServe(addr, h)
}
