package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"

	"hellok8s"
)

type NameEndpoints struct {
	HelloWorldEndpoint endpoint.Endpoint
	GetNameEndpoint    endpoint.Endpoint
}

// MakeNameServerEndpoints returns a NameEndpoints struct where each endpoint
// invokes the corresponding method on the provided service.
func MakeNameServerEndpoints(s hellok8s.NameService) NameEndpoints {
	return NameEndpoints{
		HelloWorldEndpoint: MakeHelloWorldEndpoint(s),
		GetNameEndpoint:    MakeGetNameEndpoint(s),
	}
}

func MakeHelloWorldEndpoint(s hellok8s.NameService) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		return s.HelloWorld(ctx)
	}
}

func MakeGetNameEndpoint(s hellok8s.NameService) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		return s.GetName(ctx)
	}
}

// MakeGreetEndpoint returns an endpoint via the passed service.
func MakeGreetEndpoint(s hellok8s.GreetingService) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		return s.Greet(ctx)
	}
}

// registerRoutes sets up handlers for all of the attached services. The
// health route is always present.
func (s *Server) registerRoutes() {
	opts := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(level.Error(s.Logger))),
	}

	s.router.HandleFunc("/healthz", handleHealth).Methods("GET")

	if s.NameService != nil {
		e := MakeNameServerEndpoints(s.NameService)

		s.router.Handle("/helloWorld", httptransport.NewServer(
			e.HelloWorldEndpoint,
			decodeEmptyRequest,
			encodeHelloWorldResponse,
			opts...,
		)).Methods("GET")

		s.router.Handle("/name", httptransport.NewServer(
			e.GetNameEndpoint,
			decodeEmptyRequest,
			encodeNameResponse,
			opts...,
		)).Methods("GET")
	}

	if s.GreetingService != nil {
		s.router.Handle("/", httptransport.NewServer(
			MakeGreetEndpoint(s.GreetingService),
			decodeEmptyRequest,
			encodeGreetingResponse,
			opts...,
		)).Methods("GET")
	}
}

func decodeEmptyRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}

func encodeHelloWorldResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	return encodeText(w, response.(string))
}

// encodeNameResponse writes the name as the body. The host header is only
// sent when the instance has an identity.
func encodeNameResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	name := response.(*hellok8s.Name)
	if name.Host != "" {
		w.Header().Set(hellok8s.HostHeader, name.Host)
	}
	return encodeText(w, name.Name)
}

func encodeGreetingResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	return encodeText(w, response.(*hellok8s.Greeting).String())
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
