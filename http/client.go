package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"

	"hellok8s"
)

// NameClient is a hellok8s.NameService backed by a remote name provider.
// The request context governs the outbound call, so cancelling it aborts the
// call and releases its connection.
type NameClient struct {
	helloWorld endpoint.Endpoint
	getName    endpoint.Endpoint
}

// NewNameClient returns a client for the name provider at baseURL, which is
// usually a service-discovery hostname such as "http://name-service". If
// client is nil then http.DefaultClient is used.
func NewNameClient(baseURL string, client *http.Client) (*NameClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, hellok8s.Errorf(hellok8s.EINVALID, "Invalid name service URL: %s", err)
	} else if u.Scheme == "" || u.Host == "" {
		return nil, hellok8s.Errorf(hellok8s.EINVALID, "Name service URL must be absolute: %q", baseURL)
	}

	opts := []httptransport.ClientOption{
		httptransport.ClientBefore(setRequestID),
	}
	if client != nil {
		opts = append(opts, httptransport.SetClient(client))
	}

	return &NameClient{
		helloWorld: httptransport.NewClient(
			http.MethodGet,
			withPath(u, "/helloWorld"),
			encodeEmptyRequest,
			decodeHelloWorldResponse,
			opts...,
		).Endpoint(),
		getName: httptransport.NewClient(
			http.MethodGet,
			withPath(u, "/name"),
			encodeEmptyRequest,
			decodeNameResponse,
			opts...,
		).Endpoint(),
	}, nil
}

// HelloWorld fetches the provider's fixed greeting.
func (c *NameClient) HelloWorld(ctx context.Context) (string, error) {
	resp, err := c.helloWorld(ctx, nil)
	if err != nil {
		return "", err
	}
	return resp.(string), nil
}

// GetName fetches a random name and the identity of the replica that served it.
// Returns a MissingHeaderError if the response has no host header.
func (c *NameClient) GetName(ctx context.Context) (*hellok8s.Name, error) {
	resp, err := c.getName(ctx, nil)
	if err != nil {
		return nil, err
	}
	return resp.(*hellok8s.Name), nil
}

// withPath returns a copy of u with p appended to its path.
func withPath(u *url.URL, p string) *url.URL {
	other := *u
	other.Path = strings.TrimSuffix(u.Path, "/") + p
	return &other
}

// setRequestID forwards the inbound request ID to the provider.
func setRequestID(ctx context.Context, r *http.Request) context.Context {
	if id := hellok8s.RequestIDFromContext(ctx); id != "" {
		r.Header.Set(hellok8s.RequestIDHeader, id)
	}
	return ctx
}

func encodeEmptyRequest(_ context.Context, _ *http.Request, _ interface{}) error {
	return nil
}

func decodeHelloWorldResponse(_ context.Context, resp *http.Response) (interface{}, error) {
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	return string(body), nil
}

func decodeNameResponse(_ context.Context, resp *http.Response) (interface{}, error) {
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	hosts := resp.Header.Values(hellok8s.HostHeader)
	if len(hosts) == 0 {
		return nil, &hellok8s.MissingHeaderError{Header: hellok8s.HostHeader}
	}
	return &hellok8s.Name{Name: string(body), Host: hosts[0]}, nil
}

// readBody returns the full body of a 2xx response. Any other status is
// reported as a plain error, which callers surface as an internal error.
func readBody(resp *http.Response) ([]byte, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("name service %s %s: unexpected status %d", resp.Request.Method, resp.Request.URL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read name service response: %w", err)
	}
	return body, nil
}
