package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hellok8s"
	"hellok8s/greeter"
	hkhttp "hellok8s/http"
)

// MustOpenCallerServer opens a greeting caller that fetches names from baseURL.
func MustOpenCallerServer(t *testing.T, baseURL string) *hkhttp.Server {
	t.Helper()
	client, err := hkhttp.NewNameClient(baseURL, nil)
	require.NoError(t, err)

	s := hkhttp.NewServer()
	s.GreetingService = greeter.NewGreetingService(client)
	return MustOpenServer(t, s)
}

// newProvider returns a stub provider whose /name route runs fn.
func newProvider(t *testing.T, fn http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/name", fn)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestNewNameClient_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "gs-spring-boot-k8s", "://bad"} {
		_, err := hkhttp.NewNameClient(u, nil)
		assert.Equal(t, hellok8s.EINVALID, hellok8s.ErrorCode(err), u)
	}
}

func TestNameClient(t *testing.T) {
	s := MustOpenNameServer(t, "pod-3")
	client, err := hkhttp.NewNameClient(s.URL()+"/", &http.Client{})
	require.NoError(t, err)

	msg, err := client.HelloWorld(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello World!!", msg)

	name, err := client.GetName(context.Background())
	require.NoError(t, err)
	assert.True(t, hellok8s.DefaultNamePool().Contains(name.Name))
	assert.Equal(t, "pod-3", name.Host)
}

func TestNameClient_FirstHeaderValue(t *testing.T) {
	ts := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add(hellok8s.HostHeader, "pod-1")
		w.Header().Add(hellok8s.HostHeader, "pod-2")
		_, _ = w.Write([]byte("John"))
	})
	client, err := hkhttp.NewNameClient(ts.URL, nil)
	require.NoError(t, err)

	name, err := client.GetName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &hellok8s.Name{Name: "John", Host: "pod-1"}, name)
}

func TestNameClient_MissingHeader(t *testing.T) {
	ts := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("John"))
	})
	client, err := hkhttp.NewNameClient(ts.URL, nil)
	require.NoError(t, err)

	_, err = client.GetName(context.Background())
	var mh *hellok8s.MissingHeaderError
	require.True(t, errors.As(err, &mh))
	assert.Equal(t, hellok8s.HostHeader, mh.Header)
}

func TestNameClient_Cancel(t *testing.T) {
	released := make(chan struct{})
	ts := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(released)
	})
	client, err := hkhttp.NewNameClient(ts.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.GetName(ctx)
	require.Error(t, err)
	assert.Error(t, ctx.Err())

	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("provider request was not cancelled")
	}
}

func TestCaller_Greet(t *testing.T) {
	requestIDs := make(chan string, 1)
	ts := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		requestIDs <- r.Header.Get(hellok8s.RequestIDHeader)
		w.Header().Set(hellok8s.HostHeader, "pod-7")
		_, _ = w.Write([]byte("Ringo"))
	})
	s := MustOpenCallerServer(t, ts.URL)

	resp, body := get(t, s.URL()+"/", http.Header{hellok8s.RequestIDHeader: {"req-9"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello Ringo from pod-7", body)
	assert.Equal(t, "req-9", <-requestIDs)
}

func TestCaller_EndToEnd(t *testing.T) {
	provider := MustOpenNameServer(t, "pod-5")
	s := MustOpenCallerServer(t, provider.URL())

	for i := 0; i < 10; i++ {
		resp, body := get(t, s.URL()+"/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var matched bool
		for _, n := range hellok8s.DefaultNamePool().Names() {
			matched = matched || body == "Hello "+n+" from pod-5"
		}
		assert.True(t, matched, "unexpected greeting %q", body)
	}
}

func TestCaller_Errors(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	tests := []struct {
		name    string
		baseURL func(t *testing.T) string
		status  int
		message string
	}{
		{
			name: "provider 500",
			baseURL: func(t *testing.T) string {
				return newProvider(t, func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set(hellok8s.HostHeader, "pod-7")
					http.Error(w, "boom", http.StatusInternalServerError)
				}).URL
			},
			status:  http.StatusInternalServerError,
			message: "Internal error.",
		},
		{
			name:    "connection refused",
			baseURL: func(t *testing.T) string { return closed.URL },
			status:  http.StatusInternalServerError,
			message: "Internal error.",
		},
		{
			name: "missing header",
			baseURL: func(t *testing.T) string {
				return newProvider(t, func(w http.ResponseWriter, r *http.Request) {
					_, _ = w.Write([]byte("Ringo"))
				}).URL
			},
			status:  http.StatusBadGateway,
			message: "missing k8s-host header in downstream response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustOpenCallerServer(t, tt.baseURL(t))

			resp, body := get(t, s.URL()+"/", nil)
			assert.Equal(t, tt.status, resp.StatusCode)

			var out hkhttp.ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(body), &out))
			assert.Equal(t, tt.message, out.Error)
		})
	}
}
