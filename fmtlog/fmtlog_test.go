package fmtlog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hellok8s"
	"hellok8s/fmtlog"
	"hellok8s/greeter"
	"hellok8s/pool"
)

type failingNameService struct{}

func (failingNameService) HelloWorld(_ context.Context) (string, error) {
	return "", errors.New("unreachable")
}

func (failingNameService) GetName(_ context.Context) (*hellok8s.Name, error) {
	return nil, errors.New("unreachable")
}

func TestNameLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	names, err := pool.NewNameService(hellok8s.DefaultNamePool(), "pod-7")
	require.NoError(t, err)
	names.Intn = func(int) int { return 2 }

	s := fmtlog.NameLoggingMiddleware(log.NewLogfmtLogger(&buf))(names)
	ctx := hellok8s.NewContextWithRequestID(context.Background(), "req-1")

	name, err := s.GetName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ringo", name.Name)
	assert.Contains(t, buf.String(), "method=GetName request_id=req-1 name=Ringo host=pod-7")
	assert.Contains(t, buf.String(), "err=null")

	buf.Reset()
	_, err = s.HelloWorld(ctx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "method=HelloWorld request_id=req-1")
}

func TestGreetingLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)

	s := fmtlog.GreetingLoggingMiddleware(logger)(greeter.NewGreetingService(failingNameService{}))
	greeting, err := s.Greet(context.Background())
	require.Error(t, err)
	assert.Nil(t, greeting)
	assert.Contains(t, buf.String(), "method=Greet")
	assert.Contains(t, buf.String(), "err=unreachable")
}
