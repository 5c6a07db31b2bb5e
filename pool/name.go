package pool

import (
	"context"
	"math/rand"

	"hellok8s"
)

// NameService serves names from a fixed pool.
type NameService struct {
	pool     hellok8s.NamePool
	identity string

	// Returns a non-negative random int in [0,n). Defaults to rand.Intn,
	// which is safe for concurrent use. Can be mocked for tests.
	Intn func(n int) int
}

// NewNameService returns a new instance of NameService for the given pool and
// instance identity. Returns EINVALID if the pool is empty.
func NewNameService(pool hellok8s.NamePool, identity string) (*NameService, error) {
	if pool.Len() == 0 {
		return nil, hellok8s.Errorf(hellok8s.EINVALID, "Name pool must not be empty.")
	}
	return &NameService{
		pool:     pool,
		identity: identity,
		Intn:     rand.Intn,
	}, nil
}

// HelloWorld returns the fixed hello world message.
func (s *NameService) HelloWorld(_ context.Context) (string, error) {
	return hellok8s.HelloWorldMessage, nil
}

// GetName picks a name from the pool uniformly at random with replacement.
func (s *NameService) GetName(_ context.Context) (*hellok8s.Name, error) {
	return &hellok8s.Name{
		Name: s.pool.Name(s.Intn(s.pool.Len())),
		Host: s.identity,
	}, nil
}
