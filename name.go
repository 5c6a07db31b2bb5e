package hellok8s

import "context"

// HostHeader is the response header carrying the identity of the replica
// that produced a name.
const HostHeader = "k8s-host"

// HelloWorldMessage is the fixed body returned by NameService.HelloWorld.
const HelloWorldMessage = "Hello World!!"

// NamePool is a fixed, ordered list of candidate names. A NamePool built
// with NewNamePool is never empty and never changes after construction.
type NamePool struct {
	names []string
}

// NewNamePool returns a pool holding a copy of names.
// Returns EINVALID if names is empty or contains a blank entry.
func NewNamePool(names ...string) (NamePool, error) {
	if len(names) == 0 {
		return NamePool{}, Errorf(EINVALID, "Name pool must not be empty.")
	}
	for i, name := range names {
		if name == "" {
			return NamePool{}, Errorf(EINVALID, "Name pool entry %d is blank.", i)
		}
	}
	return NamePool{names: append([]string(nil), names...)}, nil
}

// DefaultNamePool returns the pool served when no other is configured.
func DefaultNamePool() NamePool {
	return NamePool{names: []string{"Paul", "John", "Ringo", "George"}}
}

// Len returns the number of names in the pool.
func (p NamePool) Len() int { return len(p.names) }

// Name returns the name at index i.
func (p NamePool) Name(i int) string { return p.names[i] }

// Names returns a copy of the names in pool order.
func (p NamePool) Names() []string {
	return append([]string(nil), p.names...)
}

// Contains returns true if name is a member of the pool.
func (p NamePool) Contains(name string) bool {
	for _, n := range p.names {
		if n == name {
			return true
		}
	}
	return false
}

// Name is a randomly chosen name along with the identity of the instance
// that chose it.
type Name struct {
	Name string `json:"name"`

	// Instance identity sent in the HostHeader. Blank if the instance has
	// no identity, in which case the header is omitted.
	Host string `json:"host"`
}

// NameService represents the name provider.
type NameService interface {
	// Returns HelloWorldMessage.
	HelloWorld(ctx context.Context) (string, error)

	// Returns a name picked uniformly at random from the pool, stamped with
	// the identity of the answering instance.
	GetName(ctx context.Context) (*Name, error)
}

// NameMiddleware describes a service (as opposed to endpoint) middleware for the NameService.
type NameMiddleware func(service NameService) NameService
