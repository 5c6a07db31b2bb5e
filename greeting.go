package hellok8s

import (
	"context"
	"fmt"
)

// Greeting represents a greeting composed from a name fetched from the NameService.
type Greeting struct {
	Name string `json:"name"`
	Host string `json:"host"`
}

// String returns the greeting in the form "Hello {name} from {host}".
func (g *Greeting) String() string {
	return fmt.Sprintf("Hello %s from %s", g.Name, g.Host)
}

// GreetingService represents the greeting caller.
type GreetingService interface {
	// Fetches a name from the NameService and composes a greeting.
	// Errors from the NameService are returned unchanged.
	Greet(ctx context.Context) (*Greeting, error)
}

// GreetingMiddleware describes a service (as opposed to endpoint) middleware for the GreetingService.
type GreetingMiddleware func(service GreetingService) GreetingService
