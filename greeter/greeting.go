package greeter

import (
	"context"

	"hellok8s"
)

// GreetingService composes greetings from names served by a NameService.
type GreetingService struct {
	names hellok8s.NameService
}

// NewGreetingService returns a new instance of GreetingService backed by names.
func NewGreetingService(names hellok8s.NameService) *GreetingService {
	return &GreetingService{names: names}
}

// Greet fetches one name and composes the greeting. The error from the name
// service, if any, is returned as is.
func (s *GreetingService) Greet(ctx context.Context) (*hellok8s.Greeting, error) {
	name, err := s.names.GetName(ctx)
	if err != nil {
		return nil, err
	}
	return &hellok8s.Greeting{Name: name.Name, Host: name.Host}, nil
}
