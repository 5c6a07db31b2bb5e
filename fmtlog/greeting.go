package fmtlog

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"

	"hellok8s"
)

func GreetingLoggingMiddleware(logger log.Logger) hellok8s.GreetingMiddleware {
	return func(next hellok8s.GreetingService) hellok8s.GreetingService {
		return &greetingLoggingMiddleware{
			next,
			logger,
		}
	}
}

type greetingLoggingMiddleware struct {
	next   hellok8s.GreetingService
	logger log.Logger
}

func (mw *greetingLoggingMiddleware) Greet(ctx context.Context) (greeting *hellok8s.Greeting, err error) {
	defer func(begin time.Time) {
		var s string
		if greeting != nil {
			s = greeting.String()
		}
		mw.logger.Log("method", "Greet", "request_id", hellok8s.RequestIDFromContext(ctx), "greeting", s, "took", time.Since(begin), "err", err)
	}(time.Now())

	return mw.next.Greet(ctx)
}
