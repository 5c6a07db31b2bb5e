package fmtlog

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"

	"hellok8s"
)

func NameLoggingMiddleware(logger log.Logger) hellok8s.NameMiddleware {
	return func(next hellok8s.NameService) hellok8s.NameService {
		return &nameLoggingMiddleware{
			next,
			logger,
		}
	}
}

type nameLoggingMiddleware struct {
	next   hellok8s.NameService
	logger log.Logger
}

func (mw *nameLoggingMiddleware) HelloWorld(ctx context.Context) (msg string, err error) {
	defer func(begin time.Time) {
		mw.logger.Log("method", "HelloWorld", "request_id", hellok8s.RequestIDFromContext(ctx), "took", time.Since(begin), "err", err)
	}(time.Now())

	return mw.next.HelloWorld(ctx)
}

func (mw *nameLoggingMiddleware) GetName(ctx context.Context) (name *hellok8s.Name, err error) {
	defer func(begin time.Time) {
		var n, host string
		if name != nil {
			n, host = name.Name, name.Host
		}
		mw.logger.Log("method", "GetName", "request_id", hellok8s.RequestIDFromContext(ctx), "name", n, "host", host, "took", time.Since(begin), "err", err)
	}(time.Now())

	return mw.next.GetName(ctx)
}
