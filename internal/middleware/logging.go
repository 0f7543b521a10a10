package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LogAttrser is implemented by request and response messages that add
// key/value pairs to the RPC log line (partner counts, image size, ...).
type LogAttrser interface {
	LogAttrs() []any
}

// LoggingInterceptor returns a Connect interceptor that logs one line per RPC
// with the procedure, peer, duration, the attributes the request and response
// messages contribute, and the error code if the call failed. Client mistakes
// (invalid argument, not found, canceled) log at WARN, everything else at
// ERROR.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			attrs = appendMessageAttrs(attrs, req.Any())
			if err == nil {
				attrs = appendMessageAttrs(attrs, resp.Any())
				slog.Info("RPC ok", attrs...)
				return resp, nil
			}

			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				slog.Error("RPC error", append(attrs, "error", err)...)
				return resp, err
			}
			attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
			if clientFault(connectErr.Code()) {
				slog.Warn("RPC rejected", attrs...)
			} else {
				slog.Error("RPC error", attrs...)
			}
			return resp, err
		}
	}
}

func appendMessageAttrs(attrs []any, msg any) []any {
	if m, ok := msg.(LogAttrser); ok {
		return append(attrs, m.LogAttrs()...)
	}
	return attrs
}

func clientFault(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeCanceled:
		return true
	}
	return false
}
