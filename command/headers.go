package command

import "context"

type headersKey struct{}

// WithRequestHeaders attaches the caller's request headers to ctx
func WithRequestHeaders(ctx context.Context, headers map[string]string) context.Context {
	return context.WithValue(ctx, headersKey{}, headers)
}

// RequestHeaders returns the headers attached by WithRequestHeaders
func RequestHeaders(ctx context.Context) map[string]string {
	h, _ := ctx.Value(headersKey{}).(map[string]string)
	return h
}
