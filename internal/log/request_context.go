package log

import (
	"context"
	"log/slog"
	"strings"
)

type requestContextKey struct{}

// RequestContext describes which command and resource an outgoing HTTP
// call belongs to, so wire logs can be correlated with user actions.
type RequestContext struct {
	CommandPath string
	Verb        string
	Resource    string
	Operation   string
}

// WithRequestContext merges the non-empty fields of update into ctx
func WithRequestContext(ctx context.Context, update RequestContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	current := RequestContextFrom(ctx)
	merge(&current.CommandPath, update.CommandPath)
	merge(&current.Verb, update.Verb)
	merge(&current.Resource, update.Resource)
	merge(&current.Operation, update.Operation)
	return context.WithValue(ctx, requestContextKey{}, current)
}

func RequestContextFrom(ctx context.Context) RequestContext {
	if ctx == nil {
		return RequestContext{}
	}
	rc, _ := ctx.Value(requestContextKey{}).(RequestContext)
	return rc
}

// RequestContextAttrs converts the context metadata to slog attributes,
// skipping empty values.
func RequestContextAttrs(ctx context.Context) []slog.Attr {
	rc := RequestContextFrom(ctx)
	attrs := make([]slog.Attr, 0, 4)
	for _, kv := range [][2]string{
		{"command_path", rc.CommandPath},
		{"command_verb", rc.Verb},
		{"resource", rc.Resource},
		{"operation", rc.Operation},
	} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			attrs = append(attrs, slog.String(kv[0], v))
		}
	}
	return attrs
}

func merge(target *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*target = v
	}
}
