package confess

import "context"

type requestKeyCtx struct{}

// WithRequestKey attaches an idempotency key to ctx. A command carrying a key
// that already committed fails ErrDuplicateRequest without side effects.
func WithRequestKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, requestKeyCtx{}, key)
}

// RequestKey returns the idempotency key attached to ctx, if any.
func RequestKey(ctx context.Context) string {
	key, _ := ctx.Value(requestKeyCtx{}).(string)
	return key
}
