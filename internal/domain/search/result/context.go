package result

import "context"

type pageKey struct{}

// ContextWithPage stores the current page number in ctx.
func ContextWithPage(ctx context.Context, page int) context.Context {
	return context.WithValue(ctx, pageKey{}, page)
}

// PageFromContext returns the current page number, 1 when absent or invalid.
func PageFromContext(ctx context.Context) int {
	if p, ok := ctx.Value(pageKey{}).(int); ok && p > 0 {
		return p
	}
	return 1
}
