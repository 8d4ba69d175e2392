package storefront

import "context"

type currentPathKey struct{}

// WithCurrentPath records the storefront route the caller is acting from. The
// client uses it to build the login redirect on a 401.
func WithCurrentPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, currentPathKey{}, path)
}

// CurrentPath returns the route stored by WithCurrentPath, or "".
func CurrentPath(ctx context.Context) string {
	path, _ := ctx.Value(currentPathKey{}).(string)
	return path
}
