// Package visibility carries the per-request soft-delete visibility
// flag through context so data-access code can honor it without
// threading a parameter through every call signature.
package visibility

import "context"

type contextKey string

const includeDeletedContextKey contextKey = "include_deleted"

// WithIncludeDeleted returns a context whose data-access calls include
// soft-deleted rows when include is true. The scope travels with the
// context value, so goroutines spawned from it inherit the flag while
// unrelated requests keep their own.
func WithIncludeDeleted(ctx context.Context, include bool) context.Context {
	return context.WithValue(ctx, includeDeletedContextKey, include)
}

// IncludeDeleted reports the ambient flag. Outside any established
// scope soft-deleted rows are excluded.
func IncludeDeleted(ctx context.Context) bool {
	include, ok := ctx.Value(includeDeletedContextKey).(bool)
	return ok && include
}
