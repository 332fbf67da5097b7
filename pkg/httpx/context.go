package httpx

import "context"

// Principal is the authenticated caller for a request: either a user whose
// access token was verified, or a trusted internal service.
type Principal struct {
	UserID   string
	Email    string
	UserType string
	Internal bool
}

// InternalUserID is the synthetic user ID assigned to service-to-service
// callers authenticated by the shared internal key.
const InternalUserID = "internal-service"

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

func contextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFromContext returns the request principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}
