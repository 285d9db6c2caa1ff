// Package reqctx carries request-scoped data through context.Context.
//
// All context keys are private unexported types to prevent collisions.
// Access is provided through type-safe getter and setter functions.
//
// Setting values (in HTTP middleware):
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: id})
//	ctx = reqctx.WithPrincipal(ctx, principal)
//
// Getting values (in services):
//
//	p := reqctx.PrincipalFromContext(ctx)
//	if p.Authenticated { ... }
//
// Contracts:
//
//   - RequestMeta is set by HTTP middleware for all requests
//   - Principal is set by the session gate for every request that passes it;
//     anonymous requests carry access.Anonymous()
//   - SessionID is set only when the principal was derived from a live session
package reqctx
