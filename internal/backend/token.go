package backend

import "context"

type tokenKey struct{}

// WithToken returns a context carrying the caller's bearer token.
// Handlers attach the token they received so upstream calls are made on
// the same user's behalf.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// ContextToken is a TokenSource that reads the token WithToken stored on
// the request context.  Requests whose context carries no token go out
// unauthenticated, which is what the public catalog endpoints expect.
type ContextToken struct{}

// Token returns the context-carried bearer token, or "".
func (ContextToken) Token(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}
