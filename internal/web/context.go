package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/thermodash/internal/core"
)

// withClient copies the client address and user agent into ctx so ingests
// record who uploaded them. RemoteAddr is already resolved by TrustedRealIP.
func withClient(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClient(ctx, clientIP(r), r.UserAgent())
}
