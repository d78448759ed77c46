package httpcontext

import (
	"github.com/valyala/fasthttp"

	"github.com/setuponce/backend/domain"
)

const (
	scopeValue = "scope"
	tokenValue = "token"
)

// SetScope stores the authenticated scope on the request.
func SetScope(ctx *fasthttp.RequestCtx, scope domain.Scope) {
	ctx.SetUserValue(scopeValue, scope)
}

// Scope returns the scope stored by the auth middleware.
func Scope(ctx *fasthttp.RequestCtx) (domain.Scope, bool) {
	scope, ok := ctx.UserValue(scopeValue).(domain.Scope)
	return scope, ok
}

// SetToken keeps the verified token for handlers that act on it, e.g. sign-out.
func SetToken(ctx *fasthttp.RequestCtx, token domain.AccessToken) {
	ctx.SetUserValue(tokenValue, token)
}

func Token(ctx *fasthttp.RequestCtx) (domain.AccessToken, bool) {
	token, ok := ctx.UserValue(tokenValue).(domain.AccessToken)
	return token, ok
}
