package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/setuponce/backend/api/transport"
	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/pkg/httpcontext"
	"github.com/setuponce/backend/pkg/logger"
)

// Authenticator builds the request scope for a verified token.
type Authenticator interface {
	Authenticate(ctx context.Context, token domain.AccessToken) (domain.Scope, error)
}

type JWTOptions struct {
	Secret string
	Issuer string
}

type claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTAuth verifies HS256 bearer tokens issued by the identity provider and
// stores the resulting scope on the request.
func JWTAuth(opts JWTOptions, auth Authenticator, adapter *httpcontext.Adapter, log *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if log == nil {
		log = zap.NewNop()
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return []byte(opts.Secret), nil
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			stdCtx, cancel := adapter.Attach(ctx)
			defer cancel()
			reqLog := logger.WithRequestID(stdCtx, log)

			tokenString := extractToken(ctx)
			if tokenString == "" {
				reject(ctx, domain.ErrUnauthorized)
				return
			}

			token, err := verify(parser, keyFunc, tokenString, opts.Issuer)
			if err != nil {
				reqLog.Warn("invalid jwt token", zap.Error(err))
				reject(ctx, domain.ErrUnauthorized)
				return
			}

			scope, err := auth.Authenticate(stdCtx, token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenRevoked) {
					reqLog.Info("revoked token presented", zap.String("user_id", token.UserID))
				} else if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					reqLog.Error("scope resolution failed", zap.String("user_id", token.UserID), zap.Error(err))
				}
				reject(ctx, err)
				return
			}

			httpcontext.SetToken(ctx, token)
			httpcontext.SetScope(ctx, scope)
			next(ctx)
		}
	}
}

func verify(parser *jwt.Parser, keyFunc jwt.Keyfunc, raw, issuer string) (domain.AccessToken, error) {
	var c claims
	token, err := parser.ParseWithClaims(raw, &c, keyFunc)
	if err != nil {
		return domain.AccessToken{}, err
	}
	if !token.Valid {
		return domain.AccessToken{}, errors.New("token is not valid")
	}
	if issuer != "" && !c.VerifyIssuer(issuer, true) {
		return domain.AccessToken{}, errors.New("unexpected issuer")
	}

	userID := c.Subject
	if userID == "" {
		userID = c.UserID
	}
	if userID == "" {
		return domain.AccessToken{}, errors.New("token has no subject")
	}

	if c.ExpiresAt == nil {
		return domain.AccessToken{}, errors.New("token has no expiry")
	}
	return domain.AccessToken{UserID: userID, ID: c.ID, ExpiresAt: c.ExpiresAt.Time}, nil
}

func reject(ctx *fasthttp.RequestCtx, err error) {
	status, payload := transport.FromError(err)
	transport.Write(ctx, status, payload)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
