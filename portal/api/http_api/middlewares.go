package http_api

import (
	"fmt"
	"net/http"
	"strings"

	. "github.com/labstack/echo/v4"

	cs "github.com/agridesk/consentd/portal/api/http_api/context_service"
	"github.com/agridesk/consentd/portal/modules/auth"
	"github.com/agridesk/consentd/portal/types"
)

func contextServiceMiddleware(next HandlerFunc) HandlerFunc {
	return func(ctx Context) error {
		return next(cs.New(ctx))
	}
}

// jwtAuthMiddleware rejects requests without a valid bearer token and
// stores the claims for audit attribution and role checks. There is no
// refresh flow: an expired token simply fails and the client
// re-authenticates.
func jwtAuthMiddleware(tokens *auth.TokenSource) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx Context) error {
			stx := ctx.(*cs.ContextService)

			header := ctx.Request().Header.Get(HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return stx.JsonError(http.StatusUnauthorized, types.ErrUnauthenticated)
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				return stx.JsonError(http.StatusUnauthorized, types.ErrUnauthenticated)
			}

			stx.SetClaims(claims)
			return next(ctx)
		}
	}
}

// Custom error handler
func customHTTPErrorHandler(err error, c Context) {
	csError, ok := err.(*cs.CSErrorResp)
	if !ok {
		if he, ok := err.(*HTTPError); ok {
			csError = &cs.CSErrorResp{
				ErrorMessage: fmt.Sprintf("%s", he.Message),
			}
		} else {
			csError = &cs.CSErrorResp{
				ErrorMessage: http.StatusText(http.StatusInternalServerError),
			}
		}
	}

	// Send response
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(http.StatusInternalServerError)
		} else {
			err = c.JSON(http.StatusInternalServerError, csError)
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}
