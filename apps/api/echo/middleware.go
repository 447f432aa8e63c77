package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/gradefinalboss/gradeboss/core/user"
)

// activeUserMiddleware loads the token's User into the context and rejects deactivated accounts.
func activeUserMiddleware(auth *authenticator, svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := auth.getContextUser(ctx, svc)
			if err != nil {
				return err
			}
			if !usr.IsActive {
				return errAccountDeactivated
			}
			return next(ctx)
		}
	}
}
