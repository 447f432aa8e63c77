package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradefinalboss/gradeboss/core"
	"github.com/gradefinalboss/gradeboss/core/calculation"
	"github.com/gradefinalboss/gradeboss/core/user"
	analyticssvc "github.com/gradefinalboss/gradeboss/services/analytics"
)

type userApi struct {
	*Deps
	auth *authenticator
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps *Deps) {
	api := userApi{Deps: deps, auth: auth}

	ug := g.Group("/users")

	// un-authed endpoints
	// TODO: rate limit `/login`, `/password-reset` & `/password-reset-confirm`
	ug.POST("/signup", api.signup)
	ug.POST("/login", api.login)
	ug.POST("/password-reset", api.resetPassword)
	ug.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag := ug.Group("", jwt, activeUserMiddleware(auth, deps.UserSvc))
	ag.POST("/token-refresh", api.refreshToken)
	ag.POST("/upsert", api.upsert)
	ag.GET("/me", api.me)
}

// Handlers

func (api *userApi) signup(ctx echo.Context) error {
	var data SignupRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	if err := data.NewUser.Validate(rctx, api.Validate, api.UserSvc); err != nil {
		return err
	}

	usr, err := api.UserSvc.Create(rctx, data.NewUser)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	api.Analytics.Track(analyticssvc.EventSignUp, map[string]interface{}{"method": "email"})

	res, err := api.authResponse(ctx, usr, data.PendingCalculation)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	data.Email = core.CleanString(data.Email, true /* lower */)
	if err := api.Validate.Struct(data); err != nil {
		return err
	}

	usr, err := api.UserSvc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrInvalidCredentials:
			return errAuthenticationFailed
		case user.ErrAccountDeactivated:
			return errAccountDeactivated
		}
		return errors.Wrap(err, "authenticating")
	}
	api.Analytics.Track(analyticssvc.EventSignIn, map[string]interface{}{"method": "email"})

	res, err := api.authResponse(ctx, usr, data.PendingCalculation)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

// authResponse issues a token for usr and saves the calculation they made before signing in.
// A pending calculation that cannot be saved does not fail the authentication.
func (api *userApi) authResponse(ctx echo.Context, usr user.User, pending *calculation.Pending) (AuthResponse, error) {
	token, err := api.auth.tokenFor(usr)
	if err != nil {
		return AuthResponse{}, errors.Wrap(err, "generating token")
	}
	res := AuthResponse{Token: token, User: usr}

	rec, err := api.CalcSvc.SavePending(ctx.Request().Context(), usr.ID, pending)
	if err != nil {
		api.Logger.Warn("saving pending calculation", err, usr)
	}
	res.SavedCalculation = rec
	return res, nil
}

func (api *userApi) upsert(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx, api.UserSvc)
	if err != nil {
		return err
	}

	var data user.UpsertUser
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	if err = data.Validate(rctx, usr, api.Validate, api.UserSvc); err != nil {
		return err
	}

	usr, err = api.UserSvc.Upsert(rctx, usr, data)
	if err != nil {
		if errors.Cause(err) == user.ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return errors.Wrap(err, "upserting user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx, api.UserSvc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx, api.UserSvc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *userApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	data.Email = core.CleanString(data.Email, true /* lower */)
	if err := api.Validate.Struct(data); err != nil {
		return err
	}

	if err := api.UserSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		api.Logger.Error("requesting password reset", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *userApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := data.Validate(api.Validate); err != nil {
		return err
	}

	if _, err := api.UserSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

type (
	SignupRequest struct {
		user.NewUser
		PendingCalculation *calculation.Pending `json:"pending_calculation"`
	}

	LoginRequest struct {
		Email              string               `json:"email" validate:"required,email"`
		Password           string               `json:"password" validate:"required"`
		PendingCalculation *calculation.Pending `json:"pending_calculation"`
	}

	AuthResponse struct {
		Token            string              `json:"token"`
		User             user.User           `json:"user"`
		SavedCalculation *calculation.Record `json:"saved_calculation,omitempty"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)
