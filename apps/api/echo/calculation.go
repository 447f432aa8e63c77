package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradefinalboss/gradeboss/core/calculation"
)

type calculationApi struct {
	*Deps
	auth *authenticator
}

func registerCalculationAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps *Deps) {
	api := calculationApi{Deps: deps, auth: auth}

	cg := g.Group("/calculations", jwt, activeUserMiddleware(auth, deps.UserSvc))
	cg.POST("", api.create)
	cg.GET("", api.list)
	cg.GET("/:id", api.detail)
	cg.DELETE("/:id", api.delete)
}

// Handlers

func (api *calculationApi) create(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx, api.UserSvc)
	if err != nil {
		return err
	}

	var data calculation.NewRecord
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(api.Validate); err != nil {
		return err
	}

	rec, err := api.CalcSvc.Save(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "saving calculation")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *calculationApi) list(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx, api.UserSvc)
	if err != nil {
		return err
	}

	filter := calculation.QueryFilter{Kind: calculation.Kind(ctx.QueryParam("kind"))}
	var ord Ordering
	ord.Bind(ctx)

	recs, err := api.CalcSvc.QueryByUser(ctx.Request().Context(), usr.ID, filter, ord.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying calculations")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *calculationApi) detail(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx, api.UserSvc)
	if err != nil {
		return err
	}

	rec, err := api.CalcSvc.Get(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == calculation.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting calculation")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *calculationApi) delete(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx, api.UserSvc)
	if err != nil {
		return err
	}

	n, err := api.CalcSvc.Delete(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting calculation")
	}
	if n == 0 {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}
