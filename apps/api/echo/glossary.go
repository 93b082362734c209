package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scitech-butterfly/aasira/core/glossary"
)

type glossaryApi struct {
	svc *glossary.Service
}

func registerGlossaryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *glossary.Service) {
	api := glossaryApi{svc: svc}
	g.GET("/glossary", api.query, jwt)
}

func (api *glossaryApi) query(ctx echo.Context) error {
	terms, err := api.svc.Search(ctx.Request().Context(), ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "searching glossary")
	}
	if terms == nil {
		terms = []glossary.Term{}
	}
	return ctx.JSON(http.StatusOK, terms)
}
