package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scitech-butterfly/aasira/core/course"
)

type (
	// ModuleListResponse pairs the course content with the requesting user's
	// per-module statuses.
	ModuleListResponse struct {
		Modules  []course.Module       `json:"modules"`
		Statuses []course.ModuleStatus `json:"moduleStatuses"`
	}

	// StartQuizResponse returns either a live attempt or, for a module with no
	// questions, an immediate result.
	StartQuizResponse struct {
		Attempt *course.AttemptView `json:"attempt,omitempty"`
		Result  *course.QuizResult  `json:"result,omitempty"`
	}

	AnswerRequest struct {
		Option string `json:"option" validate:"required"`
	}

	SubmitQuizResponse struct {
		Result   course.QuizResult   `json:"result"`
		Progress course.UserProgress `json:"progress"`
	}
)

type courseApi struct {
	engine   *course.Engine
	progress *course.ProgressService
	content  course.ContentProvider
	validate *validator.Validate
}

func registerCourseAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	engine *course.Engine,
	progress *course.ProgressService,
	content course.ContentProvider,
	validate *validator.Validate,
) {
	api := courseApi{
		engine:   engine,
		progress: progress,
		content:  content,
		validate: validate,
	}

	cg := g.Group("/courses", jwt)

	cg.GET("/modules", api.queryModules)
	cg.GET("/modules/:id", api.retrieveModule)
	cg.POST("/modules/:id/quiz", api.startQuiz)

	cg.GET("/quiz", api.currentQuiz)
	cg.POST("/quiz/answer", api.answerQuiz)
	cg.POST("/quiz/next", api.advanceQuiz)
	cg.POST("/quiz/submit", api.submitQuiz)
	cg.DELETE("/quiz", api.abandonQuiz)

	cg.GET("/progress", api.retrieveProgress)
	cg.GET("/progress/all", api.queryAllProgress, organizerMiddleware())
}

func moduleIDParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

// Handlers

func (api *courseApi) queryModules(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	modules, err := api.content.Modules(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading modules")
	}
	progress, err := api.progress.Get(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "loading progress")
	}
	return ctx.JSON(http.StatusOK, ModuleListResponse{Modules: modules, Statuses: progress.Statuses})
}

func (api *courseApi) retrieveModule(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	id, err := moduleIDParam(ctx)
	if err != nil {
		return err
	}

	ok, err := api.progress.CanEnter(ctx.Request().Context(), claims.Subject, id)
	if err != nil {
		return errors.Wrap(err, "checking module access")
	}
	if !ok {
		return course.ErrModuleLocked
	}

	modules, err := api.content.Modules(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading modules")
	}
	for _, mod := range modules {
		if mod.ID == id {
			return ctx.JSON(http.StatusOK, mod)
		}
	}
	return errHttpNotFound
}

func (api *courseApi) startQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	id, err := moduleIDParam(ctx)
	if err != nil {
		return err
	}

	view, result, err := api.engine.StartQuiz(ctx.Request().Context(), claims.Subject, id)
	if err != nil {
		return err
	}
	if result != nil {
		return ctx.JSON(http.StatusOK, StartQuizResponse{Result: result})
	}
	return ctx.JSON(http.StatusOK, StartQuizResponse{Attempt: &view})
}

func (api *courseApi) currentQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	view, err := api.engine.Current(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *courseApi) answerQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data AnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	view, err := api.engine.SelectAnswer(ctx.Request().Context(), claims.Subject, data.Option)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *courseApi) advanceQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	view, err := api.engine.Advance(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *courseApi) submitQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	progress, result, err := api.engine.Submit(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SubmitQuizResponse{Result: result, Progress: progress})
}

func (api *courseApi) abandonQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	api.engine.Abandon(ctx.Request().Context(), claims.Subject)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) retrieveProgress(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	progress, err := api.progress.Get(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "loading progress")
	}
	return ctx.JSON(http.StatusOK, progress)
}

func (api *courseApi) queryAllProgress(ctx echo.Context) error {
	records, err := api.progress.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}
	if records == nil {
		records = []course.UserProgress{}
	}
	return ctx.JSON(http.StatusOK, records)
}
