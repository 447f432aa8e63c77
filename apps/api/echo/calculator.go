package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradefinalboss/gradeboss/core/calculation"
	"github.com/gradefinalboss/gradeboss/core/grade"
	analyticssvc "github.com/gradefinalboss/gradeboss/services/analytics"
)

type calculatorApi struct {
	*Deps
	auth *authenticator
}

func registerCalculatorAPI(g *echo.Group, optionalJWT echo.MiddlewareFunc, auth *authenticator, deps *Deps) {
	api := calculatorApi{Deps: deps, auth: auth}

	cg := g.Group("/calculators", optionalJWT)
	cg.POST("/final-exam", api.finalExam)
	cg.POST("/weighted-grade", api.weightedGrade)
	cg.POST("/projected-grade", api.projectedGrade)
	cg.POST("/gpa", api.gpa)
}

// Handlers

func (api *calculatorApi) finalExam(ctx echo.Context) error {
	var data FinalExamRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}

	current, err := grade.ParseNumber("current_grade", data.CurrentGrade.String())
	if err != nil {
		return err
	}
	desired, err := grade.ParseNumber("desired_grade", data.DesiredGrade.String())
	if err != nil {
		return err
	}
	weight, err := grade.ParseNumber("final_weight", data.FinalWeight.String())
	if err != nil {
		return err
	}

	required, err := grade.RequiredFinalScore(current, desired, weight)
	if err != nil {
		return err
	}
	fb := grade.FeedbackFor(required)
	api.Analytics.Track(analyticssvc.EventCalculateFinalExam, map[string]interface{}{"level": string(fb.Level)})

	res := FinalExamResponse{RequiredScore: required, Feedback: fb}
	if data.Save {
		if res.Record, err = api.save(ctx, calculation.KindFinalExam, data.FinalExamInput, required); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *calculatorApi) weightedGrade(ctx echo.Context) error {
	var data WeightedGradeRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}

	base, err := grade.ParseNumber("base_grade", data.BaseGrade.String())
	if err != nil {
		return err
	}
	comps, err := parseComponents(data.Components)
	if err != nil {
		return err
	}

	value, err := grade.WeightedGrade(base, comps)
	if err != nil {
		return err
	}
	api.Analytics.Track(analyticssvc.EventCalculateWeightedGrade, map[string]interface{}{"components": len(comps)})

	res := WeightedGradeResponse{
		Grade:       value,
		TotalWeight: grade.Round(grade.TotalWeight(comps), 2),
		Warning:     grade.WeightWarning(comps),
	}
	if data.Save {
		if res.Record, err = api.save(ctx, calculation.KindWeightedGrade, data.WeightedGradeInput, value); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *calculatorApi) projectedGrade(ctx echo.Context) error {
	var data ProjectedGradeRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}

	comps, err := parseComponents(data.Components)
	if err != nil {
		return err
	}
	proj, err := grade.ProjectedGrade(comps)
	if err != nil {
		return err
	}
	api.Analytics.Track(analyticssvc.EventCalculateProjected, map[string]interface{}{"components": len(comps)})
	return ctx.JSON(http.StatusOK, proj)
}

func (api *calculatorApi) gpa(ctx echo.Context) error {
	var data GPARequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}

	courses := make([]grade.Course, 0, len(data.Courses))
	for _, c := range data.Courses {
		courses = append(courses, grade.Course{
			Name:    c.Name,
			Grade:   c.Grade,
			Credits: grade.ParseCredits(c.Credits.String()),
		})
	}
	prior := new(grade.PriorRecord)
	var err error
	if prior.GPA, err = grade.ParseOptional("prior_gpa", data.PriorGPA.String()); err != nil {
		return err
	}
	if prior.TotalCredits, err = grade.ParseOptional("prior_credits", data.PriorCredits.String()); err != nil {
		return err
	}

	sem := grade.SemesterTotals(courses)
	semGPA, ok := sem.GPA()
	if !ok {
		return &grade.UndefinedResultError{Reason: "no course with a known grade and positive credits"}
	}

	res := GPAResponse{
		SemesterGPA:  grade.Round(semGPA, 2),
		TotalCredits: sem.Credits,
		Included:     sem.Included,
		Excluded:     sem.Excluded,
	}
	kind, value := calculation.KindSemesterGPA, res.SemesterGPA
	if prior.GPA != nil || prior.TotalCredits != nil {
		// blend the unrounded term GPA
		cumulative, err := grade.CumulativeGPA(semGPA, sem.Credits, prior)
		if err != nil {
			return err
		}
		res.CumulativeGPA = &cumulative
		kind, value = calculation.KindCumulativeGPA, cumulative
	}
	api.Analytics.Track(analyticssvc.EventCalculateGPA, map[string]interface{}{
		"courses":    len(courses),
		"cumulative": res.CumulativeGPA != nil,
	})

	if data.Save {
		if res.Record, err = api.save(ctx, kind, data.GPAInput, value); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, res)
}

// save stores the calculation for the authenticated user. Anonymous callers get nothing saved.
func (api *calculatorApi) save(ctx echo.Context, kind calculation.Kind, input interface{}, value float64) (*calculation.Record, error) {
	if !api.auth.isAuthenticated(ctx) {
		return nil, nil
	}
	usr, err := api.auth.getContextUser(ctx, api.UserSvc)
	if err != nil {
		return nil, err
	}
	if !usr.IsActive {
		return nil, errAccountDeactivated
	}

	inputData, err := json.Marshal(input)
	if err != nil {
		return nil, errors.Wrap(err, "encoding input data")
	}
	rec, err := api.CalcSvc.Save(ctx.Request().Context(), usr.ID, calculation.NewRecord{
		Kind:            kind,
		InputData:       inputData,
		CalculatedValue: &value,
	})
	if err != nil {
		return nil, errors.Wrap(err, "saving calculation")
	}
	return &rec, nil
}

func parseComponents(rows []ComponentInput) ([]grade.Component, error) {
	comps := make([]grade.Component, 0, len(rows))
	for i, row := range rows {
		weight, err := grade.ParseOptional(fmt.Sprintf("components[%d].weight", i), row.Weight.String())
		if err != nil {
			return nil, err
		}
		score, err := grade.ParseOptional(fmt.Sprintf("components[%d].score", i), row.Score.String())
		if err != nil {
			return nil, err
		}
		comps = append(comps, grade.Component{Name: row.Name, Weight: weight, Score: score})
	}
	return comps, nil
}

type (
	FinalExamInput struct {
		CurrentGrade FormValue `json:"current_grade"`
		DesiredGrade FormValue `json:"desired_grade"`
		FinalWeight  FormValue `json:"final_weight"`
	}

	FinalExamRequest struct {
		FinalExamInput
		Save bool `json:"save"`
	}

	FinalExamResponse struct {
		RequiredScore float64 `json:"required_score"`
		grade.Feedback
		Record *calculation.Record `json:"record,omitempty"`
	}

	ComponentInput struct {
		Name   string    `json:"name"`
		Weight FormValue `json:"weight"`
		Score  FormValue `json:"score"`
	}

	WeightedGradeInput struct {
		BaseGrade  FormValue        `json:"base_grade"`
		Components []ComponentInput `json:"components"`
	}

	WeightedGradeRequest struct {
		WeightedGradeInput
		Save bool `json:"save"`
	}

	WeightedGradeResponse struct {
		Grade       float64             `json:"grade"`
		TotalWeight float64             `json:"total_weight"`
		Warning     string              `json:"warning,omitempty"`
		Record      *calculation.Record `json:"record,omitempty"`
	}

	ProjectedGradeRequest struct {
		Components []ComponentInput `json:"components"`
	}

	CourseInput struct {
		Name    string    `json:"name"`
		Grade   string    `json:"grade"`
		Credits FormValue `json:"credits"`
	}

	GPAInput struct {
		Courses      []CourseInput `json:"courses"`
		PriorGPA     FormValue     `json:"prior_gpa"`
		PriorCredits FormValue     `json:"prior_credits"`
	}

	GPARequest struct {
		GPAInput
		Save bool `json:"save"`
	}

	GPAResponse struct {
		SemesterGPA   float64             `json:"semester_gpa"`
		TotalCredits  float64             `json:"total_credits"`
		Included      []int               `json:"included"`
		Excluded      []int               `json:"excluded"`
		CumulativeGPA *float64            `json:"cumulative_gpa,omitempty"`
		Record        *calculation.Record `json:"record,omitempty"`
	}
)
