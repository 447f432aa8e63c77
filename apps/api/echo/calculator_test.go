package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradefinalboss/gradeboss/core/calculation"
	analyticssvc "github.com/gradefinalboss/gradeboss/services/analytics"
	"github.com/gradefinalboss/gradeboss/testutil"
)

func Test_calculatorApi_finalExam(t *testing.T) {
	resetState()
	path := "/v1/calculators/final-exam"

	tests := []httpTest{
		{
			name: "infeasible", path: path,
			body:     []byte(`{"current_grade": "80", "desired_grade": "90", "final_weight": "20"}`),
			wantData: marshalObj(t, echo.Map{"required_score": 130, "level": "infeasible", "message": "You're fucked."}),
		},
		{
			name: "very hard (numbers accepted)", path: path,
			body: []byte(`{"current_grade": 85, "desired_grade": 90, "final_weight": 40}`),
			wantData: marshalObj(t, echo.Map{
				"required_score": 97.5, "level": "very_hard",
				"message": "Possible. But you'll need a lot of White Zero Sugar Monster Energy.",
			}),
		},
		{
			name: "moderate", path: path,
			body: []byte(`{"current_grade": "90", "desired_grade": "80", "final_weight": "50"}`),
			wantData: marshalObj(t, echo.Map{
				"required_score": 70, "level": "moderate",
				"message": "Pretty good. One solid night (or two) of studying and you're there.",
			}),
		},
		{
			name: "already achieved", path: path,
			body: []byte(`{"current_grade": "95", "desired_grade": "70", "final_weight": "10"}`),
			wantData: marshalObj(t, echo.Map{
				"required_score": -155, "level": "achieved",
				"message": "Don't even need to show up. Turn up the big bootie mix and celebrate. Cheers!",
			}),
		},
		{
			name: "blank input", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"current_grade": " ", "desired_grade": "90", "final_weight": "20"}`),
			wantData: marshalObj(t, echo.Map{"current_grade": "this field is required"}),
		},
		{
			name: "not a number", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"current_grade": "80", "desired_grade": "abc", "final_weight": "20"}`),
			wantData: marshalObj(t, echo.Map{"desired_grade": "must be a valid number"}),
		},
		{
			name: "out of range", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"current_grade": "101", "desired_grade": "90", "final_weight": "20"}`),
			wantData: marshalObj(t, echo.Map{"current_grade": "must be between 0 and 100"}),
		},
		{
			name: "zero weight", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"current_grade": "80", "desired_grade": "90", "final_weight": "0"}`),
			wantData: marshalObj(t, echo.Map{"final_weight": "must be greater than 0"}),
		},
		{
			name: "invalid token", path: path, token: "nope", wantCode: http.StatusUnauthorized,
			body:     []byte(`{"current_grade": "80", "desired_grade": "90", "final_weight": "20"}`),
			wantData: marshalObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
	}
	runTests(t, tests)

	assert.Contains(t, analytics.Names(), analyticssvc.EventCalculateFinalExam)
}

func Test_calculatorApi_weightedGrade(t *testing.T) {
	resetState()
	path := "/v1/calculators/weighted-grade"

	tests := []httpTest{
		{
			name: "partial weights", path: path,
			body: []byte(`{"base_grade": "80", "components": [
				{"name": "Homework", "weight": "20", "score": "90"},
				{"name": "Midterm", "weight": "30", "score": "70"}
			]}`),
			wantData: marshalObj(t, echo.Map{
				"grade": 79, "total_weight": 50,
				"warning": "Note: total weight is less than 100% (current total: 50.0%).",
			}),
		},
		{
			name: "full weights", path: path,
			body: []byte(`{"base_grade": "0", "components": [
				{"name": "Homework", "weight": 40, "score": 100},
				{"name": "Exam", "weight": 60, "score": 50}
			]}`),
			wantData: marshalObj(t, echo.Map{"grade": 70, "total_weight": 100}),
		},
		{
			name: "no components", path: path,
			body:     []byte(`{"base_grade": "88.5", "components": []}`),
			wantData: marshalObj(t, echo.Map{"grade": 88.5, "total_weight": 0}),
		},
		{
			name: "incomplete component", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"base_grade": "80", "components": [{"name": "Quiz", "weight": "10", "score": ""}]}`),
			wantData: marshalObj(t, echo.Map{"components[0]": `"Quiz": please fill in weight and score`}),
		},
		{
			name: "weight surplus", path: path, wantCode: http.StatusBadRequest,
			body: []byte(`{"base_grade": "80", "components": [
				{"name": "A", "weight": "60", "score": "90"},
				{"name": "B", "weight": "50", "score": "90"}
			]}`),
			wantData: marshalObj(t, echo.Map{"components": "total weight cannot exceed 100% (current total: 110.00%)"}),
		},
		{
			name: "invalid score", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"base_grade": "80", "components": [{"name": "A", "weight": "10", "score": "x"}]}`),
			wantData: marshalObj(t, echo.Map{"components[0].score": "must be a valid number"}),
		},
	}
	runTests(t, tests)
}

func Test_calculatorApi_projectedGrade(t *testing.T) {
	resetState()
	path := "/v1/calculators/projected-grade"

	tests := []httpTest{
		{
			name: "final not taken yet", path: path,
			body: []byte(`{"components": [
				{"name": "Homework", "weight": "20", "score": "90"},
				{"name": "Midterm", "weight": "30", "score": "70"},
				{"name": "Final", "weight": "50", "score": ""}
			]}`),
			wantData: marshalObj(t, echo.Map{"grade": 78, "weight_used": 50, "total_weight": 100}),
		},
		{
			name: "nothing graded", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"components": [{"name": "Final", "weight": "50", "score": null}]}`),
			wantData: marshalObj(t, httpErr{Error: "not enough data: no component has both a weight and a score"}),
		},
	}
	runTests(t, tests)
}

func Test_calculatorApi_gpa(t *testing.T) {
	resetState()
	path := "/v1/calculators/gpa"
	courses := `[
		{"name": "Algebra", "grade": "A", "credits": "4"},
		{"name": "History", "grade": "b", "credits": 3},
		{"name": "Pottery", "grade": "Z", "credits": "3"},
		{"name": "Gym", "grade": "C", "credits": ""}
	]`

	tests := []httpTest{
		{
			name: "semester only", path: path,
			body: []byte(`{"courses": ` + courses + `}`),
			wantData: marshalObj(t, echo.Map{
				"semester_gpa": 3.57, "total_credits": 7, "included": []int{0, 1}, "excluded": []int{2, 3},
			}),
		},
		{
			name: "cumulative", path: path,
			body: []byte(`{"courses": ` + courses + `, "prior_gpa": "3.0", "prior_credits": "30"}`),
			wantData: marshalObj(t, echo.Map{
				"semester_gpa": 3.57, "total_credits": 7, "included": []int{0, 1}, "excluded": []int{2, 3},
				"cumulative_gpa": 3.108,
			}),
		},
		{
			name: "prior half filled", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"courses": ` + courses + `, "prior_gpa": "3.0"}`),
			wantData: marshalObj(t, echo.Map{"prior": "please enter both prior GPA and prior credits, or leave both blank"}),
		},
		{
			name: "invalid prior", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"courses": ` + courses + `, "prior_gpa": "6", "prior_credits": "30"}`),
			wantData: marshalObj(t, echo.Map{"prior_gpa": "must be a number between 0 and 5"}),
		},
		{
			name: "no eligible course", path: path, wantCode: http.StatusBadRequest,
			body:     []byte(`{"courses": [{"name": "Gym", "grade": "A", "credits": "0"}]}`),
			wantData: marshalObj(t, httpErr{Error: "not enough data: no course with a known grade and positive credits"}),
		},
	}
	runTests(t, tests)
}

func Test_calculatorApi_save(t *testing.T) {
	resetState()
	usr := testutil.CreateUser(t, usrRepo, "Saver", "saver@test.cd", "", true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.cd", "", false)
	token := getToken(t, usr)
	ctx := context.Background()

	t.Run("anonymous save is ignored", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/calculators/final-exam",
			[]byte(`{"current_grade": "80", "desired_grade": "90", "final_weight": "20", "save": true}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res FinalExamResponse
		decodeBody(t, rec, &res)
		assert.Nil(t, res.Record)
	})

	t.Run("not saved unless asked", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/calculators/final-exam", token,
			[]byte(`{"current_grade": "80", "desired_grade": "90", "final_weight": "20"}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		recs, err := calcRepo.QueryRecords(ctx, calculation.QueryFilter{UserID: usr.ID}, calculation.DefaultOrdering)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("final exam saved", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/calculators/final-exam", token,
			[]byte(`{"current_grade": "80", "desired_grade": "90", "final_weight": "20", "save": true}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res FinalExamResponse
		decodeBody(t, rec, &res)
		require.NotNil(t, res.Record)
		assert.Equal(t, usr.ID, res.Record.UserID)
		assert.Equal(t, calculation.KindFinalExam, res.Record.Kind)
		assert.Equal(t, 130.0, res.Record.CalculatedValue)

		var input map[string]string
		require.NoError(t, json.Unmarshal(res.Record.InputData, &input))
		assert.Equal(t, map[string]string{"current_grade": "80", "desired_grade": "90", "final_weight": "20"}, input)

		stored, err := calcRepo.GetRecord(ctx, res.Record.ID)
		require.NoError(t, err)
		assert.Equal(t, res.Record.ID, stored.ID)
	})

	t.Run("gpa saved as cumulative", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/calculators/gpa", token, []byte(`{
			"courses": [{"name": "Algebra", "grade": "A", "credits": "3"}],
			"prior_gpa": "2", "prior_credits": "3", "save": true
		}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res GPAResponse
		decodeBody(t, rec, &res)
		require.NotNil(t, res.Record)
		assert.Equal(t, calculation.KindCumulativeGPA, res.Record.Kind)
		assert.Equal(t, 3.0, res.Record.CalculatedValue)
	})

	t.Run("gpa saved as semester", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/calculators/gpa", token, []byte(`{
			"courses": [{"name": "Algebra", "grade": "B", "credits": "3"}], "save": true
		}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res GPAResponse
		decodeBody(t, rec, &res)
		require.NotNil(t, res.Record)
		assert.Equal(t, calculation.KindSemesterGPA, res.Record.Kind)
		assert.Equal(t, 3.0, res.Record.CalculatedValue)
	})

	t.Run("weighted grade saved", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/calculators/weighted-grade", token, []byte(`{
			"base_grade": "80", "components": [{"name": "Final", "weight": "50", "score": "100"}], "save": true
		}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res WeightedGradeResponse
		decodeBody(t, rec, &res)
		require.NotNil(t, res.Record)
		assert.Equal(t, calculation.KindWeightedGrade, res.Record.Kind)
		assert.Equal(t, 90.0, res.Record.CalculatedValue)
	})

	t.Run("deactivated account cannot save", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/calculators/final-exam", getToken(t, naughty),
			[]byte(`{"current_grade": "80", "desired_grade": "90", "final_weight": "20", "save": true}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "account deactivated"})}, rec)
	})

	names := analytics.Names()
	assert.Contains(t, names, analyticssvc.EventSaveCalculation)
	assert.Contains(t, names, analyticssvc.EventCalculateGPA)
	assert.Contains(t, names, analyticssvc.EventCalculateWeightedGrade)
}
