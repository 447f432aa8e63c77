package echoapi

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradefinalboss/gradeboss/core/calculation"
	"github.com/gradefinalboss/gradeboss/testutil"
)

func Test_calculationApi_create(t *testing.T) {
	resetState()
	usr := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", true)
	token := getToken(t, usr)
	path := "/v1/calculations"

	tests := []httpTest{
		{name: "Auth required", path: path, wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "missing fields", path: path, token: token, wantCode: http.StatusBadRequest, body: []byte(`{}`),
			wantData: marshalObj(t, echo.Map{
				"kind":             "this field is required",
				"input_data":       "this field is required",
				"calculated_value": "this field is required",
			}),
		},
		{
			name: "unknown kind", path: path, token: token, wantCode: http.StatusBadRequest,
			body:     []byte(`{"kind": "astrology", "input_data": {"a": 1}, "calculated_value": 1}`),
			wantData: marshalObj(t, echo.Map{"kind": "unknown calculation kind"}),
		},
		{
			name: "input data not an object", path: path, token: token, wantCode: http.StatusBadRequest,
			body:     []byte(`{"kind": "final_exam", "input_data": [1, 2], "calculated_value": 1}`),
			wantData: marshalObj(t, echo.Map{"input_data": "must be a non-empty JSON object"}),
		},
	}
	runTests(t, tests)

	t.Run("created", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, token,
			[]byte(`{"kind": "weighted_grade", "input_data": {"base_grade": "80"}, "calculated_value": 79}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var res calculation.Record
		decodeBody(t, rec, &res)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, usr.ID, res.UserID)
		assert.Equal(t, calculation.KindWeightedGrade, res.Kind)
		assert.Equal(t, 79.0, res.CalculatedValue)
		assert.JSONEq(t, `{"base_grade": "80"}`, string(res.InputData))
		assert.False(t, res.CreatedAt.IsZero())
	})
}

func Test_calculationApi_list(t *testing.T) {
	resetState()
	usr := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", "", true)
	token := getToken(t, usr)

	now := time.Now()
	rec1 := testutil.CreateRecord(t, calcRepo, usr.ID, calculation.KindFinalExam, map[string]interface{}{"current_grade": "80"}, 130, now.Add(-3*time.Hour))
	rec2 := testutil.CreateRecord(t, calcRepo, usr.ID, calculation.KindSemesterGPA, map[string]interface{}{"courses": []string{}}, 3.57, now.Add(-2*time.Hour))
	rec3 := testutil.CreateRecord(t, calcRepo, usr.ID, calculation.KindFinalExam, map[string]interface{}{"current_grade": "90"}, 70, now.Add(-1*time.Hour))
	testutil.CreateRecord(t, calcRepo, other.ID, calculation.KindFinalExam, map[string]interface{}{"current_grade": "50"}, 99, now)

	path := func(kind, ordering string) string {
		v := make(url.Values)
		if kind != "" {
			v.Add("kind", kind)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		return "/v1/calculations?" + v.Encode()
	}

	tests := []httpTest{
		{name: "Auth required", path: path("", ""), wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "newest first", path: path("", ""), token: token, wantData: marshalList(t, rec3, rec2, rec1)},
		{name: "kind=final_exam", path: path("final_exam", ""), token: token, wantData: marshalList(t, rec3, rec1)},
		{name: "kind=FINAL_EXAM", path: path("FINAL_EXAM", ""), token: token, wantData: marshalList(t, rec3, rec1)},
		{name: "kind (unknown)", path: path("lol", ""), token: token, wantData: marshalList(t)},
		{name: "order by created_at", path: path("", "created_at"), token: token, wantData: marshalList(t, rec1, rec2, rec3)},
		{name: "order by -calculated_value", path: path("", "-calculated_value"), token: token, wantData: marshalList(t, rec1, rec3, rec2)},
		{name: "order by unknown field", path: path("", "user_id"), token: token, wantData: marshalList(t, rec3, rec2, rec1)},
		{name: "filtering & ordering", path: path("final_exam", "calculated_value"), token: token, wantData: marshalList(t, rec3, rec1)},
	}
	for i := range tests {
		tests[i].method = http.MethodGet
	}
	runTests(t, tests)
}

func Test_calculationApi_detailAndDelete(t *testing.T) {
	resetState()
	usr := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", "", true)
	token := getToken(t, usr)

	mine := testutil.CreateRecord(t, calcRepo, usr.ID, calculation.KindFinalExam, map[string]interface{}{"current_grade": "80"}, 130)
	theirs := testutil.CreateRecord(t, calcRepo, other.ID, calculation.KindFinalExam, map[string]interface{}{"current_grade": "50"}, 99)
	notFound := marshalObj(t, httpErr{Error: "not found"})

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/calculations/" + mine.ID, wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "get mine", method: http.MethodGet, path: "/v1/calculations/" + mine.ID, token: token, wantData: marshalObj(t, mine)},
		{name: "get theirs", method: http.MethodGet, path: "/v1/calculations/" + theirs.ID, token: token, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "get unknown", method: http.MethodGet, path: "/v1/calculations/" + uuid.New().String(), token: token, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "get invalid id", method: http.MethodGet, path: "/v1/calculations/lol", token: token, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "delete theirs", method: http.MethodDelete, path: "/v1/calculations/" + theirs.ID, token: token, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "delete mine", method: http.MethodDelete, path: "/v1/calculations/" + mine.ID, token: token, wantCode: http.StatusNoContent},
		{name: "delete mine again", method: http.MethodDelete, path: "/v1/calculations/" + mine.ID, token: token, wantCode: http.StatusNotFound, wantData: notFound},
	}
	runTests(t, tests)

	ctx := context.Background()
	_, err := calcRepo.GetRecord(ctx, mine.ID)
	assert.Equal(t, calculation.ErrNotFound, err)
	_, err = calcRepo.GetRecord(ctx, theirs.ID)
	assert.NoError(t, err)
}
