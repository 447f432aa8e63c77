package calculation

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gradefinalboss/gradeboss/core"
)

type Kind string

const (
	KindFinalExam     Kind = "final_exam"
	KindWeightedGrade Kind = "weighted_grade"
	KindSemesterGPA   Kind = "semester_gpa"
	KindCumulativeGPA Kind = "cumulative_gpa"
)

var Kinds = []Kind{KindFinalExam, KindWeightedGrade, KindSemesterGPA, KindCumulativeGPA}

func (k Kind) IsValid() bool {
	for _, kind := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Record is a saved calculation: the inputs as the user typed them and the computed value.
type Record struct {
	ID              string          `json:"id" db:"id"`
	UserID          string          `json:"user_id" db:"user_id"`
	Kind            Kind            `json:"kind" db:"kind"`
	InputData       json.RawMessage `json:"input_data" db:"input_data"`
	CalculatedValue float64         `json:"calculated_value" db:"calculated_value"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"` // UTC
}

// NewRecord contains information needed to save a calculation.
type NewRecord struct {
	Kind            Kind            `json:"kind" validate:"required,calckind"`
	InputData       json.RawMessage `json:"input_data" validate:"required"`
	CalculatedValue *float64        `json:"calculated_value" validate:"required"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	if err := validate.Struct(nr); err != nil {
		return err
	}
	return nr.check()
}

func (nr *NewRecord) check() error {
	var flds []core.FieldError
	if !nr.Kind.IsValid() {
		flds = append(flds, core.FieldError{Field: "kind", Error: "unknown calculation kind"})
	}
	if !isJSONObject(nr.InputData) {
		flds = append(flds, core.FieldError{Field: "input_data", Error: "must be a non-empty JSON object"})
	}
	if nr.CalculatedValue == nil {
		flds = append(flds, core.FieldError{Field: "calculated_value", Error: "this field is required"})
	} else if math.IsNaN(*nr.CalculatedValue) || math.IsInf(*nr.CalculatedValue, 0) {
		flds = append(flds, core.FieldError{Field: "calculated_value", Error: "must be a valid number"})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

func isJSONObject(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) < 2 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal(trimmed, &obj) == nil && len(obj) > 0
}

// Pending is a calculation made before sign in, carried through authentication
// so it can be saved to the new session's account.
type Pending struct {
	Kind            Kind            `json:"kind"`
	InputData       json.RawMessage `json:"input_data"`
	CalculatedValue float64         `json:"calculated_value"`
}

// IsEmpty reports whether there is nothing worth saving.
func (p *Pending) IsEmpty() bool {
	return p == nil || p.CalculatedValue == 0 || len(bytes.TrimSpace(p.InputData)) == 0
}

type QueryFilter struct {
	UserID string `query:"-"`
	Kind   Kind   `query:"kind"`
}

func (qf *QueryFilter) Clean() {
	qf.Kind = Kind(core.CleanString(string(qf.Kind), true /* lower */))
}

// Orderable fields; records are listed newest first by default.
var (
	OrderingFields  = []string{"created_at", "calculated_value", "kind"}
	DefaultOrdering = []core.DBOrdering{{Field: "created_at", Ascending: false}}
)
