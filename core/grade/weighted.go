package grade

import "fmt"

// weightEpsilon absorbs float noise when summing weights such as 33.3 + 33.3 + 33.4.
const weightEpsilon = 1e-9

// Component is one graded category of a course (homework, midterm...).
// A nil Weight or Score means the value was left blank.
type Component struct {
	Name   string   `json:"name"`
	Weight *float64 `json:"weight"`
	Score  *float64 `json:"score"`
}

func (c Component) label(i int) string {
	if c.Name != "" {
		return fmt.Sprintf("%q", c.Name)
	}
	return fmt.Sprintf("component %d", i+1)
}

func componentField(i int, fld string) string {
	return fmt.Sprintf("components[%d].%s", i, fld)
}

// TotalWeight sums the positive weights that are set.
func TotalWeight(comps []Component) float64 {
	var total float64
	for _, c := range comps {
		if c.Weight != nil && *c.Weight > 0 {
			total += *c.Weight
		}
	}
	return total
}

// WeightWarning returns a note when the listed weights cover less than the whole course.
// A deficit is not an error: the calculation proceeds.
func WeightWarning(comps []Component) string {
	total := TotalWeight(comps)
	if total > 0 && total < 100-weightEpsilon {
		return fmt.Sprintf("Note: total weight is less than 100%% (current total: %.1f%%).", total)
	}
	return ""
}

func checkComponent(i int, c Component) error {
	if c.Weight == nil || c.Score == nil {
		return invalid(fmt.Sprintf("components[%d]", i), "%s: please fill in weight and score", c.label(i))
	}
	if !isFinite(*c.Weight) {
		return invalid(componentField(i, "weight"), "must be a valid number")
	}
	if *c.Weight > 100 {
		return invalid(componentField(i, "weight"), "must not exceed 100")
	}
	return checkPercent(componentField(i, "score"), *c.Score)
}

func checkTotalWeight(comps []Component) (float64, error) {
	total := TotalWeight(comps)
	if total > 100+weightEpsilon {
		return 0, invalid("components", "total weight cannot exceed 100%% (current total: %.2f%%)", total)
	}
	return total, nil
}

// WeightedGrade combines the current standing (base) with the listed components.
// The base grade is weighted by whatever weight the components leave unassigned:
//
//	grade = base * (100 - Σw)/100 + Σ score*w/100
//
// Every component must have both weight and score. Components weighing 0 or less are ignored.
func WeightedGrade(base float64, comps []Component) (float64, error) {
	if err := checkPercent("base_grade", base); err != nil {
		return 0, err
	}
	for i, c := range comps {
		if err := checkComponent(i, c); err != nil {
			return 0, err
		}
	}
	total, err := checkTotalWeight(comps)
	if err != nil {
		return 0, err
	}

	remaining := 100 - total
	if remaining < 0 {
		remaining = 0
	}
	grade := base * remaining / 100
	for _, c := range comps {
		if *c.Weight > 0 {
			grade += *c.Score * *c.Weight / 100
		}
	}
	return Round(grade, 2), nil
}

// Projection is the course grade so far, computed from the graded components only.
type Projection struct {
	Grade       float64 `json:"grade"`
	WeightUsed  float64 `json:"weight_used"`
	TotalWeight float64 `json:"total_weight"`
	Warning     string  `json:"warning,omitempty"`
}

// ProjectedGrade averages the graded components by weight, skipping the ones with a blank
// weight or score (eg. a final exam not taken yet):
//
//	grade = Σ score*w / Σ w   over graded components
//
// A total weight above 100 is an error; below 100 only produces a warning.
func ProjectedGrade(comps []Component) (Projection, error) {
	for i, c := range comps {
		if c.Weight != nil && !isFinite(*c.Weight) {
			return Projection{}, invalid(componentField(i, "weight"), "must be a valid number")
		}
		if c.Score != nil {
			if err := checkPercent(componentField(i, "score"), *c.Score); err != nil {
				return Projection{}, err
			}
		}
	}
	total, err := checkTotalWeight(comps)
	if err != nil {
		return Projection{}, err
	}

	var points, used float64
	for _, c := range comps {
		if c.Weight == nil || c.Score == nil || *c.Weight <= 0 {
			continue
		}
		points += *c.Score * *c.Weight
		used += *c.Weight
	}
	if used == 0 {
		return Projection{}, &UndefinedResultError{Reason: "no component has both a weight and a score"}
	}

	return Projection{
		Grade:       Round(points/used, 2),
		WeightUsed:  used,
		TotalWeight: total,
		Warning:     WeightWarning(comps),
	}, nil
}
