package grade

import (
	"strconv"
	"strings"
)

// Scale maps letter grades to grade points on the 4.0 scale.
var Scale = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0,
	"F": 0.0,
}

// maxPriorGPA tolerates weighted-scale schools.
const maxPriorGPA = 5.0

// GradePoints resolves a letter grade (case insensitive) or a numeric value in [0, 4].
func GradePoints(token string) (float64, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if t == "" {
		return 0, invalid("grade", "this field is required")
	}
	if pts, ok := Scale[t]; ok {
		return pts, nil
	}
	if pts, err := strconv.ParseFloat(t, 64); err == nil && isFinite(pts) && pts >= 0 && pts <= 4 {
		return pts, nil
	}
	return 0, invalid("grade", "invalid grade %q: use A, B+, 3.7, etc.", token)
}

// Course is one row of a semester. Credits that are not a positive number make the course ineligible.
type Course struct {
	Name    string  `json:"name"`
	Grade   string  `json:"grade"`
	Credits float64 `json:"credits"`
}

// Semester holds the totals of the eligible courses.
type Semester struct {
	Points   float64 `json:"points"`
	Credits  float64 `json:"credits"`
	Included []int   `json:"included"`
	Excluded []int   `json:"excluded"`
}

// GPA returns the unrounded semester GPA; ok is false when no course is eligible.
func (s Semester) GPA() (gpa float64, ok bool) {
	if s.Credits <= 0 {
		return 0, false
	}
	return s.Points / s.Credits, true
}

// SemesterTotals sums grade points and credits over the eligible courses.
func SemesterTotals(courses []Course) Semester {
	sem := Semester{Included: []int{}, Excluded: []int{}}
	for i, c := range courses {
		pts, err := GradePoints(c.Grade)
		if err != nil || !isFinite(c.Credits) || c.Credits <= 0 {
			sem.Excluded = append(sem.Excluded, i)
			continue
		}
		sem.Points += pts * c.Credits
		sem.Credits += c.Credits
		sem.Included = append(sem.Included, i)
	}
	return sem
}

// SemesterGPA is the credit-weighted mean of grade points, rounded to 2 places.
// Ineligible courses are left out of both sums; with no eligible course the result is undefined.
func SemesterGPA(courses []Course) (float64, error) {
	gpa, ok := SemesterTotals(courses).GPA()
	if !ok {
		return 0, &UndefinedResultError{Reason: "no course with a known grade and positive credits"}
	}
	return Round(gpa, 2), nil
}

// PriorRecord is the GPA accrued before the current term. Both fields go together.
type PriorRecord struct {
	GPA          *float64 `json:"gpa"`
	TotalCredits *float64 `json:"total_credits"`
}

func (p *PriorRecord) isEmpty() bool {
	return p == nil || (p.GPA == nil && p.TotalCredits == nil)
}

// CumulativeGPA blends the current term into the prior record, weighted by credits,
// rounded to 3 places. A nil or empty prior record means the term stands alone.
func CumulativeGPA(semesterGPA, semesterCredits float64, prior *PriorRecord) (float64, error) {
	if !isFinite(semesterGPA) || semesterGPA < 0 || semesterGPA > maxPriorGPA {
		return 0, invalid("semester_gpa", "must be a number between 0 and 5")
	}
	if !isFinite(semesterCredits) || semesterCredits < 0 {
		return 0, invalid("semester_credits", "must be a non-negative number")
	}

	var priorGPA, priorCredits float64
	if !prior.isEmpty() {
		if prior.GPA == nil || prior.TotalCredits == nil {
			return 0, invalid("prior", "please enter both prior GPA and prior credits, or leave both blank")
		}
		priorGPA, priorCredits = *prior.GPA, *prior.TotalCredits
		if !isFinite(priorGPA) || priorGPA < 0 || priorGPA > maxPriorGPA {
			return 0, invalid("prior_gpa", "must be a number between 0 and 5")
		}
		if !isFinite(priorCredits) || priorCredits < 0 {
			return 0, invalid("prior_credits", "must be a non-negative number")
		}
	}

	credits := priorCredits + semesterCredits
	if credits == 0 {
		return 0, invalid("credits", "combined credits cannot be zero")
	}
	return Round((priorGPA*priorCredits+semesterGPA*semesterCredits)/credits, 3), nil
}
