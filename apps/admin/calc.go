package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/gradefinalboss/gradeboss/core/grade"
)

// courseRows collects repeated -course flags.
type courseRows struct {
	rows *grade.Rows[grade.Course]
}

func (c courseRows) String() string {
	if c.rows == nil {
		return ""
	}
	toJoin := make([]string, 0, c.rows.Len())
	for _, crs := range c.rows.Values() {
		toJoin = append(toJoin, fmt.Sprintf("%s:%g", crs.Grade, crs.Credits))
	}
	return strings.Join(toJoin, ",")
}

// Set parses [NAME=]GRADE:CREDITS
func (c courseRows) Set(s string) error {
	var crs grade.Course
	if idx := strings.Index(s, "="); idx >= 0 {
		crs.Name, s = s[:idx], s[idx+1:]
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("course must be of form [NAME=]GRADE:CREDITS (got %q)", s)
	}
	crs.Grade = parts[0]
	crs.Credits = grade.ParseCredits(parts[1])
	c.rows.Add(crs)
	return nil
}

func (cli *commandLine) calc(args []string) error {
	finalCmd := flag.NewFlagSet("calc final", flag.ExitOnError)
	finalCurrent := finalCmd.String("current", "", "Current grade (%).")
	finalDesired := finalCmd.String("desired", "", "Desired course grade (%).")
	finalWeight := finalCmd.String("weight", "", "Final exam weight (%).")

	courses := courseRows{rows: new(grade.Rows[grade.Course])}
	gpaCmd := flag.NewFlagSet("calc gpa", flag.ExitOnError)
	gpaCmd.Var(courses, "course", "A course as [NAME=]GRADE:CREDITS. Repeat for each course.")
	gpaPriorGPA := gpaCmd.String("prior-gpa", "", "Cumulative GPA before this semester.")
	gpaPriorCredits := gpaCmd.String("prior-credits", "", "Credits earned before this semester.")

	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "final":
		if err := finalCmd.Parse(args[1:]); err != nil {
			return err
		}
		return cli.calcFinal(*finalCurrent, *finalDesired, *finalWeight)
	case "gpa":
		if err := gpaCmd.Parse(args[1:]); err != nil {
			return err
		}
		if courses.rows.Len() == 0 {
			gpaCmd.Usage()
			return errHelp
		}
		return cli.calcGPA(courses.rows.Values(), *gpaPriorGPA, *gpaPriorCredits)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) calcFinal(current, desired, weight string) error {
	c, err := grade.ParseNumber("current", current)
	if err != nil {
		return err
	}
	d, err := grade.ParseNumber("desired", desired)
	if err != nil {
		return err
	}
	w, err := grade.ParseNumber("weight", weight)
	if err != nil {
		return err
	}

	required, err := grade.RequiredFinalScore(c, d, w)
	if err != nil {
		return err
	}
	fb := grade.FeedbackFor(required)
	fmt.Fprintf(cli.out, "Required final exam score: %.2f%% (%s)\n%s\n", required, fb.Level, fb.Message)
	return nil
}

func (cli *commandLine) calcGPA(courses []grade.Course, priorGPA, priorCredits string) error {
	prior := new(grade.PriorRecord)
	var err error
	if prior.GPA, err = grade.ParseOptional("prior-gpa", priorGPA); err != nil {
		return err
	}
	if prior.TotalCredits, err = grade.ParseOptional("prior-credits", priorCredits); err != nil {
		return err
	}

	sem := grade.SemesterTotals(courses)
	gpa, ok := sem.GPA()
	if !ok {
		return &grade.UndefinedResultError{Reason: "no course with a known grade and positive credits"}
	}
	fmt.Fprintf(cli.out, "Semester GPA: %.2f (%g credits)\n", grade.Round(gpa, 2), sem.Credits)
	for _, idx := range sem.Excluded {
		fmt.Fprintf(cli.out, "  skipped course %d: unknown grade or no credits\n", idx+1)
	}

	if prior.GPA == nil && prior.TotalCredits == nil {
		return nil
	}
	cumulative, err := grade.CumulativeGPA(gpa, sem.Credits, prior)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Cumulative GPA: %.3f\n", cumulative)
	return nil
}
