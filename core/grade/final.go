package grade

// RequiredFinalScore returns the score needed on the final exam to end the course with desired,
// given the current grade and the final exam weight (all percentages in [0, 100]).
//
//	required = (desired - current * (1 - weight/100)) / (weight/100)
//
// The result is not clamped: above 100 means unreachable, below 0 means already secured.
func RequiredFinalScore(current, desired, finalWeight float64) (float64, error) {
	if err := checkPercent("current_grade", current); err != nil {
		return 0, err
	}
	if err := checkPercent("desired_grade", desired); err != nil {
		return 0, err
	}
	if err := checkPercent("final_weight", finalWeight); err != nil {
		return 0, err
	}
	if finalWeight == 0 {
		return 0, invalid("final_weight", "must be greater than 0")
	}

	w := finalWeight / 100
	return Round((desired-current*(1-w))/w, 2), nil
}

type Level string

const (
	LevelInfeasible Level = "infeasible"
	LevelVeryHard   Level = "very_hard"
	LevelModerate   Level = "moderate"
	LevelEasy       Level = "easy"
	LevelVeryEasy   Level = "very_easy"
	LevelAchieved   Level = "achieved"
)

// Feedback is the qualitative reading of a required final exam score.
type Feedback struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

var feedbacks = map[Level]Feedback{
	LevelInfeasible: {LevelInfeasible, "You're fucked."},
	LevelVeryHard:   {LevelVeryHard, "Possible. But you'll need a lot of White Zero Sugar Monster Energy."},
	LevelModerate:   {LevelModerate, "Pretty good. One solid night (or two) of studying and you're there."},
	LevelEasy:       {LevelEasy, "Well done. Cram the few hours before to familiarize yourself and you're golden."},
	LevelVeryEasy:   {LevelVeryEasy, "You're a beast. Show up and ball out. No stress here."},
	LevelAchieved:   {LevelAchieved, "Don't even need to show up. Turn up the big bootie mix and celebrate. Cheers!"},
}

// FeedbackFor maps a required score to its bracket. Lower bounds are inclusive:
// (100, +inf) infeasible, [85, 100] very hard, [60, 85) moderate, [30, 60) easy, [0, 30) very easy,
// below 0 achieved.
func FeedbackFor(required float64) Feedback {
	switch {
	case required > 100:
		return feedbacks[LevelInfeasible]
	case required >= 85:
		return feedbacks[LevelVeryHard]
	case required >= 60:
		return feedbacks[LevelModerate]
	case required >= 30:
		return feedbacks[LevelEasy]
	case required >= 0:
		return feedbacks[LevelVeryEasy]
	default:
		return feedbacks[LevelAchieved]
	}
}
