package analyticssvc

import (
	"sort"
	"sync"

	"github.com/gradefinalboss/gradeboss/core"
)

// Event names
const (
	EventCalculateFinalExam     = "calculate_final_exam"
	EventCalculateWeightedGrade = "calculate_weighted_grade"
	EventCalculateProjected     = "calculate_projected_grade"
	EventCalculateGPA           = "calculate_gpa"
	EventSaveCalculation        = "save_calculation"
	EventSignUp                 = "sign_up"
	EventSignIn                 = "sign_in"
)

type logService struct {
	logger core.Logger
}

var _ core.AnalyticsService = (*logService)(nil)

// NewLogService returns an AnalyticsService that logs events at info level.
func NewLogService(logger core.Logger) core.AnalyticsService {
	return &logService{logger: logger}
}

func (svc *logService) Track(event string, params map[string]interface{}) {
	if params == nil {
		params = map[string]interface{}{}
	}
	svc.logger.Info("analytics: "+event, params)
}

type Event struct {
	Name   string
	Params map[string]interface{}
}

// Recorder keeps tracked events in memory. Used in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ core.AnalyticsService = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Track(event string, params map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: event, Params: params})
}

// Events returns a copy of the tracked events, in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the sorted names of the tracked events.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
