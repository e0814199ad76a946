package middleware

import "net/http"

// Decision tells the pipeline whether to run the next stage.
type Decision int

const (
	// Continue passes the request on to the next stage.
	Continue Decision = iota

	// Stop ends processing. The stage has already written the response.
	Stop
)

// Stage is one step of request admission.
//
// Process may return a request carrying a derived context; that request is
// what later stages and the final handler see. A stage returning Stop must
// have written a complete response.
type Stage interface {
	Name() string
	Process(w http.ResponseWriter, r *http.Request) (*http.Request, Decision)
}

// Pipeline runs stages in the order they were given, then the handler.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline. Stage order is execution order.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Then returns a handler that runs the pipeline and, if no stage stopped
// the request, next.
func (p *Pipeline) Then(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, stage := range p.stages {
			var decision Decision
			r, decision = stage.Process(w, r)
			if decision == Stop {
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}
