package recognize

import (
	"context"
	"fmt"

	"github.com/danprat/ABSEN-DESA/internal/config"
	"github.com/danprat/ABSEN-DESA/internal/store"
)

// Recognizer glues capture to identification: resize, extract an
// embedding, match it against the enrolled population, and load the
// matched employee.
type Recognizer struct {
	engine    *Engine
	extractor *Extractor
	employees store.EmployeeStore

	threshold        float64
	recognizeMaxSize int
	enrollMaxSize    int
}

// Recognition is the outcome for one captured frame. Employee is nil when
// no enrolled face reached the threshold; Score carries the best
// similarity either way.
type Recognition struct {
	Employee *store.Employee
	Score    float64
}

func NewRecognizer(engine *Engine, extractor *Extractor, employees store.EmployeeStore, cfg *config.Config) *Recognizer {
	return &Recognizer{
		engine:           engine,
		extractor:        extractor,
		employees:        employees,
		threshold:        cfg.Recognition.Threshold,
		recognizeMaxSize: cfg.Extractor.RecognizeMaxSize,
		enrollMaxSize:    cfg.Extractor.EnrollMaxSize,
	}
}

// Threshold returns the configured minimum similarity for a match.
func (r *Recognizer) Threshold() float64 { return r.threshold }

// Engine exposes the matching engine for cache diagnostics and
// invalidation by enrollment flows.
func (r *Recognizer) Engine() *Engine { return r.engine }

// Recognize identifies the employee in a captured frame. ErrNoFaceDetected
// is returned when the extractor finds no face; a below-threshold match is
// not an error, just a nil Employee with the best score.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (Recognition, error) {
	resized, err := ResizeImage(image, r.recognizeMaxSize)
	if err != nil {
		return Recognition{}, fmt.Errorf("prepare frame: %w", err)
	}

	vector, err := r.extractor.Extract(ctx, resized, false)
	if err != nil {
		return Recognition{}, err
	}

	match, err := r.engine.Match(ctx, vector, r.threshold)
	if err != nil {
		return Recognition{}, err
	}
	if match.EmployeeID == 0 {
		return Recognition{Score: match.Score}, nil
	}

	emp, err := r.employees.GetEmployee(ctx, match.EmployeeID)
	if err != nil {
		return Recognition{}, fmt.Errorf("load matched employee: %w", err)
	}
	if emp == nil || !emp.IsActive {
		// Cache can trail a deactivation until the next refresh.
		return Recognition{Score: match.Score}, nil
	}
	return Recognition{Employee: emp, Score: match.Score}, nil
}

// ExtractForEnrollment produces the vector to store for an enrollment
// shot: higher resolution cap and the extractor's accurate mode.
func (r *Recognizer) ExtractForEnrollment(ctx context.Context, image []byte) ([]float32, error) {
	resized, err := ResizeImage(image, r.enrollMaxSize)
	if err != nil {
		return nil, fmt.Errorf("prepare enrollment image: %w", err)
	}
	return r.extractor.Extract(ctx, resized, true)
}
