// Package lead holds the in-memory wizard state for a single lead capture session.
package lead

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Step is the current wizard screen.
type Step int

const (
	// StepWelcome is the landing screen with the "новый лид" action.
	StepWelcome Step = iota + 1
	// StepSelectQR lets the operator pick one of the sample QR images.
	StepSelectQR
	// StepQuestionnaire collects the form and the quality-control recording.
	StepQuestionnaire
	// StepShare hands the lead off to a messenger.
	StepShare
)

const (
	// FirstStep is where every session starts and every reset returns.
	FirstStep = StepWelcome
	// LastStep is the terminal step; Advance never goes past it.
	LastStep = StepShare
)

// String returns the human-readable name of the step.
func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "Welcome"
	case StepSelectQR:
		return "Select QR"
	case StepQuestionnaire:
		return "Questionnaire"
	case StepShare:
		return "Share"
	default:
		return "Unknown"
	}
}

// Title returns the on-screen step heading.
func (s Step) Title() string {
	switch s {
	case StepWelcome:
		return "Приветствие"
	case StepSelectQR:
		return "Выбор QR"
	case StepQuestionnaire:
		return "Анкета"
	case StepShare:
		return "Отправка"
	default:
		return "?"
	}
}

var (
	// ErrUnknownField is returned when a form field name is not recognised.
	ErrUnknownField = errors.New("unknown form field")
	// ErrImageIndex is returned when a sample image index is out of range.
	ErrImageIndex = errors.New("image index out of range")
)

// Field names one of the questionnaire inputs.
type Field string

const (
	FieldParentName Field = "parentName"
	FieldChildName  Field = "childName"
	FieldAge        Field = "age"
)

// Fields returns the questionnaire fields in display order.
func Fields() []Field {
	return []Field{FieldParentName, FieldChildName, FieldAge}
}

// Label returns the questionnaire label shown next to the field.
func (f Field) Label() string {
	switch f {
	case FieldParentName:
		return "Имя родителя"
	case FieldChildName:
		return "Имя ребенка"
	case FieldAge:
		return "Возраст"
	default:
		return string(f)
	}
}

// ParseField maps a form field name (e.g., "parentName") to a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields() {
		if string(f) == name {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// FormData is the lead's contact record.
type FormData struct {
	ParentName string `json:"parentName"`
	ChildName  string `json:"childName"`
	Age        string `json:"age"`
}

// Get returns the value of the given field.
func (fd FormData) Get(f Field) string {
	switch f {
	case FieldParentName:
		return fd.ParentName
	case FieldChildName:
		return fd.ChildName
	case FieldAge:
		return fd.Age
	default:
		return ""
	}
}

func (fd *FormData) set(f Field, value string) {
	switch f {
	case FieldParentName:
		fd.ParentName = value
	case FieldChildName:
		fd.ChildName = value
	case FieldAge:
		fd.Age = value
	}
}

// Recording marks that a quality-control recording took place.
// It never carries the recorded media.
type Recording struct {
	ID        uuid.UUID `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	StoppedAt time.Time `json:"stoppedAt"`
}

// Duration returns how long the recording ran.
func (r Recording) Duration() time.Duration {
	return r.StoppedAt.Sub(r.StartedAt)
}

// State is the whole wizard session.
//
// State is not safe for concurrent use; callers that share it across
// goroutines must serialize access.
type State struct {
	Step          Step       `json:"step"`
	SelectedImage string     `json:"selectedImage,omitempty"`
	IsRecording   bool       `json:"isRecording"`
	RecordedVideo *Recording `json:"recordedVideo,omitempty"`
	Form          FormData   `json:"formData"`

	startedAt time.Time
}

// New returns a session in its initial state.
func New() *State {
	return &State{Step: FirstStep} //nolint:exhaustruct // zero values are the defaults
}

// Advance moves to the next step and returns it. The step is clamped at LastStep.
func (s *State) Advance() Step {
	if s.Step < FirstStep {
		s.Step = FirstStep
	}

	if s.Step < LastStep {
		s.Step++
	}

	return s.Step
}

// Reset returns every field to its initial value.
func (s *State) Reset() {
	*s = State{Step: FirstStep} //nolint:exhaustruct // zero values are the defaults
}

// SelectImage records the chosen QR image.
func (s *State) SelectImage(url string) {
	s.SelectedImage = url
}

// SelectImageAt selects SampleImages[i].
func (s *State) SelectImageAt(i int) error {
	if i < 0 || i >= len(SampleImages) {
		return fmt.Errorf("%w: %d", ErrImageIndex, i)
	}

	s.SelectImage(SampleImages[i])

	return nil
}

// FormLocked reports whether the questionnaire is read-only.
// The form locks once a recording starts and stays locked after it is captured.
func (s *State) FormLocked() bool {
	return s.IsRecording || s.RecordedVideo != nil
}

// SetField updates a form field. It returns false without changing anything
// while the form is locked or when the field is unknown.
func (s *State) SetField(f Field, value string) bool {
	if s.FormLocked() {
		return false
	}

	if _, err := ParseField(string(f)); err != nil {
		return false
	}

	s.Form.set(f, value)

	return true
}

// BeginRecording flags a recording in progress. Only valid from idle.
func (s *State) BeginRecording(now time.Time) bool {
	if s.FormLocked() {
		return false
	}

	s.IsRecording = true
	s.startedAt = now

	return true
}

// FinishRecording stores the recording handle. Only valid while recording.
func (s *State) FinishRecording(now time.Time) bool {
	if !s.IsRecording {
		return false
	}

	s.IsRecording = false
	s.RecordedVideo = &Recording{
		ID:        uuid.New(),
		StartedAt: s.startedAt,
		StoppedAt: now,
	}

	return true
}

// CanAdvance reports whether the current step's "далее" action is available.
func (s *State) CanAdvance() bool {
	switch s.Step {
	case StepWelcome:
		return true
	case StepSelectQR:
		return s.SelectedImage != ""
	case StepQuestionnaire:
		return !s.IsRecording && s.RecordedVideo != nil
	default:
		return false
	}
}

// Snapshot returns a copy that is safe to hand to renderers.
func (s *State) Snapshot() State {
	cp := *s
	if s.RecordedVideo != nil {
		rec := *s.RecordedVideo
		cp.RecordedVideo = &rec
	}

	return cp
}
