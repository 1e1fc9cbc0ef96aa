package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus is the lifecycle state of a workout session.
type SessionStatus string

const (
	SessionPlanned    SessionStatus = "planned"
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed" // terminal
)

// SessionEvent triggers a status change.
type SessionEvent string

const (
	EventBegin        SessionEvent = "begin"
	EventEnd          SessionEvent = "end"
	EventAutoComplete SessionEvent = "auto-complete"
)

var ErrInvalidTransition = errors.New("invalid session status transition")

type sessionTransition struct {
	from []SessionStatus
	to   SessionStatus
}

var sessionTransitions = map[SessionEvent]sessionTransition{
	EventBegin:        {from: []SessionStatus{SessionPlanned}, to: SessionInProgress},
	EventEnd:          {from: []SessionStatus{SessionInProgress}, to: SessionCompleted},
	EventAutoComplete: {from: []SessionStatus{SessionPlanned, SessionInProgress}, to: SessionCompleted},
}

// TransitionSources returns the states from which ev may fire.
func TransitionSources(ev SessionEvent) []SessionStatus {
	return sessionTransitions[ev].from
}

// Next computes the state reached by applying ev to s.
func (s SessionStatus) Next(ev SessionEvent) (SessionStatus, error) {
	tr, ok := sessionTransitions[ev]
	if !ok {
		return s, ErrInvalidTransition
	}
	for _, from := range tr.from {
		if from == s {
			return tr.to, nil
		}
	}
	return s, ErrInvalidTransition
}

// AcceptsLogs reports whether exercise logs can be appended in this state.
func (s SessionStatus) AcceptsLogs() bool {
	return s == SessionInProgress
}

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPlanned, SessionInProgress, SessionCompleted:
		return true
	default:
		return false
	}
}

// WorkoutSession is one workout of a trainee on a given calendar day.
// TraineeID and SessionDate never change after creation; exercise logs copy them.
type WorkoutSession struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TraineeID   primitive.ObjectID  `bson:"traineeId" json:"trainee_id"`
	ProgramID   *primitive.ObjectID `bson:"programId,omitempty" json:"program_id,omitempty"`
	SessionDate time.Time           `bson:"sessionDate" json:"session_date"` // UTC midnight
	Status      SessionStatus       `bson:"status" json:"status"`
	Notes       string              `bson:"notes,omitempty" json:"notes,omitempty"`
	StartedAt   *time.Time          `bson:"startedAt,omitempty" json:"started_at,omitempty"`
	CompletedAt *time.Time          `bson:"completedAt,omitempty" json:"completed_at,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updated_at"`
}
