package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives the load, fold and check phase boundaries of Run
// and RunFile.
type PhaseObserver func(PhaseEvent)

// CaseStatus is the state of one case in a running fold.
type CaseStatus int

const (
	CaseQueued CaseStatus = iota
	CaseFolding
	CaseDone
	CaseFailed
	CaseSkipped
)

func (s CaseStatus) String() string {
	switch s {
	case CaseFolding:
		return "folding"
	case CaseDone:
		return "done"
	case CaseFailed:
		return "failed"
	case CaseSkipped:
		return "skipped"
	default:
		return "queued"
	}
}

// CaseEvent reports a case changing state. Index is the case's position in
// the fixture.
type CaseEvent struct {
	Index  int
	Name   string
	Status CaseStatus
}

// ProgressSink receives case events. Run calls it from its worker
// goroutines, so it must be safe for concurrent use.
type ProgressSink interface {
	OnCase(CaseEvent)
}

// ChannelSink forwards events to a channel.
type ChannelSink struct {
	Ch chan<- CaseEvent
}

func (s ChannelSink) OnCase(ev CaseEvent) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}
