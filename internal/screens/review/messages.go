package review

import "github.com/abhisek/studypack/internal/review"

// fetchedMsg is sent when the draft has been (re)loaded.
type fetchedMsg struct{}

// actionDoneMsg is sent when an approve or regenerate finishes. The
// workflow's fields may be read again once it arrives.
type actionDoneMsg struct {
	Action review.Busy
	Err    error
}
