package study

import "github.com/abhisek/studypack/internal/backend"

// packLoadedMsg carries the published pack, or why it could not be loaded.
type packLoadedMsg struct {
	Pack *backend.PublishedPack
	Err  error
}

// submittedMsg is sent when the quiz attempt was saved or failed to save.
type submittedMsg struct {
	Err error
}

// jumpMsg reports the video position a key point pointed at.
type jumpMsg struct {
	URL string
	Err error
}
