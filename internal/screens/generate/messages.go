package generate

import (
	"github.com/abhisek/studypack/internal/importer"
	"github.com/abhisek/studypack/internal/studypack"
)

// progressMsg is sent when the assembler starts a stage.
type progressMsg studypack.Progress

// doneMsg is sent when the import job returns.
type doneMsg struct {
	Outcome *importer.Result
	Err     error
}
