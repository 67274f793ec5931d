package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studypack/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is an optional interface for screens that show a status
// on the right of the header.
type StatusProvider interface {
	HeaderStatus() string
}

// Resumer is an optional interface for screens that refresh when a screen
// pushed above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// InputCapturer is an optional interface for screens with text entry.
// While CapturingInput reports true, esc is delivered to the screen
// instead of navigating back.
type InputCapturer interface {
	CapturingInput() bool
}
