package editor

import "errors"

var (
	// ErrNoSelection matches every *NoSelectionError.
	ErrNoSelection = errors.New("no node selected")

	// ErrUnknownNode is returned when selecting an id the tree does not hold.
	ErrUnknownNode = errors.New("unknown node")

	// ErrAlreadySent is returned when an export request is sent a second time.
	ErrAlreadySent = errors.New("export request already sent")

	// ErrNoTransport is returned when exporting without a configured transport.
	ErrNoTransport = errors.New("no export transport configured")
)

// NoSelectionError reports an edit attempted while nothing is selected.
// Hint is the user-facing notice for the attempted action.
type NoSelectionError struct {
	Action string
	Hint   string
}

func (e *NoSelectionError) Error() string {
	return e.Hint
}

// Is makes errors.Is(err, ErrNoSelection) match.
func (e *NoSelectionError) Is(target error) bool {
	return target == ErrNoSelection
}

func errNoParent() error {
	return &NoSelectionError{Action: "add-command", Hint: "Select a parent node first"}
}

func errNoCommand() error {
	return &NoSelectionError{Action: "add-flag", Hint: "Select a command node first"}
}
