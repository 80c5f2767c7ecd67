package editor

// FormState is the visibility of the ephemeral flag entry form.
type FormState int

const (
	FormHidden FormState = iota
	FormVisible
)

func (s FormState) String() string {
	if s == FormVisible {
		return "visible"
	}
	return "hidden"
}

// RequestAddFlag shows the flag entry form. Calling it while the form is
// already visible is a no-op.
func (c *Controller) RequestAddFlag() {
	c.flagForm = FormVisible
}

// CancelAddFlag hides the flag entry form without touching the tree.
func (c *Controller) CancelAddFlag() {
	c.flagForm = FormHidden
}

// FlagForm returns the current flag form state.
func (c *Controller) FlagForm() FormState {
	return c.flagForm
}
