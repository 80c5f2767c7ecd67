// Package editor mediates user edits against a command tree: it tracks the
// current selection, applies add-command and add-flag submissions, and
// prepares export requests.
package editor

import (
	"fmt"

	"cmdtree/internal/model"
)

// Observer receives the controller's side effects. Front ends implement it
// to redraw the tree, populate the command form and show export output.
type Observer interface {
	// TreeChanged requests a re-render from the given snapshot.
	TreeChanged(tree model.Command)
	// SelectionChanged populates the command form with the selected node's fields.
	SelectionChanged(id model.NodeID, name, use, short string)
	// ExportDone surfaces the generated text, or the transport error.
	ExportDone(output string, err error)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) TreeChanged(model.Command) {}

func (NopObserver) SelectionChanged(model.NodeID, string, string, string) {}

func (NopObserver) ExportDone(string, error) {}

// Controller holds the selection and flag form state for one tree.
type Controller struct {
	tree      *model.Tree
	observer  Observer
	transport Transport

	selected model.NodeID
	flagForm FormState

	lastOutput string
	lastErr    error
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver sets the collaborator notified of re-renders, selection
// changes and export results.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithTransport sets the transport export requests are sent through.
func WithTransport(t Transport) Option {
	return func(c *Controller) {
		c.transport = t
	}
}

// New creates a controller over tree with nothing selected and the flag form hidden.
func New(tree *model.Tree, opts ...Option) *Controller {
	c := &Controller{
		tree:     tree,
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tree returns the tree the controller edits.
func (c *Controller) Tree() *model.Tree {
	return c.tree
}

// SetObserver replaces the observer. A nil observer disables notifications.
func (c *Controller) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	c.observer = o
}

// SelectNode makes id the target of the next edit and hands its fields to the
// command form. An unknown id leaves the current selection unchanged.
func (c *Controller) SelectNode(id model.NodeID) error {
	n, ok := c.tree.Node(id)
	if !ok {
		return fmt.Errorf("select node %d: %w", id, ErrUnknownNode)
	}
	c.selected = id
	c.observer.SelectionChanged(id, n.Name, n.Use, n.Short)
	return nil
}

// ClearSelection drops the current selection.
func (c *Controller) ClearSelection() {
	c.selected = model.NoNode
}

// Selected resolves the current selection against the tree.
func (c *Controller) Selected() (*model.Node, bool) {
	if c.selected == model.NoNode {
		return nil, false
	}
	return c.tree.Node(c.selected)
}

// SelectedID returns the selected id, or model.NoNode.
func (c *Controller) SelectedID() model.NodeID {
	if _, ok := c.Selected(); !ok {
		return model.NoNode
	}
	return c.selected
}

// SubmitAddCommand adds a child command under the selected node. The
// selection stays on the parent so repeated submits add siblings.
func (c *Controller) SubmitAddCommand(name, use, short string) (*model.Node, error) {
	parent, ok := c.Selected()
	if !ok {
		return nil, errNoParent()
	}

	child, err := c.tree.AddChild(parent.ID, name, use, short)
	if err != nil {
		return nil, err
	}
	c.observer.TreeChanged(c.tree.Serialize())
	return child, nil
}

// SubmitAddFlag adds a flag to the selected node and hides the flag form.
// On failure the form keeps its state.
func (c *Controller) SubmitAddFlag(name, typ, description string) (model.Flag, error) {
	target, ok := c.Selected()
	if !ok {
		return model.Flag{}, errNoCommand()
	}

	f, err := c.tree.AddFlag(target.ID, name, typ, description)
	if err != nil {
		return model.Flag{}, err
	}
	c.flagForm = FormHidden
	c.observer.TreeChanged(c.tree.Serialize())
	return f, nil
}

// Render asks the observer to redraw the current tree.
func (c *Controller) Render() {
	c.observer.TreeChanged(c.tree.Serialize())
}
