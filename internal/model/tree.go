package model

import (
	"errors"
	"fmt"
)

// ErrInvalidParent is returned when a mutation targets a node that is not part of the tree.
var ErrInvalidParent = errors.New("invalid parent node")

// DefaultRootName is the name given to the root container when none is configured.
const DefaultRootName = "root"

// NodeID identifies a node within a single Tree. IDs are never reused.
type NodeID int

// NoNode is the zero NodeID. No node in a tree ever carries it.
const NoNode NodeID = 0

// Flag represents a named, typed option attached to a command.
type Flag struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Node represents a command in the tree.
//
// Flags and Children stay nil until first use. A nil slice means "never
// initialised" and is omitted on export; an empty slice is exported as [].
// Mutate through Tree only.
type Node struct {
	ID       NodeID
	Name     string
	Use      string
	Short    string
	Flags    []Flag
	Children []*Node

	parent *Node
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether n is the tree's root container.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Tree is the single owned aggregate holding every node of an editing session.
type Tree struct {
	root   *Node
	nodes  map[NodeID]*Node
	nextID NodeID
}

// NewTree creates a tree holding only a root named rootName with an empty
// children sequence.
func NewTree(rootName string) *Tree {
	t := &Tree{nodes: make(map[NodeID]*Node)}
	t.root = t.newNode(rootName, "", "")
	t.root.Children = []*Node{}
	return t
}

func (t *Tree) newNode(name, use, short string) *Node {
	t.nextID++
	n := &Node{ID: t.nextID, Name: name, Use: use, Short: short}
	t.nodes[n.ID] = n
	return n
}

// Root returns the root container.
func (t *Tree) Root() *Node {
	return t.root
}

// Node looks up a node by id.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// AddChild appends a new command under parent and returns it. The new node
// starts with an empty children sequence and no flags.
func (t *Tree) AddChild(parent NodeID, name, use, short string) (*Node, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return nil, fmt.Errorf("add child to node %d: %w", parent, ErrInvalidParent)
	}
	if p.Children == nil {
		p.Children = []*Node{}
	}

	child := t.newNode(name, use, short)
	child.Children = []*Node{}
	child.parent = p
	p.Children = append(p.Children, child)
	return child, nil
}

// AddFlag appends a flag to target and returns a copy of it.
func (t *Tree) AddFlag(target NodeID, name, typ, description string) (Flag, error) {
	n, ok := t.nodes[target]
	if !ok {
		return Flag{}, fmt.Errorf("add flag to node %d: %w", target, ErrInvalidParent)
	}
	if n.Flags == nil {
		n.Flags = []Flag{}
	}

	f := Flag{Name: name, Type: typ, Description: description}
	n.Flags = append(n.Flags, f)
	return f, nil
}

// Walk visits every node in depth-first pre-order, children in insertion
// order. Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(t.root, 0)
}

// Serialize returns a deep, order-preserving snapshot of the whole tree.
// Later mutations of the tree do not affect the returned value.
func (t *Tree) Serialize() Command {
	return snapshot(t.root)
}

func snapshot(n *Node) Command {
	c := Command{Name: n.Name, Use: n.Use, Short: n.Short}
	if n.Flags != nil {
		c.Flags = make([]Flag, len(n.Flags))
		copy(c.Flags, n.Flags)
	}
	if n.Children != nil {
		c.Children = make([]Command, 0, len(n.Children))
		for _, child := range n.Children {
			c.Children = append(c.Children, snapshot(child))
		}
	}
	return c
}

// FromCommand rebuilds a tree from a wire snapshot. Containers absent in c
// stay uninitialised in the result, so FromCommand(c).Serialize() equals c.
func FromCommand(c Command) *Tree {
	t := &Tree{nodes: make(map[NodeID]*Node)}
	t.root = t.build(c, nil)
	return t
}

func (t *Tree) build(c Command, parent *Node) *Node {
	n := t.newNode(c.Name, c.Use, c.Short)
	n.parent = parent
	if c.Flags != nil {
		n.Flags = make([]Flag, len(c.Flags))
		copy(n.Flags, c.Flags)
	}
	if c.Children != nil {
		n.Children = make([]*Node, 0, len(c.Children))
		for _, cc := range c.Children {
			n.Children = append(n.Children, t.build(cc, n))
		}
	}
	return n
}
