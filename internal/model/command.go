package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Command is the wire shape of a node as sent to the generation service.
//
// omitzero keeps the difference between a container that was never
// initialised (nil, omitted) and one that is empty ([]).
type Command struct {
	Name     string    `json:"name"`
	Use      string    `json:"use,omitempty"`
	Short    string    `json:"short,omitempty"`
	Flags    []Flag    `json:"flags,omitzero"`
	Children []Command `json:"children,omitzero"`
}

// Marshal encodes c as compact JSON.
func (c Command) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// Parse decodes a wire-shape JSON tree. Unknown fields and trailing data
// are rejected.
func Parse(data []byte) (Command, error) {
	var c Command
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Command{}, fmt.Errorf("parse command tree: %w", err)
	}
	if dec.More() {
		return Command{}, errors.New("parse command tree: unexpected data after the top-level object")
	}
	return c, nil
}

// Count returns the number of commands in c, c included.
func (c Command) Count() int {
	n := 1
	for _, child := range c.Children {
		n += child.Count()
	}
	return n
}
