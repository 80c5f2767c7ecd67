package web

import (
	"log"
	"net/http"
	"strings"

	"cmdtree/internal/codegen"
	"cmdtree/internal/model"
)

// state is the payload of GET /api/state and of every successful edit.
type state struct {
	Tree     model.Command `json:"tree"`
	Selected *selection    `json:"selected"`
	Form     formFields    `json:"form"`
	FlagForm string        `json:"flagForm"`
	Output   string        `json:"output"`
	Error    string        `json:"error,omitempty"`
	Layout   Layout        `json:"layout"`
	Version  string        `json:"version"`
}

type selection struct {
	ID   model.NodeID `json:"id"`
	Path string       `json:"path"`
	Name string       `json:"name"`
}

// snapshot must be called with mu held.
func (s *Server) snapshot() state {
	st := state{
		Tree:     s.tree,
		Form:     s.form,
		FlagForm: s.ctrl.FlagForm().String(),
		Output:   s.output,
		Layout:   s.layout,
		Version:  model.Version,
	}
	if s.exportErr != nil {
		st.Error = s.exportErr.Error()
	}
	if n, ok := s.ctrl.Selected(); ok {
		path, _ := s.ctrl.Tree().PathOf(n.ID)
		st.Selected = &selection{ID: n.ID, Path: path, Name: n.Name}
	}
	return st
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.ctrl.Tree().Resolve(req.Path)
	if err == nil {
		err = s.ctrl.SelectNode(id)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleAddCommand(w http.ResponseWriter, r *http.Request) {
	var req formFields
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ctrl.SubmitAddCommand(req.Name, req.Use, req.Short); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleOpenFlagForm(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.RequestAddFlag()
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleCloseFlagForm(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.CancelAddFlag()
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleAddFlag(w http.ResponseWriter, r *http.Request) {
	var req model.Flag
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ctrl.SubmitAddFlag(req.Name, req.Type, req.Description); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleExport sends outside the lock so edits can continue while the
// generator works.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	req, err := s.ctrl.ExportTree()
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := req.Send(r.Context())

	s.mu.Lock()
	s.ctrl.CompleteExport(out, err)
	st := s.snapshot()
	s.mu.Unlock()

	if err != nil {
		log.Printf("export failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	log.Printf("exported %d bytes of generated code", len(out))
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tree := s.tree
	path := r.URL.Query().Get("path")
	if path == "" {
		path = model.RootPath
		if id := s.ctrl.SelectedID(); id != model.NoNode {
			path, _ = s.ctrl.Tree().PathOf(id)
		}
	}
	s.mu.Unlock()

	p, err := codegen.PreviewAt(tree, path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func handleFlagTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, codegen.FlagTypes())
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(strings.TrimSpace(model.HelpText()) + "\n"))
}
