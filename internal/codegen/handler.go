package codegen

import (
	"errors"
	"io"
	"log"
	"net/http"

	"cmdtree/internal/model"
)

// maxTreeBytes bounds the request body accepted by Handler.
const maxTreeBytes = 1 << 20

// Handler serves POST /generate: a JSON command tree in, Go source out as
// text/plain.
func Handler() http.Handler {
	return http.HandlerFunc(handleGenerate)
}

func handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTreeBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "tree too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	root, err := model.Parse(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	code, err := Generate(root)
	if err != nil {
		log.Printf("generate failed for %q: %v", root.Name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("generated %d commands for %q", root.Count(), root.Name)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, code)
}
