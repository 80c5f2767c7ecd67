package codegen

import (
	"context"

	"cmdtree/internal/model"
)

// Local generates source in-process. It satisfies editor.Transport so an
// editor can export without a running generation service.
type Local struct{}

// Send parses body as a wire tree and returns the generated source.
func (Local) Send(ctx context.Context, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	root, err := model.Parse(body)
	if err != nil {
		return "", err
	}
	return Generate(root)
}
