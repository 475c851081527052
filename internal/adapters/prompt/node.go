package prompt

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/linkman/internal/core/ports"
)

// NodeID is the unique identifier for the path prompter Graft node.
const NodeID graft.ID = "adapter.prompt"

func init() {
	graft.Register(graft.Node[ports.PathPrompter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PathPrompter, error) {
			return New(os.Stdin, os.Stderr), nil
		},
	})
}
