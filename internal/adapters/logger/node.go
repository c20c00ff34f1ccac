package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modelcache/internal/adapters/detector"
	"go.trai.ch/modelcache/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			// Commands may still switch the format with --log-format.
			lg := New()
			lg.SetJSON(detector.DetectEnvironment() == detector.FormatJSON)
			return lg, nil
		},
	})
}
