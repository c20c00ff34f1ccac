package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
)

// NodeID is the unique identifier for the tracer Graft node.
const NodeID graft.ID = "adapter.tracer"

// cliScope distinguishes spans opened by the admin CLI from library spans.
const cliScope = domain.AppName + "/cli"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			// The global provider is swapped in later by --trace; otel delegates to it.
			return NewOTelTracer(cliScope), nil
		},
	})
}
