package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modelcache/internal/core/ports"
)

// KeyDeriverNodeID is the unique identifier for the key deriver Graft node.
const KeyDeriverNodeID graft.ID = "adapter.fs.key_deriver"

func init() {
	graft.Register(graft.Node[ports.KeyDeriver]{
		ID:        KeyDeriverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.KeyDeriver, error) {
			return NewKeyDeriver(), nil
		},
	})
}
