package disk

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
)

// FactoryNodeID is the unique identifier for the disk store factory Graft node.
const FactoryNodeID graft.ID = "adapter.disk.factory"

var _ ports.DiskStoreFactory = Factory{}

// Factory opens disk stores for configured cache directories.
type Factory struct{}

// Open implements ports.DiskStoreFactory.
func (Factory) Open(dir string, level domain.CompressionLevel) (ports.DiskStore, error) {
	store, err := NewStore(dir, level)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func init() {
	graft.Register(graft.Node[ports.DiskStoreFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DiskStoreFactory, error) {
			return Factory{}, nil
		},
	})
}
