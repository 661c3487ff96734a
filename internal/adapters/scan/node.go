package scan

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebundle/internal/adapters/fs"
)

// NodeID is the graft identifier for the scan bundler factory.
const NodeID graft.ID = "adapter.scan"

// Factory builds scan bundlers for a configured root.
type Factory struct {
	walker *fs.Walker
	hasher *fs.Hasher
}

// NewFactory creates a Factory.
func NewFactory(walker *fs.Walker, hasher *fs.Hasher) *Factory {
	return &Factory{walker: walker, hasher: hasher}
}

// New creates a bundler over root that skips paths matching ignores.
func (f *Factory) New(root string, ignores []string) *Bundler {
	return NewBundler(root, ignores, f.walker, f.hasher)
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, fs.HasherNodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[*fs.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(walker, hasher), nil
		},
	})
}
