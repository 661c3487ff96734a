package ports

import "go.trai.ch/rebundle/internal/core/domain"

// SnapshotStore reads and writes a single durable cache snapshot.
//
//go:generate go run go.uber.org/mock/mockgen -source=snapshot_store.go -destination=mocks/mock_snapshot_store.go -package=mocks
type SnapshotStore interface {
	// Path returns the location of the snapshot.
	Path() string
	// Read returns the persisted snapshot.
	// A missing snapshot yields an error matching fs.ErrNotExist, a malformed
	// one an error matching domain.ErrCorruptSnapshot.
	Read() (domain.Snapshot, error)
	// Write replaces the persisted snapshot.
	Write(snap domain.Snapshot) error
	// Remove deletes the persisted snapshot. Removing a missing snapshot is not an error.
	Remove() error
}
