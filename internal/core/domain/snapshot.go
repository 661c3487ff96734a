package domain

// Snapshot is the durable unit of the cache.
// All three mappings are always non-nil once constructed through NewSnapshot
// or decoded by the snapshot adapter.
type Snapshot struct {
	Deps   map[string]Record `json:"deps"`
	Pkgs   map[string]Record `json:"pkgs"`
	MTimes map[string]int64  `json:"mtimes"`
}

// NewSnapshot returns a snapshot with three empty mappings.
func NewSnapshot() Snapshot {
	return Snapshot{
		Deps:   make(map[string]Record),
		Pkgs:   make(map[string]Record),
		MTimes: make(map[string]int64),
	}
}

// Clone returns a copy of the snapshot that shares no maps with the receiver.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Deps:   CopyRecords(s.Deps),
		Pkgs:   CopyRecords(s.Pkgs),
		MTimes: CopyModTimes(s.MTimes),
	}
}

// Empty reports whether the snapshot holds no entries at all.
func (s Snapshot) Empty() bool {
	return len(s.Deps) == 0 && len(s.Pkgs) == 0 && len(s.MTimes) == 0
}
