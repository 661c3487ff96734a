package domain

import "maps"

// RecordIDKey is the field under which a dependency record carries its file id.
const RecordIDKey = "id"

// Record is an opaque, bundler-defined payload.
// The cache stores and returns records verbatim; only the id field is read.
type Record map[string]any

// ID returns the record's file id, or "" when the record has none.
func (r Record) ID() string {
	id, _ := r[RecordIDKey].(string)
	return id
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// CopyRecords returns a copy of the mapping with every record cloned.
// A nil input yields an empty, non-nil mapping.
func CopyRecords(src map[string]Record) map[string]Record {
	dst := make(map[string]Record, len(src))
	for id, rec := range src {
		dst[id] = rec.Clone()
	}
	return dst
}

// CopyModTimes returns a copy of an mtime mapping.
// A nil input yields an empty, non-nil mapping.
func CopyModTimes(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	maps.Copy(dst, src)
	return dst
}
