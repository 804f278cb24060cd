package screening

import "sync/atomic"

// indexSnapshot is the immutable data behind a single atomic pointer swap.
type indexSnapshot struct {
	all      []*Entity
	bySource map[SourceList][]*Entity
	byType   map[EntityType][]*Entity
}

func emptySnapshot() *indexSnapshot {
	return &indexSnapshot{
		bySource: make(map[SourceList][]*Entity),
		byType:   make(map[EntityType][]*Entity),
	}
}

func buildSnapshot(entities []*Entity) *indexSnapshot {
	snap := emptySnapshot()
	snap.all = append([]*Entity(nil), entities...)
	for _, e := range entities {
		snap.bySource[e.Source] = append(snap.bySource[e.Source], e)
		snap.byType[e.Type] = append(snap.byType[e.Type], e)
	}
	return snap
}

// Index is the in-memory, concurrent-readable entity store (spec §4.8).
// Readers never block: every mutation builds a fresh snapshot and swaps it
// in atomically, so a reader mid-scan always sees one consistent
// generation, matching the teacher's copy-on-write config-reload pattern.
type Index struct {
	snapshot atomic.Pointer[indexSnapshot]
}

// NewIndex returns an empty Index ready for concurrent use.
func NewIndex() *Index {
	idx := &Index{}
	idx.snapshot.Store(emptySnapshot())
	return idx
}

// AddAll appends normalized entities to the index, replacing the
// underlying snapshot (spec §4.8 addAll).
func (idx *Index) AddAll(entities ...*Entity) {
	if len(entities) == 0 {
		return
	}
	cur := idx.snapshot.Load()
	next := append(append([]*Entity(nil), cur.all...), entities...)
	idx.snapshot.Store(buildSnapshot(next))
}

// ReplaceAll atomically swaps the entire index contents (spec §4.8
// replaceAll), used for full-reload refresh cycles.
func (idx *Index) ReplaceAll(entities []*Entity) {
	idx.snapshot.Store(buildSnapshot(entities))
}

// GetAll returns every entity currently indexed. The returned slice is a
// snapshot copy; mutating it does not affect the index.
func (idx *Index) GetAll() []*Entity {
	cur := idx.snapshot.Load()
	out := make([]*Entity, len(cur.all))
	copy(out, cur.all)
	return out
}

// GetBySource returns entities from a single source list.
func (idx *Index) GetBySource(source SourceList) []*Entity {
	cur := idx.snapshot.Load()
	bucket := cur.bySource[source]
	out := make([]*Entity, len(bucket))
	copy(out, bucket)
	return out
}

// GetByType returns entities of a single declared type.
func (idx *Index) GetByType(t EntityType) []*Entity {
	cur := idx.snapshot.Load()
	bucket := cur.byType[t]
	out := make([]*Entity, len(bucket))
	copy(out, bucket)
	return out
}

// Size returns the number of indexed entities.
func (idx *Index) Size() int {
	return len(idx.snapshot.Load().all)
}

// Clear empties the index.
func (idx *Index) Clear() {
	idx.snapshot.Store(emptySnapshot())
}
