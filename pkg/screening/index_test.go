package screening

import (
	"sync"
	"testing"
)

func personEntity(id, name string) *Entity {
	return &Entity{
		ID:     id,
		Name:   name,
		Type:   TypePerson,
		Source: SourceOFACSDN,
		Person: &PersonDetail{},
	}
}

func TestIndexAddAllAndGetAll(t *testing.T) {
	idx := NewIndex()
	idx.AddAll(personEntity("1", "Alice"), personEntity("2", "Bob"))

	if got := idx.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}
	all := idx.GetAll()
	if len(all) != 2 {
		t.Fatalf("GetAll() returned %d entities, want 2", len(all))
	}
}

func TestIndexReplaceAll(t *testing.T) {
	idx := NewIndex()
	idx.AddAll(personEntity("1", "Alice"))
	idx.ReplaceAll([]*Entity{personEntity("2", "Bob"), personEntity("3", "Carla")})

	if got := idx.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}
	for _, e := range idx.GetAll() {
		if e.ID == "1" {
			t.Fatalf("ReplaceAll did not discard prior contents")
		}
	}
}

func TestIndexGetBySourceAndType(t *testing.T) {
	idx := NewIndex()
	vessel := &Entity{ID: "v1", Name: "Ship", Type: TypeVessel, Source: SourceEUCSL, Vessel: &VesselDetail{}}
	idx.AddAll(personEntity("1", "Alice"), vessel)

	bySource := idx.GetBySource(SourceEUCSL)
	if len(bySource) != 1 || bySource[0].ID != "v1" {
		t.Fatalf("GetBySource(EU_CSL) = %+v, want [v1]", bySource)
	}
	byType := idx.GetByType(TypePerson)
	if len(byType) != 1 || byType[0].ID != "1" {
		t.Fatalf("GetByType(PERSON) = %+v, want [1]", byType)
	}
}

func TestIndexClear(t *testing.T) {
	idx := NewIndex()
	idx.AddAll(personEntity("1", "Alice"))
	idx.Clear()
	if got := idx.Size(); got != 0 {
		t.Fatalf("Size() after Clear() = %d, want 0", got)
	}
}

// TestIndexConcurrentReadersDuringWrite exercises spec §8 property 8: reads
// never observe a torn/partial snapshot while AddAll runs concurrently.
func TestIndexConcurrentReadersDuringWrite(t *testing.T) {
	idx := NewIndex()
	idx.AddAll(personEntity("0", "Seed"))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			idx.AddAll(personEntity("x", "Extra"))
		}
		close(stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				all := idx.GetAll()
				if len(all) == 0 {
					t.Error("GetAll() observed an empty snapshot after seeding")
				}
			}
		}
	}()

	wg.Wait()
}
