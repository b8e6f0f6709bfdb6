package content

import (
	"sync"
	"testing"
)

func TestStoreAppendOnlyOrder(t *testing.T) {
	s := NewStore()
	tags := []Tag{TagPDF, TagCode, TagLink, TagCalendar}
	for _, tag := range tags {
		s.Append(tag, Payload{"n": string(tag)})
	}
	all := s.All()
	if len(all) != len(tags) {
		t.Fatalf("len = %d, want %d", len(all), len(tags))
	}
	for i, b := range all {
		if b.Tag != tags[i] {
			t.Fatalf("block %d tag = %s, want %s", i, b.Tag, tags[i])
		}
		if b.ID != int64(i+1) {
			t.Fatalf("block %d id = %d, want %d", i, b.ID, i+1)
		}
	}
}

func TestStoreSnapshotsAreIsolated(t *testing.T) {
	s := NewStore()
	in := Payload{"url": "https://a"}
	b := s.Append(TagLink, in)
	in["url"] = "mutated"
	b.Payload["url"] = "mutated too"

	snap := s.All()
	snap[0].Payload["url"] = "mutated again"

	got, ok := s.Get(b.ID)
	if !ok {
		t.Fatalf("block %d not found", b.ID)
	}
	if got.Payload["url"] != "https://a" {
		t.Fatalf("stored payload changed: %v", got.Payload["url"])
	}
	if _, ok := s.Get(99); ok {
		t.Fatalf("unexpected block 99")
	}
}

func TestStoreSnapshotsCopyNestedValues(t *testing.T) {
	s := NewStore()
	b := s.Append(Tag("custom"), Payload{
		"meta":  map[string]any{"tags": []any{"bio", map[string]any{"level": "intro"}}},
		"rows":  []Payload{{"q": "first"}},
		"links": []string{"https://a"},
	})

	snap := s.All()[0].Payload
	meta := snap["meta"].(map[string]any)
	meta["extra"] = true
	tags := meta["tags"].([]any)
	tags[0] = "chem"
	tags[1].(map[string]any)["level"] = "advanced"
	snap["rows"].([]Payload)[0]["q"] = "changed"
	snap["links"].([]string)[0] = "https://b"

	got, _ := s.Get(b.ID)
	gotMeta := got.Payload["meta"].(map[string]any)
	if _, ok := gotMeta["extra"]; ok {
		t.Fatalf("nested map key leaked into store")
	}
	gotTags := gotMeta["tags"].([]any)
	if gotTags[0] != "bio" || gotTags[1].(map[string]any)["level"] != "intro" {
		t.Fatalf("nested slice changed: %v", gotTags)
	}
	if got.Payload["rows"].([]Payload)[0]["q"] != "first" {
		t.Fatalf("nested payload changed: %v", got.Payload["rows"])
	}
	if got.Payload["links"].([]string)[0] != "https://a" {
		t.Fatalf("string slice changed: %v", got.Payload["links"])
	}
}

func TestStoreCountsMatchCommits(t *testing.T) {
	nb := newTestNotebook()
	committed := 0
	for i := 0; i < 10; i++ {
		c, _ := nb.BeginCapture(TagCalculator)
		if i%3 == 0 {
			c.Cancel()
			continue
		}
		if _, err := c.Submit(); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		committed++
	}
	if nb.Store.Len() != committed {
		t.Fatalf("len = %d, want %d", nb.Store.Len(), committed)
	}
}

func TestStoreConcurrentAppendUniqueIDs(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(TagCalendar, nil)
			_ = s.All()
		}()
	}
	wg.Wait()
	seen := make(map[int64]bool)
	for i, b := range s.All() {
		if seen[b.ID] {
			t.Fatalf("duplicate id %d", b.ID)
		}
		seen[b.ID] = true
		if b.ID != int64(i+1) {
			t.Fatalf("ids out of order at %d: %d", i, b.ID)
		}
	}
}
