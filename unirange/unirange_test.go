package unirange

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()

	r, ok := Lookup("latin")
	require.True(t, ok, "expected catalog to contain 'latin'")
	assert.Equal(t, rune(0x20), r.Low)
	assert.Equal(t, rune(0x7f), r.High)
	assert.Equal(t, 96, r.Size())
	assert.Equal(t, "Latin Basic", r.Label)

	_, ok = Lookup("klingon")
	assert.False(t, ok, "did not expect unknown key to resolve")
}

func TestCatalogOrder(t *testing.T) {
	want := []string{"latin", "latin-1-supp", "latin-ext-a", "latin-ext-b", "punctuation", "currency"}
	if diff := cmp.Diff(want, Keys()); diff != "" {
		t.Fatalf("catalog keys mismatch (-want +got):\n%s", diff)
	}
	all := All()
	all[0].Key = "changed"
	r, _ := Lookup("latin")
	assert.Equal(t, "latin", r.Key, "All must return a copy of the catalog")
}

func TestBuildDisjointRanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()

	s := Build([]string{"latin", "currency"})
	assert.Equal(t, 144, s.Len(), "latin (96) + currency (48)")
	assert.True(t, s.Contains('A'))
	assert.True(t, s.Contains(0x20ac)) // euro sign
	assert.False(t, s.Contains(0x80))
}

func TestBuildDuplicateKeys(t *testing.T) {
	once := Build([]string{"latin"})
	twice := Build([]string{"latin", "latin"})
	assert.Equal(t, 96, once.Len())
	if diff := cmp.Diff(once.Sorted(), twice.Sorted()); diff != "" {
		t.Fatalf("duplicate key changed the set (-once +twice):\n%s", diff)
	}
}

func TestBuildIgnoresUnknownKeys(t *testing.T) {
	known := Build([]string{"latin-ext-a", "punctuation"})
	mixed := Build([]string{"nope", "latin-ext-a", "", "punctuation", "LATIN"})
	if diff := cmp.Diff(known.Sorted(), mixed.Sorted()); diff != "" {
		t.Fatalf("unknown keys changed the set (-known +mixed):\n%s", diff)
	}
}

func TestBuildEmpty(t *testing.T) {
	assert.True(t, Build(nil).IsEmpty())
	assert.True(t, Build([]string{}).IsEmpty())
	assert.True(t, Build([]string{"nonexistent-key"}).IsEmpty())
}

func TestBuildSizeBound(t *testing.T) {
	selections := [][]string{
		Keys(),
		{"latin", "latin-1-supp"},
		{"currency", "latin", "currency"},
		DefaultSelection(),
	}
	for _, keys := range selections {
		sum := 0
		seen := map[string]bool{}
		for _, k := range keys {
			if r, ok := Lookup(k); ok && !seen[k] {
				sum += r.Size()
				seen[k] = true
			}
		}
		s := Build(keys)
		// catalog ranges are pairwise disjoint
		assert.Equal(t, sum, s.Len(), "selection %v", keys)
	}
}

func TestSetOverlapCollapses(t *testing.T) {
	s := NewSet()
	s.AddRange(Range{Low: 10, High: 19})
	s.AddRange(Range{Low: 15, High: 24})
	assert.Equal(t, 15, s.Len(), "overlap of 5 must collapse")
	assert.Less(t, s.Len(), 20)
}

func TestSetSorted(t *testing.T) {
	s := NewSet('c', 'a', 'b', 'a')
	if diff := cmp.Diff([]rune{'a', 'b', 'c'}, s.Sorted()); diff != "" {
		t.Fatalf("sorted members mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, s.Len(), "duplicates must collapse")
}

func TestParseKeys(t *testing.T) {
	got := ParseKeys(" Latin, currency\tlatin-1-supp ,,")
	want := []string{"latin", "currency", "latin-1-supp"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parsed keys mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, ParseKeys(""))
}

func TestRangeString(t *testing.T) {
	r, _ := Lookup("currency")
	assert.Equal(t, "currency [U+20A0..U+20CF] Currency Symbols", r.String())
}
