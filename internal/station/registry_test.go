package station

import (
	"errors"
	"strings"
	"testing"
)

func TestAllPinsDefaultFirst(t *testing.T) {
	r := New(nil, "")

	all := r.All()
	if len(all) == 0 {
		t.Fatal("empty registry")
	}
	if all[0].Name != DefaultStationName {
		t.Errorf("expected %q first, got %q", DefaultStationName, all[0].Name)
	}

	// Remainder must be sorted case-insensitively.
	for i := 2; i < len(all); i++ {
		a := strings.ToLower(all[i-1].Name)
		b := strings.ToLower(all[i].Name)
		if a > b {
			t.Errorf("stations out of order: %q before %q", all[i-1].Name, all[i].Name)
		}
	}
}

func TestPinnedBeforeLexicographicallySmaller(t *testing.T) {
	r := New([]Station{{Name: "Alpha FM", URL: "http://example.com/alpha"}}, "Virgin Radio")

	all := r.All()
	if all[0].Name != "Virgin Radio" {
		t.Fatalf("expected Virgin Radio first, got %q", all[0].Name)
	}
	if all[1].Name != "Alpha FM" {
		t.Errorf("expected Alpha FM second, got %q", all[1].Name)
	}
}

func TestLookupRoundTrip(t *testing.T) {
	r := New(nil, "")

	for _, want := range r.All() {
		got, err := r.Lookup(want.Name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", want.Name, err)
		}
		if got != want {
			t.Errorf("Lookup(%q) = %+v, want %+v", want.Name, got, want)
		}
	}
}

func TestLookupNotFound(t *testing.T) {
	r := New(nil, "")

	_, err := r.Lookup("No Such Station")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExtrasOverrideBuiltins(t *testing.T) {
	r := New([]Station{{Name: "Rock FM", URL: "http://localhost/custom"}}, "")

	s, err := r.Lookup("Rock FM")
	if err != nil {
		t.Fatal(err)
	}
	if s.URL != "http://localhost/custom" {
		t.Errorf("expected user URL, got %q", s.URL)
	}
	// Overriding must not add a duplicate entry.
	count := 0
	for _, st := range r.All() {
		if st.Name == "Rock FM" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected 1 Rock FM entry, got %d", count)
	}
}

func TestByIndex(t *testing.T) {
	r := New(nil, "")

	first, err := r.ByIndex(1)
	if err != nil {
		t.Fatal(err)
	}
	if first.Name != DefaultStationName {
		t.Errorf("index 1 should be the default station, got %q", first.Name)
	}

	for _, bad := range []int{0, -1, r.Len() + 1} {
		if _, err := r.ByIndex(bad); !errors.Is(err, ErrNotFound) {
			t.Errorf("ByIndex(%d): expected ErrNotFound, got %v", bad, err)
		}
	}
}

func TestSearch(t *testing.T) {
	r := New(nil, "")

	tests := []struct {
		term string
		want []string
	}{
		{"fm", []string{"Europa FM", "Kiss FM", "Magic FM", "Pro FM", "Rock FM"}},
		{"VIRGIN", []string{"Virgin Radio"}},
		{"/^r/", []string{"Radio Guerrilla", "Radio ZU", "Rock FM"}},
		{"", nil},
		{"zzzz", nil},
	}

	for _, tt := range tests {
		got := r.Search(tt.term)
		var names []string
		for _, s := range got {
			names = append(names, s.Name)
		}
		if len(names) != len(tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.term, names, tt.want)
			continue
		}
		for i := range names {
			if names[i] != tt.want[i] {
				t.Errorf("Search(%q)[%d] = %q, want %q", tt.term, i, names[i], tt.want[i])
			}
		}
	}
}

func TestSearchBadRegexReturnsNothing(t *testing.T) {
	r := New(nil, "")
	if got := r.Search("/[/"); got != nil {
		t.Errorf("expected nil for invalid pattern, got %v", got)
	}
}
