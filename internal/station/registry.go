// Package station provides the radio station registry: the built-in station
// list, user-supplied extras, lookup by name or menu index, and search.
package station

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("station not found")

// DefaultStationName is the pinned entry shown first in every listing.
const DefaultStationName = "Virgin Radio"

// Station is a named radio stream source.
type Station struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// builtins is the station set shipped with tradio. User entries from
// stations.yml are merged on top and may override these by name.
var builtins = []Station{
	{Name: "Virgin Radio", URL: "https://astreaming.edi.ro:8443/VirginRadio_aac"},
	{Name: "Europa FM", URL: "https://astreaming.europafm.ro:8000/europafm_aacp48k"},
	{Name: "Kiss FM", URL: "https://live.kissfm.ro:8443/kissfm.aacp"},
	{Name: "Magic FM", URL: "https://astreaming.edi.ro:8443/MagicFM_aac"},
	{Name: "Pro FM", URL: "https://edge126.rcs-rds.ro/profm/profm.mp3"},
	{Name: "Radio Guerrilla", URL: "https://live.guerrillaradio.ro:8443/guerrilla.aac"},
	{Name: "Radio ZU", URL: "https://live4ro.antenaplay.ro/radiozu/radiozu-48000.m3u8"},
	{Name: "Rock FM", URL: "https://live.rockfm.ro:8443/rockfm.aacp"},
	{Name: "Smart Radio", URL: "https://live.smartradio.ro:8443/smart.aacp"},
}

// Registry holds an immutable, ordered station set.
type Registry struct {
	ordered     []Station
	byName      map[string]Station
	defaultName string
}

// New builds a registry from the built-in stations plus extras. An extra
// whose name matches a built-in replaces it. defaultName pins that station
// to the top of the listing; empty means DefaultStationName.
func New(extras []Station, defaultName string) *Registry {
	if defaultName == "" {
		defaultName = DefaultStationName
	}

	byName := make(map[string]Station, len(builtins)+len(extras))
	for _, s := range builtins {
		byName[s.Name] = s
	}
	for _, s := range extras {
		if s.Name == "" || s.URL == "" {
			continue
		}
		byName[s.Name] = s
	}

	ordered := make([]Station, 0, len(byName))
	for _, s := range byName {
		if s.Name == defaultName {
			continue
		}
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := strings.ToLower(ordered[i].Name), strings.ToLower(ordered[j].Name)
		if a == b {
			return ordered[i].Name < ordered[j].Name
		}
		return a < b
	})

	if def, ok := byName[defaultName]; ok {
		ordered = append([]Station{def}, ordered...)
	}

	return &Registry{
		ordered:     ordered,
		byName:      byName,
		defaultName: defaultName,
	}
}

// All returns the stations in display order: the pinned default first, the
// rest sorted case-insensitively by name.
func (r *Registry) All() []Station {
	out := make([]Station, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of stations in the registry.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Lookup returns the station with the given name.
func (r *Registry) Lookup(name string) (Station, error) {
	s, ok := r.byName[name]
	if !ok {
		return Station{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s, nil
}

// ByIndex returns the station at the given 1-based display position.
func (r *Registry) ByIndex(n int) (Station, error) {
	if n < 1 || n > len(r.ordered) {
		return Station{}, fmt.Errorf("%w: index %d (valid: 1-%d)", ErrNotFound, n, len(r.ordered))
	}
	return r.ordered[n-1], nil
}

// Search returns stations whose name matches term case-insensitively as a
// substring, in display order. A term wrapped in slashes (/pattern/) is
// treated as a regular expression instead.
func (r *Registry) Search(term string) []Station {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	var match func(name string) bool
	if strings.HasPrefix(term, "/") && strings.HasSuffix(term, "/") && len(term) > 2 {
		re, err := regexp.Compile("(?i)" + term[1:len(term)-1])
		if err != nil {
			return nil
		}
		match = re.MatchString
	} else {
		lower := strings.ToLower(term)
		match = func(name string) bool {
			return strings.Contains(strings.ToLower(name), lower)
		}
	}

	var out []Station
	for _, s := range r.ordered {
		if match(s.Name) {
			out = append(out, s)
		}
	}
	return out
}
