// Package roster maps player display names to identifiers and builds the
// synthetic match row for a matchup that is about to be predicted.
package roster

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-fives-metrics/internal/model"
)

// ErrRosterTooLarge is returned when a team lists more names than there are slots.
var ErrRosterTooLarge = errors.New("roster exceeds slot count")

// Resolver resolves a display name to a player identifier.
type Resolver interface {
	Resolve(name string) (model.PlayerID, bool)
}

// NameIndex is a plain name → id Resolver.
type NameIndex map[string]model.PlayerID

// Resolve implements Resolver.
func (n NameIndex) Resolve(name string) (model.PlayerID, bool) {
	id, ok := n[name]
	return id, ok
}

// BuildMatchRow converts two ordered lists of display names into a single match
// row. Each roster is padded to model.SlotsPerTeam with the empty sentinel.
//
// Names that do not resolve (including blanks) silently become empty slots, so
// a misspelled player drops out of the roster instead of failing the request.
// Callers that need strict behaviour should check Unresolved first.
//
// Goals and result fields are left at 0; they are what gets predicted.
func BuildMatchRow(team1, team2 []string, names Resolver) (model.Match, error) {
	var m model.Match
	r1, err := resolveTeam(team1, names)
	if err != nil {
		return m, fmt.Errorf("team 1: %w", err)
	}
	r2, err := resolveTeam(team2, names)
	if err != nil {
		return m, fmt.Errorf("team 2: %w", err)
	}
	m.Team1, m.Team2 = r1, r2
	return m, nil
}

func resolveTeam(team []string, names Resolver) (model.Roster, error) {
	var r model.Roster
	if len(team) > model.SlotsPerTeam {
		return r, fmt.Errorf("%w: %d names, max %d", ErrRosterTooLarge, len(team), model.SlotsPerTeam)
	}
	for i, name := range team {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if id, ok := names.Resolve(name); ok {
			r[i] = id
		}
	}
	return r, nil
}

// Unresolved returns the non-blank names from either team that the resolver
// does not know, in input order.
func Unresolved(team1, team2 []string, names Resolver) []string {
	var out []string
	for _, team := range [][]string{team1, team2} {
		for _, name := range team {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := names.Resolve(name); !ok {
				out = append(out, name)
			}
		}
	}
	return out
}

// SplitNames parses a comma-separated roster such as "Mike, Jake,Rob".
func SplitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// Entry is one row of the player key file.
type Entry struct {
	Name string
	ID   model.PlayerID
}

// Directory is a bidirectional name ↔ id mapping. Names and ids are unique.
type Directory struct {
	byName map[string]model.PlayerID
	byID   map[model.PlayerID]string
}

// NewDirectory builds a Directory, rejecting blank or duplicate names, duplicate
// ids and the reserved id 0.
func NewDirectory(entries []Entry) (*Directory, error) {
	d := &Directory{
		byName: make(map[string]model.PlayerID, len(entries)),
		byID:   make(map[model.PlayerID]string, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("player id %d has a blank name", e.ID)
		}
		if e.ID <= model.Empty {
			return nil, fmt.Errorf("player %q: id must be positive, got %d", name, e.ID)
		}
		if prev, ok := d.byName[name]; ok {
			return nil, fmt.Errorf("duplicate player name %q (ids %d and %d)", name, prev, e.ID)
		}
		if prev, ok := d.byID[e.ID]; ok {
			return nil, fmt.Errorf("duplicate player id %d (%q and %q)", e.ID, prev, name)
		}
		d.byName[name] = e.ID
		d.byID[e.ID] = name
	}
	return d, nil
}

// Resolve implements Resolver.
func (d *Directory) Resolve(name string) (model.PlayerID, bool) {
	id, ok := d.byName[name]
	return id, ok
}

// Name returns the display name for id, or "#<id>" for unknown players.
func (d *Directory) Name(id model.PlayerID) string {
	if name, ok := d.byID[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// Has reports whether id is in the key.
func (d *Directory) Has(id model.PlayerID) bool {
	_, ok := d.byID[id]
	return ok
}

// Len returns the number of players.
func (d *Directory) Len() int { return len(d.byName) }

// Entries returns every player ordered by name.
func (d *Directory) Entries() []Entry {
	out := make([]Entry, 0, len(d.byName))
	for name, id := range d.byName {
		out = append(out, Entry{Name: name, ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
