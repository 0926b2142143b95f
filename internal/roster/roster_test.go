package roster

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pable/go-fives-metrics/internal/model"
)

func testIndex() NameIndex {
	return NameIndex{"Mike": 1, "Jake": 2, "Rob": 3, "Kal": 4, "Jamie": 5}
}

func TestBuildMatchRow_PadsAndResolves(t *testing.T) {
	m, err := BuildMatchRow([]string{"Mike", "Jake"}, []string{"Kal", "Jamie", "Rob"}, testIndex())
	if err != nil {
		t.Fatalf("BuildMatchRow: %v", err)
	}
	want1 := model.Roster{1, 2, 0, 0, 0, 0, 0, 0}
	want2 := model.Roster{4, 5, 3, 0, 0, 0, 0, 0}
	if m.Team1 != want1 {
		t.Errorf("team1: want %v, got %v", want1, m.Team1)
	}
	if m.Team2 != want2 {
		t.Errorf("team2: want %v, got %v", want2, m.Team2)
	}
	if m.Team1Goals != 0 || m.Team2Goals != 0 || m.Team1Result != 0 || m.Team2Result != 0 {
		t.Errorf("goals/results should be placeholders, got %+v", m)
	}
}

func TestBuildMatchRow_UnresolvedBecomesEmptySlot(t *testing.T) {
	m, err := BuildMatchRow([]string{"Mike", "Mikey", "Rob"}, nil, testIndex())
	if err != nil {
		t.Fatalf("BuildMatchRow: %v", err)
	}
	want := model.Roster{1, 0, 3, 0, 0, 0, 0, 0}
	if m.Team1 != want {
		t.Errorf("team1: want %v, got %v", want, m.Team1)
	}
	if got := m.Team1.Players(); len(got) != 2 {
		t.Errorf("misspelled name should drop out, roster size want 2, got %d", len(got))
	}
	if m.Team2 != (model.Roster{}) {
		t.Errorf("empty team2 should be all sentinel, got %v", m.Team2)
	}
}

func TestBuildMatchRow_BlankAndWhitespaceNames(t *testing.T) {
	m, err := BuildMatchRow([]string{" Mike ", "", "  "}, []string{"Kal"}, testIndex())
	if err != nil {
		t.Fatalf("BuildMatchRow: %v", err)
	}
	if m.Team1[0] != 1 || m.Team1[1] != 0 || m.Team1[2] != 0 {
		t.Errorf("unexpected team1 %v", m.Team1)
	}
}

func TestBuildMatchRow_TooManyNames(t *testing.T) {
	nine := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	_, err := BuildMatchRow(nil, nine, testIndex())
	if !errors.Is(err, ErrRosterTooLarge) {
		t.Fatalf("expected ErrRosterTooLarge, got %v", err)
	}
}

func TestUnresolved(t *testing.T) {
	got := Unresolved([]string{"Mike", "Mikey", ""}, []string{"Kal", "Sammy"}, testIndex())
	want := []string{"Mikey", "Sammy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unresolved: want %v, got %v", want, got)
	}
	if got := Unresolved([]string{"Mike"}, []string{"Kal"}, testIndex()); got != nil {
		t.Errorf("expected no unresolved names, got %v", got)
	}
}

func TestSplitNames(t *testing.T) {
	got := SplitNames("Mike, Jake ,Rob")
	want := []string{"Mike", "Jake", "Rob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitNames: want %v, got %v", want, got)
	}
	if SplitNames("  ") != nil {
		t.Error("blank input should yield nil")
	}
}

func TestDirectory(t *testing.T) {
	d, err := NewDirectory([]Entry{{Name: "Mike", ID: 10}, {Name: "Kal", ID: 20}})
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	if id, ok := d.Resolve("Kal"); !ok || id != 20 {
		t.Errorf("Resolve(Kal): want 20, got %d (ok=%v)", id, ok)
	}
	if d.Name(10) != "Mike" {
		t.Errorf("Name(10): want Mike, got %s", d.Name(10))
	}
	if !d.Has(20) || d.Has(99) {
		t.Errorf("Has: want 20 known and 99 unknown")
	}
	if d.Name(99) != "#99" {
		t.Errorf("Name(99): want #99, got %s", d.Name(99))
	}
	entries := d.Entries()
	if len(entries) != 2 || entries[0].Name != "Kal" {
		t.Errorf("Entries should be sorted by name, got %v", entries)
	}

	m, err := BuildMatchRow([]string{"Mike"}, []string{"Kal"}, d)
	if err != nil {
		t.Fatalf("BuildMatchRow with Directory: %v", err)
	}
	if m.Team1[0] != 10 || m.Team2[0] != 20 {
		t.Errorf("unexpected rosters %v / %v", m.Team1, m.Team2)
	}
}

func TestNewDirectory_Rejects(t *testing.T) {
	cases := map[string][]Entry{
		"duplicate name": {{Name: "Mike", ID: 1}, {Name: "Mike", ID: 2}},
		"duplicate id":   {{Name: "Mike", ID: 1}, {Name: "Jake", ID: 1}},
		"zero id":        {{Name: "Mike", ID: 0}},
		"blank name":     {{Name: " ", ID: 3}},
	}
	for name, entries := range cases {
		if _, err := NewDirectory(entries); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
