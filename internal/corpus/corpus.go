// Package corpus reads the match history and player key CSV files and writes
// featured datasets back out as CSV.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pable/go-fives-metrics/internal/features"
	"github.com/pable/go-fives-metrics/internal/model"
	"github.com/pable/go-fives-metrics/internal/roster"
)

// Corpus column headers.
const (
	ColMatchID    = "Match ID"
	ColPlayerName = "player name"
	ColPlayerID   = "player_ID"
)

// SlotColumn returns the header for a player slot, e.g. "Team 1 P3".
func SlotColumn(s model.Side, slot int) string {
	return fmt.Sprintf("Team %d P%d", int(s), slot+1)
}

// GoalsColumn returns e.g. "Team 2 Goals".
func GoalsColumn(s model.Side) string { return fmt.Sprintf("Team %d Goals", int(s)) }

// ResultColumn returns e.g. "Team 1 Result".
func ResultColumn(s model.Side) string { return fmt.Sprintf("Team %d Result", int(s)) }

// MatchColumns returns the corpus header in canonical order.
func MatchColumns() []string {
	cols := []string{ColMatchID}
	for _, s := range model.Sides {
		for slot := 0; slot < model.SlotsPerTeam; slot++ {
			cols = append(cols, SlotColumn(s, slot))
		}
	}
	return append(cols,
		GoalsColumn(model.Team1), GoalsColumn(model.Team2),
		ResultColumn(model.Team1), ResultColumn(model.Team2))
}

// header maps column names to record indexes.
type header map[string]int

func readHeader(r *csv.Reader, required []string) (header, error) {
	rec, err := r.Read()
	if err == io.EOF {
		return nil, errors.New("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(rec))
	for i, name := range rec {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		h[name] = i
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}
	return h, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr
}

// ReadMatches parses a corpus CSV. Columns other than the fixed schema are
// ignored. Blank player slots read as empty; any other non-integer value or a
// row that breaks the schema is an error naming the line and column.
func ReadMatches(r io.Reader) ([]model.Match, error) {
	cr := newReader(r)
	h, err := readHeader(cr, MatchColumns())
	if err != nil {
		return nil, err
	}

	var out []model.Match
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blankRecord(rec) {
			continue
		}
		m, err := parseMatch(h, rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseMatch(h header, rec []string) (model.Match, error) {
	var m model.Match
	field := func(col string, allowBlank bool) (int64, error) {
		i := h[col]
		if i >= len(rec) || strings.TrimSpace(rec[i]) == "" {
			if allowBlank {
				return 0, nil
			}
			return 0, fmt.Errorf("column %q: missing value", col)
		}
		v, err := parseInt(rec[i])
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", col, err)
		}
		return v, nil
	}

	id, err := field(ColMatchID, false)
	if err != nil {
		return m, err
	}
	m.ID = id

	for _, s := range model.Sides {
		var r model.Roster
		for slot := range r {
			v, err := field(SlotColumn(s, slot), true)
			if err != nil {
				return m, err
			}
			r[slot] = model.PlayerID(v)
		}
		goals, err := field(GoalsColumn(s), false)
		if err != nil {
			return m, err
		}
		result, err := field(ResultColumn(s), false)
		if err != nil {
			return m, err
		}
		if s == model.Team1 {
			m.Team1, m.Team1Goals, m.Team1Result = r, int(goals), int(result)
		} else {
			m.Team2, m.Team2Goals, m.Team2Result = r, int(goals), int(result)
		}
	}
	return m, nil
}

// parseInt accepts "3" as well as spreadsheet exports such as "3.0".
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no longer fits.
	if math.Abs(f) >= math.MaxInt64 {
		return 0, fmt.Errorf("integer out of range: %q", s)
	}
	return int64(f), nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadPlayerKeys parses the two-column name → id mapping file.
func ReadPlayerKeys(r io.Reader) ([]roster.Entry, error) {
	cr := newReader(r)
	h, err := readHeader(cr, []string{ColPlayerName, ColPlayerID})
	if err != nil {
		return nil, err
	}
	var out []roster.Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blankRecord(rec) {
			continue
		}
		ni, ii := h[ColPlayerName], h[ColPlayerID]
		if ni >= len(rec) || ii >= len(rec) {
			return nil, fmt.Errorf("line %d: expected %q and %q", line, ColPlayerName, ColPlayerID)
		}
		id, err := parseInt(rec[ii])
		if err != nil {
			return nil, fmt.Errorf("line %d: column %q: %w", line, ColPlayerID, err)
		}
		out = append(out, roster.Entry{Name: strings.TrimSpace(rec[ni]), ID: model.PlayerID(id)})
	}
	return out, nil
}

// LoadMatches reads a corpus CSV from disk.
func LoadMatches(path string) ([]model.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	matches, err := ReadMatches(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return matches, nil
}

// LoadPlayerKeys reads the player key CSV from disk into a Directory.
func LoadPlayerKeys(path string) (*roster.Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open player keys: %w", err)
	}
	defer f.Close()
	entries, err := ReadPlayerKeys(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	dir, err := roster.NewDirectory(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dir, nil
}

// WriteFeatured writes the original corpus columns followed by the engineered
// columns, one row per match.
func WriteFeatured(w io.Writer, ds features.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(MatchColumns(), ds.Columns...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range ds.Rows {
		r := &ds.Rows[i]
		rec := make([]string, 0, 21+len(ds.Columns))
		rec = append(rec, strconv.FormatInt(r.ID, 10))
		for _, s := range model.Sides {
			for _, id := range r.Roster(s) {
				rec = append(rec, strconv.FormatInt(int64(id), 10))
			}
		}
		rec = append(rec,
			strconv.Itoa(r.Team1Goals), strconv.Itoa(r.Team2Goals),
			strconv.Itoa(r.Team1Result), strconv.Itoa(r.Team2Result))
		for _, v := range r.Vector() {
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write match %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
