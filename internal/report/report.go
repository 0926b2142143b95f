package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-fives-metrics/internal/features"
	"github.com/pable/go-fives-metrics/internal/model"
)

// Namer maps a player ID to a display name. *roster.Directory implements it.
type Namer interface {
	Name(id model.PlayerID) string
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintMatchList prints stored matches with resolved rosters and the score.
func PrintMatchList(w io.Writer, matches []model.Match, names Namer) {
	table := newTable(w)
	table.Header("ID", "TEAM 1", "TEAM 2", "SCORE", "RESULT")
	for i := range matches {
		m := &matches[i]
		table.Append(
			strconv.FormatInt(m.ID, 10),
			rosterNames(m.Team1, names),
			rosterNames(m.Team2, names),
			fmt.Sprintf("%d-%d", m.Team1Goals, m.Team2Goals),
			resultLabel(m),
		)
	}
	table.Render()
}

func resultLabel(m *model.Match) string {
	switch {
	case m.Won(model.Team1):
		return "T1"
	case m.Won(model.Team2):
		return "T2"
	case m.IsDraw():
		return "DRAW"
	default:
		return "—"
	}
}

func rosterNames(r model.Roster, names Namer) string {
	ids := r.Players()
	if len(ids) == 0 {
		return "—"
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = names.Name(id)
	}
	return strings.Join(out, ", ")
}

// PrintPlayerTable prints per-player aggregates.
// If focus is non-zero, that player's row is marked with ">".
func PrintPlayerTable(w io.Writer, players []model.PlayerSummary, focus model.PlayerID) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "MATCHES", "W", "WIN%", "95% CI", "GF/M", "GA/M", "SAMPLE")

	for _, p := range players {
		marker := " "
		if focus != model.Empty && p.PlayerID == focus {
			marker = ">"
		}
		table.Append(
			marker,
			p.Name,
			strconv.Itoa(p.MatchesPlayed),
			strconv.Itoa(p.MatchesWon),
			fmt.Sprintf("%.0f%%", p.WinPct()),
			ciString(p.MatchesWon, p.MatchesPlayed),
			fmt.Sprintf("%.2f", p.AvgGoalsFor()),
			fmt.Sprintf("%.2f", p.AvgGoalsAgainst()),
			sampleFlag(p.MatchesPlayed),
		)
	}
	table.Render()
}

// PrintDuoTable prints teammate-pair aggregates from the first player's perspective.
func PrintDuoTable(w io.Writer, duos []model.DuoStat, names Namer) {
	table := newTable(w)
	table.Header("PLAYER", "TEAMMATE", "SHARED", "W", "WIN%", "95% CI", "GF/M", "GA/M", "SAMPLE")

	for _, d := range duos {
		table.Append(
			names.Name(d.Player),
			names.Name(d.Teammate),
			strconv.Itoa(d.SharedMatches),
			strconv.Itoa(d.SharedWins),
			fmt.Sprintf("%.0f%%", d.WinRate()),
			ciString(d.SharedWins, d.SharedMatches),
			fmt.Sprintf("%.2f", d.AvgGoalsFor()),
			fmt.Sprintf("%.2f", d.AvgGoalsAgainst()),
			sampleFlag(d.SharedMatches),
		)
	}
	table.Render()
}

// PrintTeamFeatures prints the engineered values of one row side by side.
func PrintTeamFeatures(w io.Writer, row features.FeaturedMatch) {
	t1, t2 := row.Team1Features, row.Team2Features
	table := newTable(w)
	table.Header("FEATURE", "TEAM 1", "TEAM 2")
	rows := []struct {
		name   string
		a, b   float64
		format string
	}{
		{features.WinPercentage, t1.WinPercentage, t2.WinPercentage, "%.1f%%"},
		{features.AvgGoals, t1.AvgGoals, t2.AvgGoals, "%.2f"},
		{features.AvgGoalsConceded, t1.AvgGoalsConceded, t2.AvgGoalsConceded, "%.2f"},
		{features.AvgDuoWinRate, t1.AvgDuoWinRate, t2.AvgDuoWinRate, "%.1f%%"},
		{features.AvgDuoGoals, t1.AvgDuoGoals, t2.AvgDuoGoals, "%.2f"},
		{features.AvgDuoGoalsConced, t1.AvgDuoConceded, t2.AvgDuoConceded, "%.2f"},
	}
	for _, r := range rows {
		table.Append(r.name, fmt.Sprintf(r.format, r.a), fmt.Sprintf(r.format, r.b))
	}
	table.Render()
}

// PrintPrediction prints one predicted outcome.
func PrintPrediction(w io.Writer, p model.Prediction, team1, team2 []string) {
	table := newTable(w)
	table.Header(" ", "TEAM 1", "TEAM 2")
	table.Append("PLAYERS", strings.Join(team1, ", "), strings.Join(team2, ", "))
	table.Append("GOALS", fmt.Sprintf("%.1f", p.Team1Goals), fmt.Sprintf("%.1f", p.Team2Goals))
	table.Append("WIN PROB", pct(p.Team1WinProb), pct(p.Team2WinProb))
	table.Render()

	verdict := fmt.Sprintf("%s wins", strings.ToUpper(p.Winner().String()))
	if p.Draw {
		verdict = "draw"
	}
	fmt.Fprintf(w, "\nPredicted: %s  |  Draw prob: %s\n", verdict, pct(p.DrawProb))
}

// PrintHistory prints stored predictions.
func PrintHistory(w io.Writer, recs []model.PredictionRecord) {
	table := newTable(w)
	table.Header("ID", "CREATED", "TEAM 1", "TEAM 2", "GOALS", "T1 WIN%", "DRAW%", "PICK")
	for _, r := range recs {
		pick := strings.ToUpper(r.Winner().String())
		if r.Draw {
			pick = "DRAW"
		}
		table.Append(
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt,
			strings.Join(r.Team1, ", "),
			strings.Join(r.Team2, ", "),
			fmt.Sprintf("%.1f-%.1f", r.Team1Goals, r.Team2Goals),
			pct(r.Team1WinProb),
			pct(r.DrawProb),
			pick,
		)
	}
	table.Render()
}

// PrintQueryResult prints a raw query result as a table.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
}

func pct(p float64) string {
	return fmt.Sprintf("%.0f%%", 100*p)
}

// sampleFlag grades how far a win rate can be trusted at five-a-side volumes.
func sampleFlag(n int) string {
	switch {
	case n >= 20:
		return "OK"
	case n >= 5:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

func ciString(wins, n int) string {
	if n == 0 {
		return "—"
	}
	lo, hi := wilsonCI(wins, n)
	return fmt.Sprintf("%.0f–%.0f%%", 100*lo, 100*hi)
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}
