package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-fives-metrics/internal/model"
	"github.com/pable/go-fives-metrics/internal/roster"
)

// InsertPlayers upserts the player key in a transaction.
func (db *DB) InsertPlayers(entries []roster.Entry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO players(id, name) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(int64(e.ID), e.Name); err != nil {
			return fmt.Errorf("insert player %q: %w", e.Name, err)
		}
	}
	return tx.Commit()
}

// ListPlayers returns the stored player key ordered by name.
func (db *DB) ListPlayers() ([]roster.Entry, error) {
	rows, err := db.conn.Query(`SELECT id, name FROM players ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.Entry
	for rows.Next() {
		var e roster.Entry
		var id int64
		if err := rows.Scan(&id, &e.Name); err != nil {
			return nil, err
		}
		e.ID = model.PlayerID(id)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Directory loads the stored player key as a name resolver.
func (db *DB) Directory() (*roster.Directory, error) {
	entries, err := db.ListPlayers()
	if err != nil {
		return nil, err
	}
	return roster.NewDirectory(entries)
}

// InsertMatches upserts match rows and their rosters in a transaction.
// Re-importing a match replaces its roster.
func (db *DB) InsertMatches(matches []model.Match) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	matchStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(id, team1_goals, team2_goals, team1_result, team2_result)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer matchStmt.Close()

	clearStmt, err := tx.Prepare(`DELETE FROM match_players WHERE match_id = ?`)
	if err != nil {
		return err
	}
	defer clearStmt.Close()

	slotStmt, err := tx.Prepare(`
		INSERT INTO match_players(match_id, team, slot, player_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer slotStmt.Close()

	for i := range matches {
		m := &matches[i]
		if _, err := matchStmt.Exec(m.ID, m.Team1Goals, m.Team2Goals, m.Team1Result, m.Team2Result); err != nil {
			return fmt.Errorf("insert match %d: %w", m.ID, err)
		}
		if _, err := clearStmt.Exec(m.ID); err != nil {
			return fmt.Errorf("clear roster for match %d: %w", m.ID, err)
		}
		for _, s := range model.Sides {
			for slot, id := range m.Roster(s) {
				if id == model.Empty {
					continue
				}
				if _, err := slotStmt.Exec(m.ID, int(s), slot+1, int64(id)); err != nil {
					return fmt.Errorf("insert roster for match %d: %w", m.ID, err)
				}
			}
		}
	}
	return tx.Commit()
}

// ListMatches returns every stored match with its rosters, ordered by ID.
func (db *DB) ListMatches() ([]model.Match, error) {
	out, err := db.scanMatches(`
		SELECT id, team1_goals, team2_goals, team1_result, team2_result
		FROM matches ORDER BY id`)
	if err != nil {
		return nil, err
	}
	if err := db.fillRosters(out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// PlayerMatches returns the most recent matches (highest ID first) in which
// the player took a slot. limit <= 0 returns all of them.
func (db *DB) PlayerMatches(id model.PlayerID, limit int) ([]model.Match, error) {
	query := `
		SELECT m.id, m.team1_goals, m.team2_goals, m.team1_result, m.team2_result
		FROM matches m
		WHERE m.id IN (SELECT match_id FROM match_players WHERE player_id = ?)
		ORDER BY m.id DESC`
	args := []any{int64(id)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	out, err := db.scanMatches(query, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	ids := make([]any, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	if err := db.fillRosters(out, ids); err != nil {
		return nil, err
	}
	return out, nil
}

func (db *DB) scanMatches(query string, args ...any) ([]model.Match, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.Team1Goals, &m.Team2Goals, &m.Team1Result, &m.Team2Result); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// fillRosters loads match_players for the given matches. A nil ids slice loads
// every roster.
func (db *DB) fillRosters(matches []model.Match, ids []any) error {
	if len(matches) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Match, len(matches))
	for i := range matches {
		byID[matches[i].ID] = &matches[i]
	}

	query := `SELECT match_id, team, slot, player_id FROM match_players`
	if ids != nil {
		query += ` WHERE match_id IN (` + placeholders(len(ids)) + `)`
	}
	rows, err := db.conn.Query(query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var matchID, playerID int64
		var team, slot int
		if err := rows.Scan(&matchID, &team, &slot, &playerID); err != nil {
			return err
		}
		m, ok := byID[matchID]
		if !ok || slot < 1 || slot > model.SlotsPerTeam {
			continue
		}
		switch model.Side(team) {
		case model.Team1:
			m.Team1[slot-1] = model.PlayerID(playerID)
		case model.Team2:
			m.Team2[slot-1] = model.PlayerID(playerID)
		}
	}
	return rows.Err()
}

// CountMatches returns the number of stored matches.
func (db *DB) CountMatches() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(1) FROM matches`).Scan(&n)
	return n, err
}

// InsertPrediction stores a prediction and returns its history ID.
func (db *DB) InsertPrediction(rec model.PredictionRecord) (int64, error) {
	p := rec.Prediction
	res, err := db.conn.Exec(`
		INSERT INTO predictions(team1, team2, team1_goals, team2_goals,
			team1_win, team1_win_prob, team2_win_prob, draw, draw_prob)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.Join(rec.Team1, ","), strings.Join(rec.Team2, ","),
		p.Team1Goals, p.Team2Goals,
		boolInt(p.Team1Win), p.Team1WinProb, p.Team2WinProb,
		boolInt(p.Draw), p.DrawProb,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListPredictions returns stored predictions, newest first. limit <= 0 returns all.
func (db *DB) ListPredictions(limit int) ([]model.PredictionRecord, error) {
	query := `
		SELECT id, created_at, team1, team2, team1_goals, team2_goals,
		       team1_win, team1_win_prob, team2_win_prob, draw, draw_prob
		FROM predictions ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PredictionRecord
	for rows.Next() {
		var r model.PredictionRecord
		var team1, team2 string
		var winInt, drawInt int
		if err := rows.Scan(&r.ID, &r.CreatedAt, &team1, &team2,
			&r.Team1Goals, &r.Team2Goals,
			&winInt, &r.Team1WinProb, &r.Team2WinProb, &drawInt, &r.DrawProb); err != nil {
			return nil, err
		}
		r.Team1 = roster.SplitNames(team1)
		r.Team2 = roster.SplitNames(team2)
		r.Team1Win = winInt != 0
		r.Draw = drawInt != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
