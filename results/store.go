/*
 * store.go, part of gocrystal.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package results keeps the energies and timings of finished
//calculations in a SQLite database.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rmera/gocrystal/qm"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	label       TEXT PRIMARY KEY,
	energy      REAL NOT NULL,
	duration    REAL NOT NULL,
	recorded_at DATETIME NOT NULL
)`

//Record is a stored result.
type Record struct {
	qm.Output
	RecordedAt time.Time
}

//Store is a results database.
type Store struct {
	db   *sql.DB
	path string
}

//Open opens, or creates, the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("results: creating directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("results: opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("results: creating schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

//Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

//Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

//Put stores a result, replacing any previous result with the same label.
func (s *Store) Put(ctx context.Context, o qm.Output) error {
	if o.Label == "" {
		return fmt.Errorf("results: result without a label")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (label, energy, duration, recorded_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(label) DO UPDATE SET energy = excluded.energy,
		 duration = excluded.duration, recorded_at = excluded.recorded_at`,
		o.Label, o.Energy, o.Duration, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("results: storing %s: %w", o.Label, err)
	}
	return nil
}

//PutAll stores all the results in a single transaction.
func (s *Store) PutAll(ctx context.Context, outs []qm.Output) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("results: starting transaction: %w", err)
	}
	defer tx.Rollback()
	now := time.Now().UTC()
	for _, o := range outs {
		if o.Label == "" {
			return fmt.Errorf("results: result without a label")
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO results (label, energy, duration, recorded_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(label) DO UPDATE SET energy = excluded.energy,
			 duration = excluded.duration, recorded_at = excluded.recorded_at`,
			o.Label, o.Energy, o.Duration, now)
		if err != nil {
			return fmt.Errorf("results: storing %s: %w", o.Label, err)
		}
	}
	return tx.Commit()
}

//Get returns the result with the given label, and false if there is none.
func (s *Store) Get(ctx context.Context, label string) (Record, bool, error) {
	var r Record
	err := s.db.QueryRowContext(ctx,
		`SELECT label, energy, duration, recorded_at FROM results WHERE label = ?`, label).
		Scan(&r.Label, &r.Energy, &r.Duration, &r.RecordedAt)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("results: reading %s: %w", label, err)
	}
	return r, true, nil
}

//List returns all the stored results, ordered by label.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, energy, duration, recorded_at FROM results ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("results: listing: %w", err)
	}
	defer rows.Close()
	var ret []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Label, &r.Energy, &r.Duration, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("results: scanning: %w", err)
		}
		ret = append(ret, r)
	}
	return ret, rows.Err()
}
