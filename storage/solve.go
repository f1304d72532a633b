// sudoku.go - a web-based Sudoku solver and teaching tool.
// Copyright (C) 2015-2024 Daniel C. Brotsky.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
// Licensed under the LGPL v3.  See the LICENSE file for details

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"
	"github.com/llamatarianism/sudoku/puzzle"
)

/*

solve records

*/

// A SolveRecord is the stored form of a completed solve.  It is
// JSON serializable so it can go into the cache as well as the
// database.  Records are keyed by the puzzle's hash, so solving
// the same puzzle twice touches one record.
type SolveRecord struct {
	PuzzleId   string    `json:"puzzleId"`           // hash of the 81-character form
	Values     string    `json:"values"`             // the puzzle as loaded
	Solvable   bool      `json:"solvable"`           // whether a completion exists
	Solution   string    `json:"solution,omitempty"` // the completion, if there is one
	Created    time.Time `json:"created"`            // when the record was first stored
	SolveCount int       `json:"solveCount"`         // how many times the puzzle has been asked for
	LastSolved time.Time `json:"lastSolved"`         // when it was last asked for
}

// key: compute the cache key for a solve record.
func (sr *SolveRecord) key() string {
	return "PID:" + sr.PuzzleId
}

// FindSolve finds the stored solve record with the given id,
// first checking the cache, then the database.  If it loads from
// the database, it caches the result.  Returns nil if no solve
// with that id has been recorded.
func FindSolve(id string) *SolveRecord {
	sr := &SolveRecord{PuzzleId: id}
	if sr.cacheLoad() {
		return sr
	}
	// cache miss, try the database and save to cache
	if !sr.databaseLoad() {
		return nil
	}
	sr.cacheInsert()
	return sr
}

// LookupSolve finds the stored solve record for a board.  Returns
// nil if the puzzle has never been recorded.
func LookupSolve(b puzzle.Board) *SolveRecord {
	return FindSolve(b.Hash())
}

// SaveSolve stores the outcome of a solve, writing the database
// record and refreshing the cache.  Saving an already stored
// puzzle is harmless: the solver is deterministic, so the stored
// outcome is rewritten with itself.
func SaveSolve(values, solution string, solvable bool) *SolveRecord {
	b, e := puzzle.ParseValues(values)
	if e != nil {
		panic(fmt.Errorf("Can't save solve of unreadable puzzle %q: %v", values, e))
	}
	now := time.Now()
	sr := &SolveRecord{
		PuzzleId:   b.Hash(),
		Values:     values,
		Solvable:   solvable,
		Solution:   solution,
		Created:    now,
		SolveCount: 1,
		LastSolved: now,
	}
	sr.databaseInsert()
	sr.cacheInsert()
	return sr
}

// TouchSolve notes another request for an already stored puzzle:
// it bumps the record's solve count and last-solved time and
// refreshes the cache.  Returns the updated record, or nil if
// there is no record to touch.
func TouchSolve(id string) *SolveRecord {
	sr := &SolveRecord{PuzzleId: id}
	found := false
	body := func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			"UPDATE solves SET solveCount = solveCount + 1, lastSolved = $2 "+
				"WHERE puzzleId = $1 "+
				"RETURNING valueList, solvable, solution, created, solveCount, lastSolved",
			sr.PuzzleId, time.Now())
		err := row.Scan(&sr.Values, &sr.Solvable, &sr.Solution,
			&sr.Created, &sr.SolveCount, &sr.LastSolved)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Database error touching solve %q: %v", sr.PuzzleId, err)
		}
		found = true
		return nil
	}
	pgExecute(body)
	if !found {
		return nil
	}
	sr.cacheInsert()
	return sr
}

// RecentSolves returns the latest stored solves, most recently
// solved first.
func RecentSolves(limit int) []*SolveRecord {
	var srs []*SolveRecord
	body := func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			"SELECT puzzleId, valueList, solvable, solution, created, solveCount, lastSolved "+
				"FROM solves ORDER BY lastSolved DESC LIMIT $1", limit)
		if err != nil {
			return fmt.Errorf("Database error listing solves: %v", err)
		}
		defer rows.Close()
		for rows.Next() {
			sr := &SolveRecord{}
			if err := rows.Scan(&sr.PuzzleId, &sr.Values, &sr.Solvable, &sr.Solution,
				&sr.Created, &sr.SolveCount, &sr.LastSolved); err != nil {
				return fmt.Errorf("Database error reading solve row: %v", err)
			}
			srs = append(srs, sr)
		}
		return rows.Err()
	}
	pgExecute(body)
	return srs
}

/*

record loads and saves

*/

// cacheLoad: load an already cached solve record.  Returns
// whether the record was found in the cache.
func (sr *SolveRecord) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", sr.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading solve record %q: %v", sr.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var cached *SolveRecord
	if err := json.Unmarshal(bytes, &cached); err != nil {
		panic(fmt.Errorf("Failed to unmarshal solve record %q: %v", sr.PuzzleId, err))
	}
	if cached.PuzzleId != sr.PuzzleId {
		panic(fmt.Errorf("Cached solve record (id: %q) found for puzzle %q!",
			cached.PuzzleId, sr.PuzzleId))
	}
	*sr = *cached
	return true
}

// cacheInsert: insert a solve record into the cache.  Replaces
// any existing record with the same id.
func (sr *SolveRecord) cacheInsert() {
	bytes, e := json.Marshal(sr)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal solve record %q: %v", sr.PuzzleId, e))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", sr.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving solve record %q: %v", sr.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
}

// databaseLoad: load a solve record from the database.  Returns
// whether there is a saved record with the given id.
func (sr *SolveRecord) databaseLoad() (found bool) {
	body := func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			"SELECT valueList, solvable, solution, created, solveCount, lastSolved "+
				"FROM solves WHERE puzzleId = $1", sr.PuzzleId)
		err := row.Scan(&sr.Values, &sr.Solvable, &sr.Solution,
			&sr.Created, &sr.SolveCount, &sr.LastSolved)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Failure looking up solve %q: %v", sr.PuzzleId, err)
		}
		found = true
		return nil
	}
	pgExecute(body)
	return
}

// databaseInsert: write a solve record to the database,
// overwriting the outcome fields of any record already stored
// for the same puzzle.
func (sr *SolveRecord) databaseInsert() {
	body := func(ctx context.Context, tx pgx.Tx) (err error) {
		_, err = tx.Exec(ctx,
			"INSERT INTO solves "+
				"(puzzleId, valueList, solvable, solution, created, solveCount, lastSolved) "+
				"VALUES ($1, $2, $3, $4, $5, $6, $7) "+
				"ON CONFLICT (puzzleId) DO UPDATE SET "+
				"solvable = EXCLUDED.solvable, solution = EXCLUDED.solution, "+
				"lastSolved = EXCLUDED.lastSolved",
			sr.PuzzleId, sr.Values, sr.Solvable, sr.Solution,
			sr.Created, sr.SolveCount, sr.LastSolved)
		if err != nil {
			err = fmt.Errorf("Database error saving solve record %q: %v", sr.PuzzleId, err)
		}
		return
	}
	pgExecute(body)
}
