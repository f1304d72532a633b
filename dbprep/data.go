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

package dbprep

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/llamatarianism/sudoku/puzzle"
)

/*

entries

*/

type dataFunction func(ctx context.Context, tx pgx.Tx) error

var (
	upFunctions = []dataFunction{
		insertSamples,
	}
	downFunctions = []dataFunction{
		deleteSamples,
	}
)

// DataUp: load the sample data into the database.  You should do
// this after you get the schema up!
func DataUp() error {
	return applyFunctions(upFunctions)
}

// DataDown: remove the sample data from the database.  You
// should do this before you tear the schema down!
func DataDown() error {
	return applyFunctions(downFunctions)
}

// apply dataFunctions to the database.  Each is applied in a
// separate transaction, so later ones can rely on the effect of
// earlier ones having been committed.
func applyFunctions(fns []dataFunction) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "postgres://localhost/sudoku?sslmode=disable"
	}

	// open the database, defer the close
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	// helper that runs each function inside a transaction, and
	// ensures that any problems are rolled back.
	runFunc := func(fn dataFunction) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if e := recover(); e != nil {
				tx.Rollback(ctx)
				panic(e)
			}
		}()
		if err := fn(ctx, tx); err != nil {
			tx.Rollback(ctx)
			return err
		}
		return tx.Commit(ctx)
	}

	// run the functions
	for _, fn := range fns {
		if err := runFunc(fn); err != nil {
			return fmt.Errorf("%v failed: %v", fn, err)
		}
	}
	return nil
}

/*

sample puzzles

*/

// DefaultSampleName names the sample that new sessions start
// with.
const DefaultSampleName = "sample-1"

var (
	// teaching puzzles, one 81-character form per puzzle
	samplePuzzles = []string{
		"530070000" +
			"600195000" +
			"098000060" +
			"800060003" +
			"400803001" +
			"700020006" +
			"060000280" +
			"000419005" +
			"000080079",
		"400003502" +
			"009506340" +
			"000000008" +
			"000034860" +
			"004605200" +
			"028790000" +
			"900000000" +
			"087302900" +
			"502900006",
		"010506020" +
			"000003018" +
			"000070006" +
			"005000030" +
			"008090700" +
			"060000400" +
			"500040000" +
			"640200000" +
			"030901080",
		"900450008" +
			"020000000" +
			"000172400" +
			"079000680" +
			"200000005" +
			"043000270" +
			"008325000" +
			"000000060" +
			"400016003",
		"948050200" +
			"007803001" +
			"050070000" +
			"070000300" +
			"200605004" +
			"005000090" +
			"000060010" +
			"300509700" +
			"006010423",
		"000000000" +
			"900507030" +
			"000100607" +
			"040060082" +
			"670000013" +
			"380010090" +
			"705008000" +
			"020309008" +
			"000000000",
		"200800050" +
			"085000000" +
			"036750001" +
			"003040098" +
			"000305000" +
			"410060700" +
			"500007120" +
			"000000560" +
			"020000004",
	}
	sampleBoards []puzzle.Board // see init
	sampleHashes []string       // see init
	sampleNames  []string       // see init
)

// initialize the boards, hashes, and names from the sample
// puzzles
func init() {
	sampleBoards = make([]puzzle.Board, len(samplePuzzles))
	sampleHashes = make([]string, len(samplePuzzles))
	sampleNames = make([]string, len(samplePuzzles))
	for i, values := range samplePuzzles {
		b, err := puzzle.ParseValues(values)
		if err != nil {
			panic(fmt.Errorf("Can't happen! Sample puzzle %d is invalid: %v", i, err))
		}
		sampleBoards[i] = b
		sampleHashes[i] = b.Hash()
		sampleNames[i] = fmt.Sprintf("sample-%d", i+1)
	}
}

// SampleNames returns the names of the sample puzzles, in order.
func SampleNames() []string {
	names := make([]string, len(sampleNames))
	copy(names, sampleNames)
	return names
}

// SampleValues returns the 81-character form of a named sample.
func SampleValues(name string) (string, bool) {
	for i, n := range sampleNames {
		if n == name {
			return samplePuzzles[i], true
		}
	}
	return "", false
}

// Create and insert the sample puzzles, solving each with the
// core solver so the stored records carry their outcomes.
func insertSamples(ctx context.Context, tx pgx.Tx) error {
	// idempotency: if the first sample already exists, we are done
	var count int64
	row := tx.QueryRow(ctx, "SELECT COUNT(*) FROM solves "+
		"WHERE puzzleId = $1", sampleHashes[0])
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("Database error looking for sample %q: %v", sampleHashes[0], err)
	}
	if count > 0 {
		return nil
	}

	// get the timestamp of this load
	now := time.Now()

	// solve and save the puzzles
	for i, b := range sampleBoards {
		solution := ""
		solvable := false
		if solved, err := b.Solve(); err == nil {
			solvable = true
			solution = solved.Values()
		} else if !puzzle.IsUnsolvable(err) {
			return fmt.Errorf("Error solving sample puzzle %d: %v", i, err)
		}
		_, err := tx.Exec(ctx,
			"INSERT INTO solves "+
				"(puzzleId, valueList, solvable, solution, created, solveCount, lastSolved) "+
				"VALUES ($1, $2, $3, $4, $5, $6, $7)",
			sampleHashes[i], samplePuzzles[i], solvable, solution, now, 0, now)
		if err != nil {
			return fmt.Errorf("Database error saving sample puzzle %d: %v", i, err)
		}
	}
	return nil
}

// Delete the sample puzzles
func deleteSamples(ctx context.Context, tx pgx.Tx) error {
	for i, hash := range sampleHashes {
		_, err := tx.Exec(ctx,
			"DELETE from solves where puzzleId = $1", hash)
		if err != nil {
			return fmt.Errorf("Database error deleting sample puzzle %d: %v", i, err)
		}
	}
	return nil
}
