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
	"log"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/llamatarianism/sudoku/puzzle"
)

// A Session tracks the user's progress on his current puzzle.
// Behind the scenes, we persist every board the user has reached
// in this solution, so he can go back (undo) prior choices, and
// the list of puzzles he has had solved for him.
type Session struct {
	// these elements are persisted as fields of the session hash
	SID     string // session ID
	PID     string // ID of puzzle being worked
	Step    int    // current step
	Created string // RFC3339 time when the session was created
	Saved   string // RFC3339 time when the session was last saved

	// the current board is persisted in the steps list, as its
	// 81-character form
	Board puzzle.Board `redis:"-"`
}

/*

session manipulation

*/

// StartPuzzle: make the given board the session's puzzle,
// clearing any existing steps.  The board becomes step 1, the
// step undo stops at.
func (session *Session) StartPuzzle(b puzzle.Board) {
	session.Board = b
	session.PID = b.Hash()
	session.Saved = time.Now().Format(time.RFC3339)
	session.Step = 1
	bytes := session.marshalStep()
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		tx.Send("DEL", session.stepsKey())
		_, err = tx.Do("RPUSH", session.stepsKey(), bytes)
		if err != nil {
			log.Printf("Redis error on save of session %q after reset: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Reset session %v to start working puzzle %q.", session.SID, session.PID)
}

// AddStep: make the given board the new current step.
func (session *Session) AddStep(b puzzle.Board) {
	session.Board = b
	session.Saved = time.Now().Format(time.RFC3339)
	session.Step++
	bytes := session.marshalStep()
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		_, err = tx.Do("RPUSH", session.stepsKey(), bytes)
		if err != nil {
			log.Printf("Redis error on save of %s:%q step %d: %v",
				session.SID, session.PID, session.Step, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Added session %v:%v step %d.", session.SID, session.PID, session.Step)
}

// RemoveStep: remove the last step and restore the prior step's
// board.  Removing from step 1 is a no-op: the starting board
// always survives.
func (session *Session) RemoveStep() {
	if session.Step <= 1 {
		// nothing to do
		return
	}

	// trim the last step and load the one before it
	var bytes []byte
	session.Saved = time.Now().Format(time.RFC3339)
	session.Step--
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		tx.Send("LTRIM", session.stepsKey(), 0, -2)
		bytes, err = redis.Bytes(tx.Do("LINDEX", session.stepsKey(), -1))
		if err != nil {
			log.Printf("Error on remove to %s:%q step %d: %v",
				session.SID, session.PID, session.Step, err)
		}
		return
	}
	rdExecute(body)
	session.unmarshalStep(bytes)
	log.Printf("Reverted session %v:%v to step %d.", session.SID, session.PID, session.Step)
}

// Lookup: find the saved session for the session's ID, loading
// its persisted fields.  Returns whether the session was found;
// the board is not loaded (see LoadStep).
func (session *Session) Lookup() (found bool) {
	body := func(tx redis.Conn) error {
		vals, err := redis.Values(tx.Do("HGETALL", session.key()))
		if len(vals) > 0 {
			if err := redis.ScanStruct(vals, session); err != nil {
				log.Printf("Redis error on parse of saved session %q: %v", session.SID, err)
				return err
			}
			found = true
			return nil
		}
		if err != nil {
			log.Printf("Redis error on lookup of session %q: %v", session.SID, err)
			return err
		}
		log.Printf("No saved session %q", session.SID)
		return nil
	}
	rdExecute(body)
	return
}

// LoadStep: load the current step's board from the steps list.
func (session *Session) LoadStep() {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("LINDEX", session.stepsKey(), -1))
		if err != nil {
			log.Printf("Error on load of %s:%q step %d: %v",
				session.SID, session.PID, session.Step, err)
		}
		return
	}
	rdExecute(body)
	session.unmarshalStep(bytes)
}

// FirstStep: fetch the board the puzzle started from (step 1)
// without disturbing the session's current step.
func (session *Session) FirstStep() puzzle.Board {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("LINDEX", session.stepsKey(), 0))
		if err != nil {
			log.Printf("Error on load of %s:%q step 1: %v",
				session.SID, session.PID, err)
		}
		return
	}
	rdExecute(body)
	b, err := puzzle.ParseValues(string(bytes))
	if err != nil {
		log.Printf("Failed to read starting board of %s:%q: %v",
			session.SID, session.PID, err)
		panic(err)
	}
	return b
}

/*

session solve history

*/

// AddSolve: append a puzzle id to the session's solve history.
func (session *Session) AddSolve(pid string) {
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("RPUSH", session.solvesKey(), pid)
		if err != nil {
			log.Printf("Redis error on history append for %s: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Recorded solve of %q for session %v.", pid, session.SID)
}

// Solves: return the session's solve history, oldest first.
func (session *Session) Solves() (pids []string) {
	body := func(tx redis.Conn) (err error) {
		pids, err = redis.Strings(tx.Do("LRANGE", session.solvesKey(), 0, -1))
		if err != nil {
			log.Printf("Redis error on history read for %s: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	return
}

// ClearSolves: forget the session's solve history.
func (session *Session) ClearSolves() {
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("DEL", session.solvesKey())
		if err != nil {
			log.Printf("Redis error on history clear for %s: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Cleared solve history of session %v.", session.SID)
}

/*

serialization of boards into and out of the cache

*/

// marshalStep - get the stored form of the current board
func (session *Session) marshalStep() []byte {
	return []byte(session.Board.Values())
}

// unmarshalStep - restore the board for a saved step
func (session *Session) unmarshalStep(bytes []byte) {
	b, err := puzzle.ParseValues(string(bytes))
	if err != nil {
		log.Printf("Failed to read saved board of %s:%q step %d: %v",
			session.SID, session.PID, session.Step, err)
		panic(err)
	}
	session.Board = b
}

/*

session key generation

*/

// key - returns the session key
func (session *Session) key() string {
	return rdEnv + ":SID:" + session.SID
}

// stepsKey - returns the key for the session's step list
func (session *Session) stepsKey() string {
	return session.key() + ":Steps"
}

// solvesKey - returns the key for the session's solve history
func (session *Session) solvesKey() string {
	return session.key() + ":Solves"
}
