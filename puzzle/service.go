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

package puzzle

import (
	"encoding/json"
	"fmt"
	"net/http"
)

/*

Request and response shapes

*/

// A SolveRequest is the JSON body of the solving endpoints: the
// 81-character form of a puzzle, plus cell coordinates for the
// requests that concern a single cell.
type SolveRequest struct {
	Values string `json:"values"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// A SolveResult reports the outcome of solving one puzzle.  An
// unsolvable puzzle is a result like any other: Solvable is
// false and the solution fields are empty.
type SolveResult struct {
	Values   string `json:"values"`
	Solvable bool   `json:"solvable"`
	Solution string `json:"solution,omitempty"`
	Grid     string `json:"grid,omitempty"`
}

// A CandidateInfo reports the usable digits for one cell of a
// puzzle.
type CandidateInfo struct {
	Row        int   `json:"row"`
	Col        int   `json:"col"`
	Candidates []int `json:"candidates"`
}

/*

Request decoding

*/

// RequestBoard is the request-decoding half of the POST
// handlers: it reads a JSON-encoded SolveRequest from the
// request body and converts the values string to a Board.
// Decoding and format failures are sent as 400 responses and
// returned to the golang caller; on success the decoded request
// is returned alongside the board for access to its cell
// coordinates.
func RequestBoard(w http.ResponseWriter, r *http.Request) (Board, *SolveRequest, error) {
	dec := json.NewDecoder(r.Body)
	var req SolveRequest
	if e := dec.Decode(&req); e != nil {
		return Board{}, nil, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
	}
	b, e := ParseValues(req.Values)
	if e != nil {
		err, ok := e.(Error)
		if !ok {
			return Board{}, nil, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
		}
		return Board{}, nil, writeJSON(err, http.StatusBadRequest, w, r)
	}
	return b, &req, nil
}

/*

Solving handlers

*/

// SolveHandler is a POST handler that solves the puzzle carried
// in the request body.  The outcome goes back as a 200 response
// whether or not the puzzle has a solution, and is also returned
// to the golang caller so it can be logged or recorded.
// Malformed requests get a 400 response, and the error comes
// back to the caller.
func SolveHandler(w http.ResponseWriter, r *http.Request) (SolveResult, error) {
	b, req, e := RequestBoard(w, r)
	if e != nil {
		return SolveResult{}, e
	}
	result := SolveResult{Values: req.Values}
	if solved, e := b.Solve(); e == nil {
		result.Solvable = true
		result.Solution = solved.Values()
		result.Grid = solved.String()
	}
	return result, WriteResult(result, w, r)
}

// CandidatesHandler is a POST handler that reports the usable
// digits for one cell of the puzzle carried in the request body.
// Coordinates off the board get a 400 response.  The info is
// returned to the golang caller as well.
func CandidatesHandler(w http.ResponseWriter, r *http.Request) (CandidateInfo, error) {
	b, req, e := RequestBoard(w, r)
	if e != nil {
		return CandidateInfo{}, e
	}
	if req.Row < 0 || req.Row >= SideLength || req.Col < 0 || req.Col >= SideLength {
		err := locationError(req.Row, req.Col)
		return CandidateInfo{}, writeJSON(err, http.StatusBadRequest, w, r)
	}
	info := CandidateInfo{
		Row:        req.Row,
		Col:        req.Col,
		Candidates: b.Candidates(req.Row, req.Col),
	}
	return info, writeJSON(info, http.StatusOK, w, r)
}

/*

Utilities

*/

// WriteResult sends a solve outcome as a 200 response.  Callers
// that produce results outside SolveHandler (the server's
// cache-backed path) use this to answer exactly the way
// SolveHandler answers.
func WriteResult(result SolveResult, w http.ResponseWriter, r *http.Request) error {
	return writeJSON(result, http.StatusOK, w, r)
}

// WriteError sends an error as a JSON response, picking the
// status from the error's scope: scopes the client can fix get
// 400s, everything else gets a 500.  The error is returned for
// the caller's logging.
func WriteError(e error, w http.ResponseWriter, r *http.Request) error {
	err, ok := e.(Error)
	if !ok {
		err = Error{
			Scope:     InternalScope,
			Condition: UnknownCondition,
			Values:    ErrorData{e.Error()},
			Message:   e.Error(),
		}
	}
	status := http.StatusInternalServerError
	switch err.Scope {
	case FormatScope, BoardScope, RequestScope:
		status = http.StatusBadRequest
	}
	if err.Message == "" {
		err.Message = err.Error()
	}
	return writeJSON(err, status, w, r)
}

type handlerError int

const (
	requestDecodingError handlerError = iota
	responseEncodingError
)

// writeError sends back a server error of the given type, sort
// of like http.Error, but it sends the JSON form of an
// appropriate Error.
func writeError(et handlerError, ed ErrorData,
	w http.ResponseWriter, r *http.Request) error {
	var err Error
	var status int
	switch et {
	case requestDecodingError:
		status = http.StatusBadRequest
		err = Error{
			Scope:     RequestScope,
			Condition: DecodeCondition,
			Values:    ed,
		}
	default:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Condition: EncodeCondition,
			Values:    ed,
		}
	}
	err.Message = err.Error()
	return writeJSON(err, status, w, r)
}

// writeJSON is called by handlers to encode and send the client
// response.  It returns an appropriate error status for the
// handler to return to its caller, as follows:
//
// 1. If writeJSON encounters an encoding error sending the
// response, it will create an Error object describing the
// failure, encode that Error as a 500-series response to the
// client, and return that Error to the handler.
//
// 2. If no encoding error occurs, but the handler is sending an
// Error object as the response to the client, writeJSON will
// return that same Error to the handler.
//
// 3. If no encoding error occurs, and the handler is sending a
// non-Error object as the response to the client, writeJSON will
// return nil to the handler.
func writeJSON(obj interface{}, status int, w http.ResponseWriter, r *http.Request) error {
	err, isErr := obj.(Error)
	bytes, e := json.Marshal(obj)
	if e != nil {
		if isErr && err.Scope == InternalScope && err.Condition == EncodeCondition {
			// We just failed to encode an encoding error.  This
			// should never happen!!  If it did, it almost
			// certainly means the JSON encoding system is dead,
			// so pseudo-encode the error by hand by sending the
			// Error's message as a quoted string.
			status = http.StatusInternalServerError // probably was already!
			bytes = []byte(fmt.Sprintf("%q", err.Error()))
		} else {
			// generate, send, and return an encoding error
			return writeError(responseEncodingError, ErrorData{e.Error()}, w, r)
		}
	}
	hs := w.Header()
	hs.Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
	if isErr {
		return err
	}
	return nil
}
