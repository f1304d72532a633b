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
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

// postRequest builds a POST with the given JSON body.
func postRequest(t *testing.T, target, body string) (*httptest.ResponseRecorder, *http.Request) {
	r, e := http.NewRequest("POST", target, strings.NewReader(body))
	if e != nil {
		t.Fatalf("Failed to create request: %v", e)
	}
	return httptest.NewRecorder(), r
}

// solveBody builds the JSON body of a solve request.
func solveBody(t *testing.T, values string, row, col int) string {
	bytes, e := json.Marshal(SolveRequest{Values: values, Row: row, Col: col})
	if e != nil {
		t.Fatalf("Failed to marshal request: %v", e)
	}
	return string(bytes)
}

func TestSolveHandler(t *testing.T) {
	w, r := postRequest(t, "/api/solve", solveBody(t, workedStartString, 0, 0))
	result, e := SolveHandler(w, r)
	if e != nil {
		t.Fatalf("SolveHandler failed: %v", e)
	}
	if w.Code != http.StatusOK {
		t.Errorf("Got status %d, expected %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Got content type %q", ct)
	}
	if !result.Solvable || result.Solution != workedSolvedString {
		t.Errorf("Got result %+v", result)
	}
	if result.Values != workedStartString {
		t.Errorf("Result does not echo the puzzle: %q", result.Values)
	}
	if !strings.HasPrefix(result.Grid, "5 3 4 6 7 8 9 1 2\n") {
		t.Errorf("Result grid starts %q", result.Grid)
	}
	var sent SolveResult
	if e := json.Unmarshal(w.Body.Bytes(), &sent); e != nil {
		t.Fatalf("Response doesn't decode: %v", e)
	}
	if !reflect.DeepEqual(sent, result) {
		t.Errorf("Response %+v differs from returned result %+v", sent, result)
	}
}

func TestSolveHandlerUnsolvable(t *testing.T) {
	values := mustBoard(t, doubledGivenValues).Values()
	w, r := postRequest(t, "/api/solve", solveBody(t, values, 0, 0))
	result, e := SolveHandler(w, r)
	if e != nil {
		t.Fatalf("SolveHandler failed: %v", e)
	}
	// an unsolvable puzzle is an answer, not an error
	if w.Code != http.StatusOK {
		t.Errorf("Got status %d, expected %d", w.Code, http.StatusOK)
	}
	if result.Solvable || result.Solution != "" || result.Grid != "" {
		t.Errorf("Got result %+v", result)
	}
}

func TestSolveHandlerBadRequests(t *testing.T) {
	testcases := []struct {
		body      string
		scope     ErrorScope
		condition ErrorCondition
	}{
		{`{`, RequestScope, DecodeCondition},
		{`"values"`, RequestScope, DecodeCondition},
		{solveBody(t, "123", 0, 0), FormatScope, LengthCondition},
		{solveBody(t, strings.Repeat("x", CellCount), 0, 0), FormatScope, DigitCondition},
	}
	for i, tc := range testcases {
		w, r := postRequest(t, "/api/solve", tc.body)
		_, e := SolveHandler(w, r)
		if e == nil {
			t.Fatalf("Case %d: no error from SolveHandler", i)
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Case %d: got status %d, expected %d", i, w.Code, http.StatusBadRequest)
		}
		err, ok := e.(Error)
		if !ok {
			t.Fatalf("Case %d: returned a non-Error error: %v", i, e)
		}
		if err.Scope != tc.scope || err.Condition != tc.condition {
			t.Errorf("Case %d: got scope %v condition %v", i, err.Scope, err.Condition)
		}
		var sent Error
		if e := json.Unmarshal(w.Body.Bytes(), &sent); e != nil {
			t.Fatalf("Case %d: response doesn't decode: %v", i, e)
		}
		if sent.Condition != tc.condition || sent.Message == "" {
			t.Errorf("Case %d: response error is %+v", i, sent)
		}
	}
}

func TestCandidatesHandler(t *testing.T) {
	w, r := postRequest(t, "/api/candidates", solveBody(t, workedStartString, 0, 2))
	info, e := CandidatesHandler(w, r)
	if e != nil {
		t.Fatalf("CandidatesHandler failed: %v", e)
	}
	if w.Code != http.StatusOK {
		t.Errorf("Got status %d, expected %d", w.Code, http.StatusOK)
	}
	expected := CandidateInfo{Row: 0, Col: 2, Candidates: []int{1, 2, 4}}
	if !reflect.DeepEqual(info, expected) {
		t.Errorf("Got info %+v, expected %+v", info, expected)
	}
	var sent CandidateInfo
	if e := json.Unmarshal(w.Body.Bytes(), &sent); e != nil {
		t.Fatalf("Response doesn't decode: %v", e)
	}
	if !reflect.DeepEqual(sent, info) {
		t.Errorf("Response %+v differs from returned info %+v", sent, info)
	}
}

func TestCandidatesHandlerBadLocation(t *testing.T) {
	for _, cell := range [][2]int{{9, 0}, {0, 9}, {-1, 0}, {0, -1}} {
		w, r := postRequest(t, "/api/candidates", solveBody(t, workedStartString, cell[0], cell[1]))
		_, e := CandidatesHandler(w, r)
		if e == nil {
			t.Fatalf("No error for location (%d, %d)", cell[0], cell[1])
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Got status %d for location (%d, %d)", w.Code, cell[0], cell[1])
		}
		if err, ok := e.(Error); !ok || err.Condition != LocationCondition {
			t.Errorf("Got error %v for location (%d, %d)", e, cell[0], cell[1])
		}
	}
}

func TestWriteError(t *testing.T) {
	// an Error in a client-fixable scope gets a 400
	w := httptest.NewRecorder()
	if e := WriteError(lengthError(3), w, nil); e == nil {
		t.Errorf("WriteError returned nil for an Error response")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("Got status %d, expected %d", w.Code, http.StatusBadRequest)
	}

	// a non-Error error gets wrapped and reported as ours
	w = httptest.NewRecorder()
	e := WriteError(errors.New("the dog ate it"), w, nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Got status %d, expected %d", w.Code, http.StatusInternalServerError)
	}
	err, ok := e.(Error)
	if !ok {
		t.Fatalf("WriteError returned a non-Error error: %v", e)
	}
	if err.Scope != InternalScope || err.Message != "the dog ate it" {
		t.Errorf("Got error %+v", err)
	}
}
