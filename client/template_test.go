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

package client

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/llamatarianism/sudoku/puzzle"
)

const workedStartString = "530070000" +
	"600195000" +
	"098000060" +
	"800060003" +
	"400803001" +
	"700020006" +
	"060000280" +
	"000419005" +
	"000080079"

func mustBoard(t *testing.T, values string) puzzle.Board {
	t.Helper()
	b, err := puzzle.ParseValues(values)
	if err != nil {
		t.Fatalf("Invalid board values: %v", err)
	}
	return b
}

func TestSolverPage(t *testing.T) {
	b := mustBoard(t, workedStartString)
	body := SolverPage("httpx-Test0", b)

	if !strings.Contains(body, "<title>Sudoku: Solver</title>") {
		t.Errorf("Solver page has wrong title:\n%v", body)
	}
	if !strings.Contains(body, `data-session="httpx-Test0"`) {
		t.Errorf("Solver page doesn't carry the session id:\n%v", body)
	}
	if !strings.Contains(body, `data-puzzle="`+b.Hash()+`"`) {
		t.Errorf("Solver page doesn't carry the puzzle id:\n%v", body)
	}
	if count := strings.Count(body, "<td"); count != puzzle.CellCount {
		t.Errorf("Solver page has %d cells, expected %d", count, puzzle.CellCount)
	}
	if count := strings.Count(body, "&nbsp;"); count != b.CountEmpty() {
		t.Errorf("Solver page has %d empty cells, expected %d", count, b.CountEmpty())
	}

	// spot-check cell markup: values, shading, and block borders
	markup := []string{
		`<td id="c1" class="darker top left">5</td>`,
		`<td id="c3" class="darker top right">&nbsp;</td>`,
		`<td id="c4" class="lighter top left">&nbsp;</td>`,
		`<td id="c5" class="lighter top center">7</td>`,
		`<td id="c41" class="darker middle center">&nbsp;</td>`,
	}
	for _, cell := range markup {
		if !strings.Contains(body, cell) {
			t.Errorf("Solver page is missing %q:\n%v", cell, body)
		}
	}
}

func TestErrorPage(t *testing.T) {
	body := ErrorPage(fmt.Errorf("Test Error 0"))

	if !strings.Contains(body, "<title>Sudoku: Error</title>") {
		t.Errorf("Error page has wrong title:\n%v", body)
	}
	if !strings.Contains(body, "Test Error 0") {
		t.Errorf("Error page doesn't carry the message:\n%v", body)
	}
	if !strings.Contains(body, `href="`+reportBugPath+`"`) {
		t.Errorf("Error page doesn't link the bug report page:\n%v", body)
	}
}

/*

footer

*/

func TestApplicationFooter(t *testing.T) {
	defer os.Unsetenv("SUDOKU_ENV")

	testcases := []struct {
		env    string
		footer string
	}{
		{"", "[Sudoku local]"},
		{"local", "[Sudoku local]"},
		{"staging", "[Sudoku 1.2 (staging)]"},
		{"production", "[Sudoku 1.2 (production)]"},
	}
	for i, tc := range testcases {
		os.Setenv("SUDOKU_ENV", tc.env)
		if footer := applicationFooter(); footer != tc.footer {
			t.Errorf("Case %d: got %q, expected %q", i, footer, tc.footer)
		}
	}
}
