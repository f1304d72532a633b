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

package main

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/llamatarianism/sudoku/puzzle"
	"github.com/llamatarianism/sudoku/storage"
)

const (
	workedStartString = "530070000" +
		"600195000" +
		"098000060" +
		"800060003" +
		"400803001" +
		"700020006" +
		"060000280" +
		"000419005" +
		"000080079"
	workedSolvedString = "534678912" +
		"672195348" +
		"198342567" +
		"859761423" +
		"426853791" +
		"713924856" +
		"961537284" +
		"287419635" +
		"345286179"
	deadEndString = "123456780" +
		"000000009" +
		"000000000" +
		"000000000" +
		"000000000" +
		"000000000" +
		"000000000" +
		"000000000" +
		"000000000"
)

// grid rows the scripted tests look for, rendered with hints off
const (
	workedRowA   = "a| 5   3   _ | _   7   _ | _   _   _ \n"
	assignedRowA = "a| 5   3   4 | _   7   _ | _   _   _ \n"
	solvedRowA   = "a| 5   3   4 | 6   7   8 | 9   1   2 \n"
	solvedRowI   = "i| 3   4   5 | 2   8   6 | 1   7   9 \n"
)

type tLogger struct {
	t   *testing.T
	log bytes.Buffer
}

func (t *tLogger) Write(p []byte) (n int, e error) {
	n, e = t.log.Write(p)
	t.t.Log(string(p[:n-1]))
	return
}

// statelessSetup runs a test against in-memory sessions with a
// known-clean client state.
func statelessSetup(t *testing.T) {
	tlog := &tLogger{t: t}
	if !testing.Short() {
		log.SetOutput(tlog)
	} else {
		log.SetOutput(os.Stderr)
	}
	storageConnected = false
	current = nil
	useMarkdown = false
	showCandidates = true
}

// storageSetup is statelessSetup plus a storage connection; tests
// that need one are skipped when storage isn't reachable.
func storageSetup(t *testing.T) {
	statelessSetup(t)
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		t.Skipf("Skipping, can't reach storage: %v", err)
	}
	storageConnected = true
	log.Printf("Connected to cache at %q", cacheId)
	log.Printf("Connected to database at %q", databaseId)
}

func storageTeardown() {
	storage.Close()
	storageConnected = false
	current = nil
}

// runScript feeds scripted commands to the listener and returns
// everything it wrote.
func runScript(t *testing.T, script string) string {
	in := bytes.NewBufferString(script)
	out := new(bytes.Buffer)
	if err := listener(out, in); err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	return out.String()
}

func mustBoard(t *testing.T, values string) puzzle.Board {
	b, err := puzzle.ParseValues(values)
	if err != nil {
		t.Fatalf("Fixture board %q won't parse: %v", values, err)
	}
	return b
}

func TestNullInput(t *testing.T) {
	statelessSetup(t)

	null := new(bytes.Buffer)
	err := listener(os.Stdout, null)
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
}

func TestMarkdown(t *testing.T) {
	statelessSetup(t)

	in := bytes.NewBufferString("markdown\nmarkdown on\nmarkdown off\n")
	out := new(bytes.Buffer)
	err := listener(out, in)
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	expected := "Markdown is off\nMarkdown is on\nMarkdown is off\n"
	result := out.String()
	if result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestSmallBuffer(t *testing.T) {
	oldsize := bufsize
	bufsize = 10
	defer func() { bufsize = oldsize }()

	statelessSetup(t)

	in := bytes.NewBufferString("markdown\nmarkdown on\nmarkdown off\n")
	out := new(bytes.Buffer)
	err := listener(out, in)
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	expected := "Markdown is off\nMarkdown is on\nMarkdown is off\n"
	result := out.String()
	if result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestHints(t *testing.T) {
	statelessSetup(t)

	in := bytes.NewBufferString("hints\nhints off\nhints on\n")
	out := new(bytes.Buffer)
	err := listener(out, in)
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	expected := "Hints are on\nHints are off\nHints are on\n"
	result := out.String()
	if result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestBackFail(t *testing.T) {
	statelessSetup(t)

	in := bytes.NewBufferString("back\n")
	out := new(bytes.Buffer)
	err := listener(out, in)
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	expected := "No choices to undo.\n"
	result := out.String()
	if result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestUnknownCommand(t *testing.T) {
	statelessSetup(t)

	result := runScript(t, "frobnicate\n")
	wanted := "Error: \"frobnicate\" is not a known command\nUsage:\n"
	if !strings.HasPrefix(result, wanted) {
		t.Errorf("Got %q, expected prefix %q", result, wanted)
	}
	trailer := "  and 'quit' or EOF to exit.\n"
	if !strings.HasSuffix(result, trailer) {
		t.Errorf("Got %q, expected suffix %q", result, trailer)
	}
	if !strings.Contains(result, "markdown on|off") {
		t.Errorf("Usage doesn't mention the markdown command: %q", result)
	}
}

func TestHelp(t *testing.T) {
	statelessSetup(t)

	result := runScript(t, "help\n")
	if !strings.HasPrefix(result, "Usage:\n") {
		t.Errorf("Got %q, expected a usage summary", result)
	}
	if strings.Contains(result, "Error:") {
		t.Errorf("Help shouldn't report an error: %q", result)
	}
	for _, command := range []string{"assign", "back", "hint", "load", "recent", "reset", "show", "solve"} {
		if !strings.Contains(result, command) {
			t.Errorf("Usage doesn't mention the %s command: %q", command, result)
		}
	}
}

func TestLoadAndShow(t *testing.T) {
	statelessSetup(t)
	b := mustBoard(t, workedStartString)

	result := runScript(t, "hints off\nload "+workedStartString+"\nshow\n")
	if !strings.Contains(result, "Loaded puzzle "+b.Hash()+":\n") {
		t.Errorf("No load confirmation in %q", result)
	}
	if strings.Count(result, workedRowA) != 2 {
		t.Errorf("Expected the loaded board twice (load and show) in %q", result)
	}
}

func TestLoadFail(t *testing.T) {
	statelessSetup(t)

	result := runScript(t, "load 123\nload\n")
	if !strings.Contains(result, "Load failed: ") {
		t.Errorf("No load failure for a short string in %q", result)
	}
	if !strings.Contains(result, "Error: load requires a single string of values") {
		t.Errorf("No usage error for a bare load in %q", result)
	}
}

func TestSolveCommand(t *testing.T) {
	statelessSetup(t)

	result := runScript(t, "hints off\nload "+workedStartString+"\nsolve\n")
	if !strings.Contains(result, "Solution:\n") {
		t.Errorf("No solution header in %q", result)
	}
	if !strings.Contains(result, solvedRowA) || !strings.Contains(result, solvedRowI) {
		t.Errorf("Solution rows missing from %q", result)
	}
}

func TestSolveUnsolvable(t *testing.T) {
	statelessSetup(t)

	result := runScript(t, "load "+deadEndString+"\nsolve\n")
	if !strings.Contains(result, "This board has no solution.\n") {
		t.Errorf("No unsolvable notice in %q", result)
	}
	if strings.Contains(result, "Solution:") {
		t.Errorf("Unsolvable board got a solution in %q", result)
	}
}

func TestAssignAndBack(t *testing.T) {
	statelessSetup(t)

	result := runScript(t, "hints off\nload "+workedStartString+"\nassign a3=4\nback\n")
	if !strings.Contains(result, "Assign succeeded:\n") {
		t.Errorf("No assign confirmation in %q", result)
	}
	if strings.Count(result, assignedRowA) != 1 {
		t.Errorf("Expected the assigned board once in %q", result)
	}
	// once on load, once again after the back
	if strings.Count(result, workedRowA) != 2 {
		t.Errorf("Expected the starting board twice in %q", result)
	}
}

func TestAssignFail(t *testing.T) {
	statelessSetup(t)

	// the default puzzle already has a 9 in row b, and a
	// value in cell a1
	result := runScript(t, "assign a0=5\nassign j1=5\nassign a1=x\nassign a1\nassign b3=9\n")
	for _, wanted := range []string{
		"Error: assign cell (a0) column is out of range",
		"Error: assign cell (j1) row is out of range",
		"Error: assign value (x) must be a digit from 1 to 9",
		"Error: assign argument (a1) needs the form a1=5",
		"Assign failed: ",
	} {
		if !strings.Contains(result, wanted) {
			t.Errorf("Missing %q in %q", wanted, result)
		}
	}
	if strings.Contains(result, "Assign succeeded") {
		t.Errorf("An assign unexpectedly succeeded in %q", result)
	}
}

func TestHintCommand(t *testing.T) {
	statelessSetup(t)

	// the default puzzle is the worked example: cell a3 can
	// take 1, 2, or 4, and cell a1 is a given
	result := runScript(t, "hint a3\nhint a1\nhint\n")
	for _, wanted := range []string{
		"Cell a3 can hold: 1, 2, 4\n",
		"Cell a1 already holds 5.\n",
		"Error: hint requires a cell to look at",
	} {
		if !strings.Contains(result, wanted) {
			t.Errorf("Missing %q in %q", wanted, result)
		}
	}
}

func TestResetCommand(t *testing.T) {
	statelessSetup(t)
	b := mustBoard(t, workedStartString)

	result := runScript(t, "hints off\nload "+workedStartString+"\nassign a3=4\nreset\nback\n")
	if !strings.Contains(result, "Back to the start of puzzle "+b.Hash()+":\n") {
		t.Errorf("No reset confirmation in %q", result)
	}
	// once on load, once again after the reset
	if strings.Count(result, workedRowA) != 2 {
		t.Errorf("Expected the starting board twice in %q", result)
	}
	// reset clears the steps, so there's nothing to undo
	if !strings.HasSuffix(result, "No choices to undo.\n") {
		t.Errorf("Back after reset should fail in %q", result)
	}
}

func TestRecentStateless(t *testing.T) {
	statelessSetup(t)

	result := runScript(t, "recent\n")
	expected := "No storage connected; recent solves aren't available.\n"
	if result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestStorageSession(t *testing.T) {
	storageSetup(t)
	defer storageTeardown()

	// work a puzzle partway through
	result := runScript(t, "hints off\nload "+workedStartString+"\nassign a3=4\n")
	if !strings.Contains(result, "Assign succeeded:\n") {
		t.Fatalf("No assign confirmation in %q", result)
	}

	// a fresh session, as after a restart, resumes at the
	// assigned step
	current = nil
	result = runScript(t, "show\n")
	if !strings.Contains(result, assignedRowA) {
		t.Errorf("Session didn't resume at the assigned step: %q", result)
	}

	// and the undo stack survives too
	current = nil
	result = runScript(t, "back\n")
	if !strings.Contains(result, workedRowA) {
		t.Errorf("Back across a restart didn't restore the start: %q", result)
	}
}

func TestRecentStorage(t *testing.T) {
	storageSetup(t)
	defer storageTeardown()

	b := mustBoard(t, workedStartString)
	result := runScript(t, "hints off\nload "+workedStartString+"\nsolve\nrecent\n")
	if !strings.Contains(result, solvedRowA) {
		t.Errorf("Solution rows missing from %q", result)
	}
	if !strings.Contains(result, b.Hash()+"  solvable, ") {
		t.Errorf("Recent solves don't mention the worked puzzle: %q", result)
	}
}
