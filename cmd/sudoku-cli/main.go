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

// Command-line client for sudoku puzzle solving
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/llamatarianism/sudoku/dbprep"
	"github.com/llamatarianism/sudoku/puzzle"
	"github.com/llamatarianism/sudoku/storage"
	"github.com/pkg/profile"
)

// CPU profiling for solver performance work, off by default
var cpuprofile = flag.Bool("cpuprofile", false, "write a CPU profile to the current directory")

func main() {
	flag.Parse()
	if *cpuprofile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	// connect storage; without it we still solve, just forgetfully
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Printf("Couldn't connect storage: %v", err)
		log.Printf("Running statelessly: sessions and solves last only this run.")
	} else {
		storageConnected = true
		defer storage.Close()
		log.Printf("Connected to cache at %q", cacheId)
		log.Printf("Connected to database at %q", databaseId)
	}

	// catch signals
	shutdownOnSignal()

	// serve
	if err := listener(os.Stdout, os.Stdin); err != nil {
		log.Printf("CLI failure: %v", err)
		shutdown(listenerFailureShutdown)
	}
}

/*

CLI listener

*/

type request struct {
	inline  string
	command string
	args    []string
}

// read buffer size, a variable so tests can shrink it
var bufsize = 4096

// listener reads command lines and dispatches them to handlers.
// It returns when the input ends or a command asks to quit.
func listener(out io.Writer, in io.Reader) error {
	// if we are on a terminal, we do prompting
	// (see http://stackoverflow.com/questions/22744443/ for source)
	prompt := false
	if f, ok := out.(*os.File); ok {
		if stat, _ := f.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
			prompt = true
		}
	}

	// reads can end mid-line, so lines are assembled in pending
	var pending []byte
	input := make([]byte, bufsize)
	for {
		if prompt {
			fmt.Fprintf(out, "sudoku> ")
		}
		n, err := in.Read(input)
		switch err {
		case nil:
			pending = append(pending, input[:n]...)
			for {
				nl := bytes.IndexByte(pending, '\n')
				if nl < 0 {
					break
				}
				line := string(pending[:nl])
				pending = pending[nl+1:]
				if quit := dispatchLine(out, line); quit {
					return nil
				}
			}
		case io.EOF:
			// an unterminated last line still counts
			if len(pending) > 0 {
				dispatchLine(out, string(pending))
			}
			if prompt {
				fmt.Fprintf(out, " (EOF)\n")
			}
			return nil
		default:
			if prompt {
				fmt.Fprintf(out, " (read error)\n")
			}
			return err
		}
	}
}

// dispatchLine parses one input line and runs its command.  The
// return value reports whether the command asked to exit.
func dispatchLine(out io.Writer, line string) bool {
	r := &request{inline: strings.Trim(line, " \t\r\n")}
	args := strings.Split(r.inline, " ")
	r.command = strings.ToLower(args[0])
	switch r.command {
	case "":
		return false
	case "quit":
		fallthrough
	case "exit":
		return true
	}
	for _, arg := range args[1:] {
		if len(arg) > 0 {
			r.args = append(r.args, strings.ToLower(arg))
		}
	}
	dispatchCommand(out, r)
	return false
}

// command dispatching
type commandInfo struct {
	command     string
	argInfo     string
	description string
	handler     func(*cliSession, io.Writer, *request)
}

// the command dispatch info is sorted for easy usage printing,
// and then hashed for rapid dispatching
var (
	dispatchInfo  []commandInfo
	dispatchTable map[string]*commandInfo
)

func init() {
	dispatchInfo = []commandInfo{
		{"assign", "a1=5", "assign a value to a cell", assignHandler},
		{"back", "", "undo the last assignment", backHandler},
		{"help", "", "show this summary", helpHandler},
		{"hint", "a1", "show the values a cell can hold", hintHandler},
		{"hints", "on|off", "show candidates in the grid", hintsHandler},
		{"load", "values", "load a puzzle from 81 digits", loadHandler},
		{"markdown", "on|off", "format output in Markdown", markdownHandler},
		{"recent", "[count]", "list recently solved puzzles", recentHandler},
		{"reset", "", "restart the current puzzle", resetHandler},
		{"show", "", "show the current board", stateHandler},
		{"solve", "", "solve the current board", solveHandler},
	}
	dispatchTable = make(map[string]*commandInfo, len(dispatchInfo))
	for i := range dispatchInfo {
		dispatchTable[dispatchInfo[i].command] = &dispatchInfo[i]
	}
}

func dispatchCommand(w io.Writer, r *request) {
	defer func() {
		if err := recover(); err != nil {
			errorHandler(err, w, r)
		}
	}()

	session := sessionSelect(w, r)
	ci := dispatchTable[r.command]
	if ci == nil {
		usageHandler(fmt.Sprintf("%q is not a known command", r.command), w, r)
	} else {
		ci.handler(session, w, r)
	}
}

/*

request handlers

*/

// client state
var (
	useMarkdown    = false
	showCandidates = true
)

// boardString renders a board per the current display settings.
func boardString(b puzzle.Board) string {
	if useMarkdown {
		return b.MarkdownString(showCandidates)
	}
	return b.GridString(showCandidates)
}

func stateHandler(session *cliSession, w io.Writer, r *request) {
	fmt.Fprintf(w, "%s", boardString(session.board))
}

func markdownHandler(session *cliSession, w io.Writer, r *request) {
	if len(r.args) > 0 {
		switch r.args[0] {
		case "on":
			useMarkdown = true
		case "off":
			useMarkdown = false
		default:
			usageHandler(fmt.Sprintf("argument to %s must be 'on' or 'off'", r.command), w, r)
			return
		}
	}
	if useMarkdown {
		fmt.Fprintf(w, "Markdown is on\n")
	} else {
		fmt.Fprintf(w, "Markdown is off\n")
	}
}

func hintsHandler(session *cliSession, w io.Writer, r *request) {
	if len(r.args) > 0 {
		switch r.args[0] {
		case "on":
			showCandidates = true
		case "off":
			showCandidates = false
		default:
			usageHandler(fmt.Sprintf("argument to %s must be 'on' or 'off'", r.command), w, r)
			return
		}
	}
	if showCandidates {
		fmt.Fprintf(w, "Hints are on\n")
	} else {
		fmt.Fprintf(w, "Hints are off\n")
	}
}

func loadHandler(session *cliSession, w io.Writer, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires a single string of values", r.command), w, r)
		return
	}
	b, err := puzzle.ParseValues(r.args[0])
	if err != nil {
		fmt.Fprintf(w, "Load failed: %v\n", err)
		return
	}
	session.startPuzzle(b)
	fmt.Fprintf(w, "Loaded puzzle %s:\n", b.Hash())
	stateHandler(session, w, r)
}

func assignHandler(session *cliSession, w io.Writer, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires a single cell=value argument", r.command), w, r)
		return
	}
	cell, val, found := strings.Cut(r.args[0], "=")
	if !found {
		usageHandler(fmt.Sprintf("%s argument (%s) needs the form a1=5", r.command, r.args[0]), w, r)
		return
	}
	row, col, msg := parseCell(cell)
	if msg != "" {
		usageHandler(fmt.Sprintf("%s %s", r.command, msg), w, r)
		return
	}
	value, err := strconv.Atoi(val)
	if err != nil || value < 1 || value > puzzle.SideLength {
		usageHandler(fmt.Sprintf("%s value (%s) must be a digit from 1 to 9", r.command, val), w, r)
		return
	}

	next, e := session.board.Assign(row, col, value)
	if e != nil {
		fmt.Fprintf(w, "Assign failed: %v\n", e)
		return
	}
	session.addStep(next)
	fmt.Fprintf(w, "Assign succeeded:\n")
	stateHandler(session, w, r)
}

func backHandler(session *cliSession, w io.Writer, r *request) {
	if !session.removeStep() {
		fmt.Fprintf(w, "No choices to undo.\n")
		return
	}
	stateHandler(session, w, r)
}

func resetHandler(session *cliSession, w io.Writer, r *request) {
	session.startPuzzle(session.firstBoard())
	fmt.Fprintf(w, "Back to the start of puzzle %s:\n", session.board.Hash())
	stateHandler(session, w, r)
}

func hintHandler(session *cliSession, w io.Writer, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires a cell to look at", r.command), w, r)
		return
	}
	row, col, msg := parseCell(r.args[0])
	if msg != "" {
		usageHandler(fmt.Sprintf("%s %s", r.command, msg), w, r)
		return
	}
	if v := session.board.Get(row, col); v != 0 {
		fmt.Fprintf(w, "Cell %s already holds %d.\n", r.args[0], v)
		return
	}
	cs := session.board.Candidates(row, col)
	if len(cs) == 0 {
		fmt.Fprintf(w, "Cell %s has no usable values.\n", r.args[0])
		return
	}
	digits := make([]string, len(cs))
	for i, c := range cs {
		digits[i] = strconv.Itoa(c)
	}
	fmt.Fprintf(w, "Cell %s can hold: %s\n", r.args[0], strings.Join(digits, ", "))
}

func solveHandler(session *cliSession, w io.Writer, r *request) {
	record := session.recordSolve()
	if !record.Solvable {
		fmt.Fprintf(w, "This board has no solution.\n")
		return
	}
	solved, err := puzzle.ParseValues(record.Solution)
	if err != nil {
		panic(err)
	}
	fmt.Fprintf(w, "Solution:\n%s", boardString(solved))
}

func recentHandler(session *cliSession, w io.Writer, r *request) {
	if !storageConnected {
		fmt.Fprintf(w, "No storage connected; recent solves aren't available.\n")
		return
	}
	limit := 5
	if len(r.args) > 0 {
		n, err := strconv.Atoi(r.args[0])
		if err != nil || n < 1 {
			usageHandler(fmt.Sprintf("argument to %s must be a positive number", r.command), w, r)
			return
		}
		limit = n
	}
	records := storage.RecentSolves(limit)
	if len(records) == 0 {
		fmt.Fprintf(w, "No solves recorded yet.\n")
		return
	}
	for i, record := range records {
		outcome := "solvable"
		if !record.Solvable {
			outcome = "unsolvable"
		}
		fmt.Fprintf(w, "%2d. %s  %s, %d solves, last %s\n",
			i+1, record.PuzzleId, outcome, record.SolveCount,
			record.LastSolved.Format(time.RFC3339))
	}
}

func helpHandler(session *cliSession, w io.Writer, r *request) {
	fmt.Fprintf(w, "Usage:\n")
	printUsage(w)
}

func usageHandler(msg string, w io.Writer, r *request) {
	fmt.Fprintf(w, "Error: %s\nUsage:\n", msg)
	printUsage(w)
}

func printUsage(w io.Writer) {
	for _, ci := range dispatchInfo {
		fmt.Fprintf(w, "    %8s %-11s\t%s\n", ci.command, ci.argInfo, ci.description)
	}
	fmt.Fprintf(w, "  and 'quit' or EOF to exit.\n")
}

func errorHandler(err interface{}, w io.Writer, r *request) {
	fmt.Fprintf(w, "Panic executing %q: %v\n", r.inline, err)
	log.Printf("Panic executing %q: %v", r.inline, err)
}

// parseCell turns a cell name like "a1" into zero-based row and
// column numbers.  On failure it returns a usage message instead.
func parseCell(cell string) (row, col int, msg string) {
	if len(cell) < 2 {
		return 0, 0, fmt.Sprintf("cell (%s) needs a row letter and column number", cell)
	}
	row = int(cell[0] - 'a')
	if row < 0 || row >= puzzle.SideLength {
		return 0, 0, fmt.Sprintf("cell (%s) row is out of range", cell)
	}
	n, err := strconv.Atoi(cell[1:])
	if err != nil {
		return 0, 0, fmt.Sprintf("cell (%s) column is not a number", cell)
	}
	if n < 1 || n > puzzle.SideLength {
		return 0, 0, fmt.Sprintf("cell (%s) column is out of range", cell)
	}
	return row, n - 1, ""
}

/*

session handling

*/

// A cliSession is the user's current position in a puzzle.  When
// storage is connected the steps live there, so a later run picks
// up where this one left off; otherwise they live here and last
// only as long as the process.
type cliSession struct {
	sid   string
	board puzzle.Board
	steps []puzzle.Board   // in-memory step stack, stateless mode only
	saved *storage.Session // nil when running statelessly
}

// the CLI serves a single user, so it keeps a single session,
// created on first use.  The fixed session ID is what lets a
// storage-backed session survive between runs.
var current *cliSession

const cliSessionID = "cli"

// storageConnected reports whether Connect succeeded at startup
var storageConnected bool

// the board a fresh session starts on
var defaultBoard puzzle.Board

// every session needs a board to start from, so a missing default
// sample is a programming error worth dying for
func init() {
	values, ok := dbprep.SampleValues(dbprep.DefaultSampleName)
	if !ok {
		log.Fatalf("No default sample puzzle %q!", dbprep.DefaultSampleName)
	}
	b, err := puzzle.ParseValues(values)
	if err != nil {
		log.Fatalf("Default sample puzzle is invalid: %v", err)
	}
	defaultBoard = b
}

// sessionSelect: find or create the user's session.
func sessionSelect(w io.Writer, r *request) *cliSession {
	if current != nil {
		return current
	}
	session := &cliSession{sid: cliSessionID, board: defaultBoard}
	if storageConnected {
		saved := &storage.Session{SID: session.sid, Created: time.Now().Format(time.RFC3339)}
		if saved.Lookup() {
			saved.LoadStep()
			session.board = saved.Board
			log.Printf("Found session %v, puzzle %q, on step %d.",
				saved.SID, saved.PID, saved.Step)
		} else {
			saved.StartPuzzle(defaultBoard)
		}
		session.saved = saved
	} else {
		session.steps = []puzzle.Board{defaultBoard}
	}
	current = session
	return current
}

// startPuzzle: make the given board the session's puzzle,
// clearing any existing steps.
func (session *cliSession) startPuzzle(b puzzle.Board) {
	session.board = b
	if session.saved != nil {
		session.saved.StartPuzzle(b)
	} else {
		session.steps = []puzzle.Board{b}
	}
}

// addStep: make the given board the new current step.
func (session *cliSession) addStep(b puzzle.Board) {
	session.board = b
	if session.saved != nil {
		session.saved.AddStep(b)
	} else {
		session.steps = append(session.steps, b)
	}
}

// removeStep: drop the last step and restore the one before it.
// Returns false at step 1, where there is nothing to undo.
func (session *cliSession) removeStep() bool {
	if session.saved != nil {
		if session.saved.Step <= 1 {
			return false
		}
		session.saved.RemoveStep()
		session.board = session.saved.Board
		return true
	}
	if len(session.steps) <= 1 {
		return false
	}
	session.steps = session.steps[:len(session.steps)-1]
	session.board = session.steps[len(session.steps)-1]
	return true
}

// firstBoard: the board the current puzzle started from.
func (session *cliSession) firstBoard() puzzle.Board {
	if session.saved != nil {
		return session.saved.FirstStep()
	}
	return session.steps[0]
}

// recordSolve answers for the session's current board, reusing a
// stored answer when there is one and remembering new ones.
func (session *cliSession) recordSolve() *storage.SolveRecord {
	if storageConnected {
		if record := storage.LookupSolve(session.board); record != nil {
			return storage.TouchSolve(record.PuzzleId)
		}
	}
	solvable, solution := true, ""
	if solved, err := session.board.Solve(); err == nil {
		solution = solved.Values()
	} else if puzzle.IsUnsolvable(err) {
		solvable = false
	} else {
		panic(err)
	}
	if storageConnected {
		return storage.SaveSolve(session.board.Values(), solution, solvable)
	}
	now := time.Now()
	return &storage.SolveRecord{
		PuzzleId:   session.board.Hash(),
		Values:     session.board.Values(),
		Solvable:   solvable,
		Solution:   solution,
		Created:    now,
		SolveCount: 1,
		LastSolved: now,
	}
}

/*

coordinate shutdown

*/

type shutdownCause int

const (
	unknownShutdown = iota
	caughtSignalShutdown
	listenerFailureShutdown
)

// for testing, allow alternate forms of shutdown
var alternateShutdown func(reason shutdownCause)

// shutdown: close the storage connections and exit.
func shutdown(reason shutdownCause) {
	storage.Close()

	// for testing: run alternateShutdown instead, if defined
	if alternateShutdown != nil {
		alternateShutdown(reason)
		panic(reason) // shouldn't get here
	}

	switch reason {
	case unknownShutdown:
		log.Fatal("Exiting: normal shutdown.")
	case caughtSignalShutdown:
		log.Fatal("Exiting: caught signal.")
	case listenerFailureShutdown:
		log.Fatal("Exiting: command listener failed.")
	default:
		log.Fatal("Exiting: unknown cause.")
	}
}

// shutdownOnSignal: catch interrupt and termination signals and
// do a clean shutdown.
func shutdownOnSignal() {
	// based on example in os.signal godoc
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		s := <-c
		log.Printf("Received OS-level signal: %v", s)
		shutdown(caughtSignalShutdown)
	}()
}
