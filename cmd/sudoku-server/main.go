package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/llamatarianism/sudoku/client"
	"github.com/llamatarianism/sudoku/dbprep"
	"github.com/llamatarianism/sudoku/puzzle"
	"github.com/llamatarianism/sudoku/storage"
)

const cookieName = "sudokuID"
const cookiePath = "/"

// A serverSession tracks one browser's solving state.  When
// storage is connected the saved session is authoritative and the
// in-memory copy is just a cache; without storage the in-memory
// copy is all there is.
type serverSession struct {
	sessionID string
	board     puzzle.Board
	saved     *storage.Session       // nil when running statelessly
	history   []*storage.SolveRecord // stateless solve history
}

var (
	defaultBoard     puzzle.Board
	storageConnected bool
	sessions         = make(map[string]*serverSession)
	sessionMutex     sync.RWMutex
)

// every page needs a board to show, so a missing default sample
// is a programming error worth dying for
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

/*

session management

*/

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.  Session IDs
// are UUIDs, so stray or forged cookie values that don't parse
// as one just get replaced.
func getCookie(w http.ResponseWriter, r *http.Request) string {
	if sc, err := r.Cookie(cookieName); err == nil {
		if _, err := uuid.Parse(sc.Value); err == nil {
			return sc.Value
		}
	}

	// no session cookie or not a valid session cookie,
	// start a new session with a new cookie
	sid := uuid.NewString()
	sc := &http.Cookie{Name: cookieName, Value: sid, Path: cookiePath}
	http.SetCookie(w, sc)
	return sid
}

// since session selection can happen concurrently from
// simultaneous goroutines, it has to be interlocked
func sessionSelect(w http.ResponseWriter, r *http.Request) *serverSession {
	sessionID := getCookie(w, r)
	// look up the session for the cookie
	sessionMutex.RLock()
	session, ok := sessions[sessionID]
	sessionMutex.RUnlock()
	if ok && session != nil {
		return session
	}
	// initialize and save the new session
	session = newSession(sessionID)
	sessionMutex.Lock()
	sessions[sessionID] = session
	sessionMutex.Unlock()
	return session
}

// newSession builds the in-memory state for a session id.  With
// storage connected, a saved session is resumed where it left
// off; otherwise the session starts fresh on the default sample.
func newSession(sessionID string) *serverSession {
	session := &serverSession{sessionID: sessionID, board: defaultBoard}
	if storageConnected {
		saved := &storage.Session{SID: sessionID, Created: time.Now().Format(time.RFC3339)}
		if saved.Lookup() {
			saved.LoadStep()
			session.board = saved.Board
		} else {
			saved.StartPuzzle(defaultBoard)
		}
		session.saved = saved
	}
	return session
}

/*

request handling

*/

// rootHandler routes everything: static resources first, then the
// session-bound pages and API operations.  Handler panics (which
// is how storage failures arrive) are recovered here and turned
// into 500s.
func rootHandler(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if e := recover(); e != nil {
			log.Printf("Recovered from panic handling %s %s: %v", r.Method, r.URL.Path, e)
			err, ok := e.(error)
			if !ok {
				err = fmt.Errorf("%v", e)
			}
			if strings.HasPrefix(r.URL.Path, "/api/") {
				puzzle.WriteError(err, w, r)
			} else {
				errorPageHandler(err, w, r)
			}
		}
	}()

	if client.StaticHandler(w, r) {
		return
	}
	log.Printf("Handling %s %s...", r.Method, r.URL.Path)
	session := sessionSelect(w, r)
	switch {
	case r.URL.Path == "/":
		session.solverHandler(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/"):
		session.apiHandler(w, r)
	default:
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// apiHandler dispatches the API operations for a session.
func (session *serverSession) apiHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/solve" && r.Method == "POST":
		session.solveHandler(w, r)
	case r.URL.Path == "/api/candidates" && r.Method == "POST":
		if _, err := puzzle.CandidatesHandler(w, r); err != nil {
			log.Printf("Candidate request failed, returned error.")
		}
	case r.URL.Path == "/api/history" && r.Method == "GET":
		session.historyHandler(w, r)
	case r.URL.Path == "/api/reset" && r.Method == "POST":
		session.resetHandler(w, r)
	default:
		log.Printf("%s %s unexpected; no action taken.", r.Method, r.URL.Path)
		http.NotFound(w, r)
	}
}

// solveHandler answers a solve request from the record of an
// earlier solve when there is one, solving and recording the
// puzzle when there isn't.
func (session *serverSession) solveHandler(w http.ResponseWriter, r *http.Request) {
	b, req, err := puzzle.RequestBoard(w, r)
	if err != nil {
		log.Printf("Solve request failed, returned error, no session change.")
		return
	}
	record := session.recordSolve(b)
	result := puzzle.SolveResult{
		Values:   req.Values,
		Solvable: record.Solvable,
		Solution: record.Solution,
	}
	if record.Solvable {
		if solved, err := puzzle.ParseValues(record.Solution); err == nil {
			result.Grid = solved.String()
		}
	}
	puzzle.WriteResult(result, w, r)
	log.Printf("Answered solve of puzzle %q for session %v (solvable: %v, solve %d).",
		record.PuzzleId, session.sessionID, record.Solvable, record.SolveCount)
}

// recordSolve returns the solve record for a board, solving the
// puzzle and storing the outcome if it hasn't been seen before.
// The solve is also appended to the session's history.
func (session *serverSession) recordSolve(b puzzle.Board) *storage.SolveRecord {
	var record *storage.SolveRecord
	if storageConnected {
		if record = storage.LookupSolve(b); record != nil {
			record = storage.TouchSolve(record.PuzzleId)
		}
	} else {
		record = session.localTouch(b.Hash())
	}
	if record == nil {
		solvable, solution := false, ""
		if solved, err := b.Solve(); err == nil {
			solvable, solution = true, solved.Values()
		}
		if storageConnected {
			record = storage.SaveSolve(b.Values(), solution, solvable)
		} else {
			now := time.Now()
			record = &storage.SolveRecord{
				PuzzleId:   b.Hash(),
				Values:     b.Values(),
				Solvable:   solvable,
				Solution:   solution,
				Created:    now,
				SolveCount: 1,
				LastSolved: now,
			}
		}
	}
	if session.saved != nil {
		session.saved.AddSolve(record.PuzzleId)
	} else {
		session.history = append(session.history, record)
	}
	return record
}

// localTouch is the stateless stand-in for TouchSolve: find an
// earlier solve of the same puzzle in this session's history and
// bump its metrics.
func (session *serverSession) localTouch(id string) *storage.SolveRecord {
	for _, record := range session.history {
		if record.PuzzleId == id {
			record.SolveCount++
			record.LastSolved = time.Now()
			return record
		}
	}
	return nil
}

// historyHandler returns the session's recorded solves, in the
// order they happened.
func (session *serverSession) historyHandler(w http.ResponseWriter, r *http.Request) {
	records := make([]*storage.SolveRecord, 0)
	if session.saved != nil {
		for _, id := range session.saved.Solves() {
			if record := storage.FindSolve(id); record != nil {
				records = append(records, record)
			}
		}
	} else {
		records = append(records, session.history...)
	}
	writeJSON(records, w)
	log.Printf("Returned %d history entries for session %v.", len(records), session.sessionID)
}

// resetHandler clears the session's solve history.
func (session *serverSession) resetHandler(w http.ResponseWriter, r *http.Request) {
	if session.saved != nil {
		session.saved.ClearSolves()
	}
	session.history = nil
	log.Printf("Cleared solve history for session %v.", session.sessionID)
	writeJSON(make([]*storage.SolveRecord, 0), w)
}

// solverHandler returns the solver page for the session's current
// board.
func (session *serverSession) solverHandler(w http.ResponseWriter, r *http.Request) {
	body := client.SolverPage(session.sessionID, session.board)
	hs := w.Header()
	hs.Add("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// errorPageHandler returns an error page as a 500 response.
func errorPageHandler(err error, w http.ResponseWriter, r *http.Request) {
	body := client.ErrorPage(err)
	hs := w.Header()
	hs.Add("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(body))
}

// writeJSON marshals a value into a 200 response.  Marshaling
// the types used here can't fail, so failures panic into the
// rootHandler recovery.
func writeJSON(value interface{}, w http.ResponseWriter) {
	body, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Errorf("Failed to marshal response: %v", err))
	}
	hs := w.Header()
	hs.Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

/*

startup

*/

func main() {
	if err := client.VerifyResources(); err != nil {
		log.Fatalf("Resource verification failed: %v", err)
	}

	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Printf("Couldn't connect storage: %v", err)
		log.Printf("Running statelessly: solves won't be remembered across runs.")
	} else {
		storageConnected = true
		defer storage.Close()
		log.Printf("Connected to cache at %q.", cacheId)
		log.Printf("Connected to database at %q.", databaseId)
	}

	http.HandleFunc("/", rootHandler)

	// Heroku-style environment port sensing
	port := os.Getenv("PORT")
	if port == "" {
		// running locally in dev mode
		port = "localhost:8080"
	} else {
		// running as a true server
		port = ":" + port
	}

	log.Printf("Listening on %s...", port)
	err = http.ListenAndServe(port, nil)
	if err != nil {
		log.Fatal("Listener failure: ", err)
	}
}
