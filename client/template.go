package client

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/llamatarianism/sudoku/puzzle"
)

/*

solver pages

*/

// A templateSolverPage contains the values to fill the solver
// page template.
type templateSolverPage struct {
	SessionID, PuzzleID       string
	Title, TopHead            string
	IconFile, CssFile, JsFile string
	Puzzle                    templatePuzzle
	ApplicationFooter         string
}

// templatePuzzle is the structure expected by the puzzle grid
// section of the solver page template.
type templatePuzzle [][]templatePuzzleCell

// A templatePuzzleCell contains the cell's index, value, and CSS
// styling classes as expected by the puzzle grid section of the
// solver page template.
type templatePuzzleCell struct {
	Index                   int
	Value                   template.HTML
	Shade, HBorder, VBorder string
}

// add solver statics to the static list
func init() {
	staticResourcePaths["/solver.js"] = "solver/puzzle.js"
	staticResourcePaths["/solver.css"] = "solver/puzzle.css"
}

// SolverPage executes the solver page template over the passed
// session and board, and returns the solver page content as a
// string.  If there is an error, what's returned is the error
// page content as a string.
func SolverPage(sessionID string, b puzzle.Board) string {
	tsp := templateSolverPage{
		SessionID:         sessionID,
		PuzzleID:          b.Hash(),
		Title:             fmt.Sprintf("%s: Solver", applicationName),
		TopHead:           "Puzzle Solver",
		IconFile:          iconPath,
		CssFile:           "/solver.css",
		JsFile:            "/solver.js",
		Puzzle:            boardTemplatePuzzle(b),
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("solver")
	if err != nil {
		return ErrorPage(fmt.Errorf("Couldn't load the %q template: %v", "solver", err))
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, tsp); err != nil {
		return ErrorPage(err)
	}
	return buf.String()
}

// boardTemplatePuzzle takes a board and returns the
// templatePuzzle for its grid.
func boardTemplatePuzzle(b puzzle.Board) templatePuzzle {
	rows := make(templatePuzzle, puzzle.SideLength)
	for i := 0; i < puzzle.SideLength; i++ {
		rows[i] = make([]templatePuzzleCell, puzzle.SideLength)
		// is this the top, bottom, or middle row of its block
		hborder := "middle"
		if i%puzzle.BlockLength == 0 {
			hborder = "top"
		} else if i%puzzle.BlockLength == puzzle.BlockLength-1 {
			hborder = "bottom"
		}
		for j := 0; j < puzzle.SideLength; j++ {
			value := template.HTML("&nbsp;")
			if val := b.Get(i, j); val > 0 {
				value = template.HTML(fmt.Sprint(val))
			}
			// even block or odd block shading
			shade := "lighter"
			if (i/puzzle.BlockLength+j/puzzle.BlockLength)%2 == 0 {
				shade = "darker"
			}
			// is this the left, center, or right column of its block
			vborder := "center"
			if j%puzzle.BlockLength == 0 {
				vborder = "left"
			} else if j%puzzle.BlockLength == puzzle.BlockLength-1 {
				vborder = "right"
			}
			rows[i][j] = templatePuzzleCell{
				Index:   i*puzzle.SideLength + j + 1,
				Value:   value,
				Shade:   shade,
				HBorder: hborder,
				VBorder: vborder,
			}
		}
	}
	return rows
}

/*

error pages

*/

// A templateErrorPage contains the values to fill the error page
// template.
type templateErrorPage struct {
	Title, TopHead, Message string
	IconFile, ReportBugPage string
	ApplicationFooter       string
}

// ErrorPage executes the error page template over the passed
// error, and returns the error page content as a string.
func ErrorPage(e error) string {
	tep := templateErrorPage{
		Title:             fmt.Sprintf("%s: Error", applicationName),
		TopHead:           "Error Page",
		Message:           e.Error(),
		IconFile:          iconPath,
		ReportBugPage:     reportBugPath,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("error")
	if err != nil {
		return fmt.Sprintf("Couldn't load the %q template: %v", "error", err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, tep); err != nil {
		return fmt.Sprintf("A templating error has occurred: %v", err)
	}
	return buf.String()
}

/*

application footer

*/

// applicationFooter - the application footer that shows at the
// bottom of all pages.
func applicationFooter() string {
	env := os.Getenv("SUDOKU_ENV")
	if env == "" || env == "local" {
		return "[" + applicationName + " local]"
	}
	return "[" + applicationName + " " + applicationVersion + " (" + env + ")]"
}
