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
	"crypto/md5"
	"fmt"
	"strconv"
)

/*

Reading the 81-character puzzle form

*/

// ParseValues converts the standard 81-character form of a
// puzzle into a Board.  The form has one character per cell in
// row-major order: digits 1 through 9 for given values, the
// digit 0 for an empty cell.  Anything else is a format error.
func ParseValues(values string) (Board, error) {
	var b Board
	if len(values) != CellCount {
		return b, lengthError(len(values))
	}
	for i := 0; i < len(values); i++ {
		c := values[i]
		if c < '0' || c > '9' {
			return Board{}, digitError(i, c)
		}
		b.cells[i] = int(c - '0')
	}
	return b, nil
}

/*

Print forms of boards

*/

// Values returns the 81-character form of the board: the same
// row-major digit string that ParseValues reads.
func (b Board) Values() string {
	chars := make([]byte, CellCount)
	for i, v := range b.cells {
		chars[i] = byte('0' + v)
	}
	return string(chars)
}

// Hash returns the identifying hash of the board: the uppercase
// hex MD5 sum of its 81-character form.  Solve records and cache
// entries are keyed by this id.  (MD5 is fine here; the hash
// names puzzles, it doesn't protect anything.)
func (b Board) Hash() string {
	return fmt.Sprintf("%X", md5.Sum([]byte(b.Values())))
}

// String renders the board one row per line, with the values in
// a row separated by single spaces and empty cells rendered as
// 0.  This is the display form the solver tools print.
func (b Board) String() (result string) {
	for row := 0; row < SideLength; row++ {
		if row > 0 {
			result += "\n"
		}
		for col := 0; col < SideLength; col++ {
			if col > 0 {
				result += " "
			}
			result += strconv.Itoa(b.Get(row, col))
		}
	}
	return
}

/*

Pretty-printed boards in strings, for terminals

*/

var (
	valueStrings = []string{
		"_", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	}
	nonValueString = "?"
)

// vstr gives the display string for a single cell value.
func vstr(v int) string {
	if v >= 0 && v < len(valueStrings) {
		return valueStrings[v]
	}
	return nonValueString
}

// GridString returns a pretty-printed grid of the board's
// values, with column numbers across the top, row letters down
// the side, and ruled lines between the blocks.  When
// showCandidates is set, empty cells with exactly one usable
// digit show it as =N, and cells with exactly two show both.
func (b Board) GridString(showCandidates bool) (result string) {
	// first put out the header
	result += " "
	for i := 0; i < SideLength; i++ {
		if i%BlockLength != 0 {
			result += " "
		} else {
			result += "|"
		}
		result += fmt.Sprintf("%2d ", i+1)
	}
	result += "\n"
	// next are the rows, including the rule at the top of each
	// band of blocks
	for row, rowhdr := 0, 'a'; row < SideLength; row, rowhdr = row+1, rowhdr+1 {
		if row%BlockLength == 0 {
			result += " "
			for i := 0; i < SideLength; i++ {
				result += "+---"
			}
			result += "\n"
		}
		result += string(rowhdr)
		for col := 0; col < SideLength; col++ {
			if col%BlockLength != 0 {
				result += " "
			} else {
				result += "|"
			}
			if v := b.Get(row, col); v != 0 {
				result += fmt.Sprintf(" %s ", vstr(v))
			} else if showCandidates {
				if cs := b.Candidates(row, col); len(cs) == 1 {
					result += fmt.Sprintf("=%s ", vstr(cs[0]))
				} else if len(cs) == 2 {
					result += fmt.Sprintf("%s,%s", vstr(cs[0]), vstr(cs[1]))
				} else {
					result += " _ "
				}
			} else {
				result += " _ "
			}
		}
		result += "\n"
	}
	return
}

/*

Markdown-formatted tables, for documentation

*/

// MarkdownString returns the board as a markdown-format table,
// with the same candidate annotations as GridString.
func (b Board) MarkdownString(showCandidates bool) (result string) {
	// first put out the header
	result += "|     |"
	for i := 0; i < SideLength; i++ {
		result += "  " + strconv.Itoa(i+1) + "  |"
	}
	result += "\n"
	// next comes the header separator line
	result += "|"
	for i := 0; i < SideLength+1; i++ {
		result += ":---:|"
	}
	result += "\n"
	// next comes the content of the board, with each line
	// prefixed by its row letter
	for row, rowhdr := 0, 'a'; row < SideLength; row, rowhdr = row+1, rowhdr+1 {
		result += "|**" + string(rowhdr) + "**"
		for col := 0; col < SideLength; col++ {
			if col == 0 {
				result += "| "
			} else {
				result += " | "
			}
			if v := b.Get(row, col); v != 0 {
				result += fmt.Sprintf(" %s ", vstr(v))
			} else if showCandidates {
				if cs := b.Candidates(row, col); len(cs) == 1 {
					result += fmt.Sprintf("=%s ", vstr(cs[0]))
				} else if len(cs) == 2 {
					result += fmt.Sprintf("%s,%s", vstr(cs[0]), vstr(cs[1]))
				} else {
					result += "   "
				}
			} else {
				result += "   "
			}
		}
		result += " |\n"
	}
	return
}
