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
	"errors"
	"fmt"
)

/*

Errors

*/

// Error is the puzzle package's error type.  Errors are values:
// they carry a machine-readable classification plus the data
// that particularizes the condition, and they render a
// human-readable message from those.  They marshal cleanly as
// JSON for the web interface.
type Error struct {
	Scope     ErrorScope     `json:"scope"`
	Condition ErrorCondition `json:"condition"`
	Values    ErrorData      `json:"values,omitempty"`
	Message   string         `json:"message"`
}

// ErrorData is the particularizing data of an Error, in
// condition-specific order.
type ErrorData []interface{}

// ErrorScope tells which part of the system an error belongs to.
type ErrorScope int

// The scopes of errors.
const (
	UnknownScope  ErrorScope = iota
	FormatScope              // reading the 81-character puzzle form
	BoardScope               // cell coordinates and values
	SolveScope               // search outcomes
	RequestScope             // web requests from clients
	InternalScope            // failures that are our own bugs
	MaxScope                 // boundary marker, not a scope
)

// ErrorCondition tells what went wrong.
type ErrorCondition int

// The conditions of errors.
const (
	UnknownCondition    ErrorCondition = iota
	LengthCondition                    // puzzle string has the wrong length
	DigitCondition                     // puzzle string has a non-digit character
	CountCondition                     // value slice has the wrong number of cells
	ValueCondition                     // cell value outside 0 through 9
	LocationCondition                  // cell coordinates outside the grid
	OccupiedCondition                  // cell already holds a value
	ConflictCondition                  // value duplicates a peer cell's value
	UnsolvableCondition                // no completion of the board exists
	DecodeCondition                    // request body couldn't be decoded
	EncodeCondition                    // response couldn't be encoded
	MaxCondition                       // boundary marker, not a condition
)

// Error produces the message for the error.  Every combination
// of scope and condition produces a non-empty message, even the
// senseless ones, because errors sometimes get rebuilt from the
// wire and we'd rather report something odd than report nothing.
func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.scopeString() + e.conditionString()
}

// scopeString gives the leading, scope-derived part of a
// message.
func (e Error) scopeString() string {
	switch e.Scope {
	case FormatScope:
		return "Puzzle format: "
	case BoardScope:
		return "Board: "
	case SolveScope:
		return "Solve: "
	case RequestScope:
		return "Request: "
	case InternalScope:
		return "Internal error: "
	default:
		return fmt.Sprintf("Error (scope %d): ", e.Scope)
	}
}

// conditionString gives the condition-derived part of a message,
// filling in the error's data values where they apply.
func (e Error) conditionString() string {
	switch e.Condition {
	case LengthCondition:
		if len(e.Values) == 1 {
			return fmt.Sprintf("puzzle strings have %d characters, not %v", CellCount, e.Values[0])
		}
		return "puzzle string has the wrong length"
	case DigitCondition:
		if len(e.Values) == 2 {
			return fmt.Sprintf("character %v at position %v is not a digit", e.Values[1], e.Values[0])
		}
		return "puzzle string has a non-digit character"
	case CountCondition:
		if len(e.Values) == 1 {
			return fmt.Sprintf("boards have %d cells, not %v", CellCount, e.Values[0])
		}
		return "wrong number of cell values"
	case ValueCondition:
		if len(e.Values) == 2 {
			return fmt.Sprintf("cell %v can't hold %v: values run 0 through %d", e.Values[0], e.Values[1], SideLength)
		}
		return "cell value out of range"
	case LocationCondition:
		if len(e.Values) == 2 {
			return fmt.Sprintf("no cell at row %v, column %v", e.Values[0], e.Values[1])
		}
		return "cell location off the board"
	case OccupiedCondition:
		if len(e.Values) == 3 {
			return fmt.Sprintf("the cell at row %v, column %v already holds %v", e.Values[0], e.Values[1], e.Values[2])
		}
		return "cell already holds a value"
	case ConflictCondition:
		if len(e.Values) == 3 {
			return fmt.Sprintf("%v at row %v, column %v duplicates a row, column, or block peer", e.Values[2], e.Values[0], e.Values[1])
		}
		return "value duplicates a peer cell's value"
	case UnsolvableCondition:
		return "this board has no solution"
	case DecodeCondition:
		if len(e.Values) == 1 {
			return fmt.Sprintf("couldn't decode the request body: %v", e.Values[0])
		}
		return "couldn't decode the request body"
	case EncodeCondition:
		if len(e.Values) == 1 {
			return fmt.Sprintf("couldn't encode the response: %v", e.Values[0])
		}
		return "couldn't encode the response"
	default:
		return fmt.Sprintf("unexpected condition (%d)", e.Condition)
	}
}

// IsUnsolvable reports whether err is the solver's verdict that
// a board has no completion.
func IsUnsolvable(err error) bool {
	var e Error
	return errors.As(err, &e) && e.Condition == UnsolvableCondition
}

/*

Error constructors

*/

// newError builds an error and renders its message eagerly, so
// the message survives JSON round trips.
func newError(scope ErrorScope, condition ErrorCondition, values ...interface{}) Error {
	e := Error{Scope: scope, Condition: condition, Values: values}
	e.Message = e.scopeString() + e.conditionString()
	return e
}

func lengthError(length int) Error {
	return newError(FormatScope, LengthCondition, length)
}

func digitError(pos int, char byte) Error {
	return newError(FormatScope, DigitCondition, pos, fmt.Sprintf("%q", char))
}

func countError(count int) Error {
	return newError(BoardScope, CountCondition, count)
}

func valueError(index, value int) Error {
	return newError(BoardScope, ValueCondition, index, value)
}

func locationError(row, col int) Error {
	return newError(BoardScope, LocationCondition, row, col)
}

func occupiedError(row, col, value int) Error {
	return newError(BoardScope, OccupiedCondition, row, col, value)
}

func conflictError(row, col, value int) Error {
	return newError(BoardScope, ConflictCondition, row, col, value)
}

func unsolvableError() Error {
	return newError(SolveScope, UnsolvableCondition)
}
