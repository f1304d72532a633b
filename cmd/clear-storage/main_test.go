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
	"testing"

	"github.com/llamatarianism/sudoku/dbprep"
)

func TestClearStorage(t *testing.T) {
	if err := dbprep.ClearCache(); err != nil {
		t.Skipf("Skipping, can't reach cache: %v", err)
	}
	if _, err := dbprep.SchemaVersion(); err != nil {
		t.Skipf("Skipping, can't reach database: %v", err)
	}

	if err := clearStorage(); err != nil {
		t.Errorf("%v", err)
	}
	version, err := dbprep.SchemaVersion()
	if err != nil {
		t.Fatalf("Couldn't get data schema version: %v", err)
	}
	if version != 0 {
		t.Errorf("Schema version is %d after a clear, expected 0", version)
	}

	// leave storage ready for whoever tests next
	if err := dbprep.EnsureData(); err != nil {
		t.Errorf("Couldn't restore storage: %v", err)
	}
}
