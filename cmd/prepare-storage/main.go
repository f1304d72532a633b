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

// Prepare the sudoku storage system for serving
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/llamatarianism/sudoku/dbprep"
)

var rebuild = flag.Bool("rebuild", false, "tear down and rebuild storage from scratch")

func main() {
	flag.Parse()
	if *rebuild {
		log.Printf("Rebuilding data storage and cache from scratch...")
	} else {
		log.Printf("Preparing data storage...")
	}
	if err := prepareStorage(*rebuild); err != nil {
		log.Fatalf("Couldn't prepare storage: %v", err)
	}
	log.Printf("Storage is ready.")
}

func prepareStorage(rebuild bool) error {
	if rebuild {
		if err := dbprep.ReinitializeAll(); err != nil {
			return fmt.Errorf("Couldn't rebuild storage: %v", err)
		}
	} else if err := dbprep.EnsureData(); err != nil {
		return fmt.Errorf("Couldn't ensure schema and data: %v", err)
	}

	// sanity-check the result
	version, err := dbprep.SchemaVersion()
	if err != nil {
		return fmt.Errorf("Couldn't get data schema version: %v", err)
	}
	if version == 0 {
		return fmt.Errorf("Database schema still at version 0, shouldn't be.")
	}
	return nil
}
