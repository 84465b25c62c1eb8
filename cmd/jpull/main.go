// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jpull checks and reformats JSON documents. Each input must contain
// exactly one JSON value; invalid inputs are reported with the offending line
// and column.
//
// Usage:
//
//	jpull [flags] [file ...]
//
// With no files, or a file named "-", jpull reads standard input. Flags may
// also be set from the environment, e.g. JPULL_INDENT or JPULL_MAX_DEPTH.
// Log output is controlled by JPULL_LOG_LEVEL and the other JPULL_LOG_*
// variables.
package main

import (
	"context"

	"pkt.systems/psi"
)

func main() {
	psi.Run(func(ctx context.Context) int {
		return submain(ctx)
	})
}
