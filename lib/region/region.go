//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package region

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
)

// IntInterval is an integer-specific interval with a unique ID.
type IntInterval struct {
	Start, End int
	UID        uintptr
}

func (i IntInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.End > b.Start && i.Start < b.End
}

func (i IntInterval) ID() uintptr {
	return i.UID
}

func (i IntInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.Start, End: i.End}
}

// Filter restricts depth observations to listed transcript regions. One
// interval tree per transcript; a transcript absent from the filter keeps
// nothing.
type Filter struct {
	trees map[string]*interval.IntTree
}

// Open parses a tabulated region file with transcript name, start and end
// columns (0-based, half-open) and builds a Filter.
func Open(rpath string) (*Filter, error) {
	rfos, err := os.Open(rpath)
	if err != nil {
		return nil, err
	}
	defer rfos.Close()

	flt := &Filter{trees: make(map[string]*interval.IntTree)}
	var uid uintptr
	var nline int
	rscanner := bufio.NewScanner(rfos)
	for rscanner.Scan() {
		nline++
		line := rscanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s:%d: Expected 3 tab-separated columns", rpath, nline)
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: Bad start %q", rpath, nline, fields[1])
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil || end <= start {
			return nil, fmt.Errorf("%s:%d: Bad end %q", rpath, nline, fields[2])
		}
		// New tree for unseen transcript
		tree, ok := flt.trees[fields[0]]
		if !ok {
			tree = &interval.IntTree{}
			flt.trees[fields[0]] = tree
		}
		if err = tree.Insert(IntInterval{Start: start, End: end, UID: uid}, false); err != nil {
			return nil, err
		}
		uid++
	}
	if err = rscanner.Err(); err != nil {
		return nil, err
	}
	for _, tree := range flt.trees {
		tree.AdjustRanges()
	}
	return flt, nil
}

// Contains reports whether the 1-based position pos on transcript name falls
// within a retained region.
func (flt *Filter) Contains(name string, pos int) bool {
	tree, ok := flt.trees[name]
	if !ok {
		return false
	}
	q := IntInterval{Start: pos - 1, End: pos}
	return len(tree.Get(q)) > 0
}
