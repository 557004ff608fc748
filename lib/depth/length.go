//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package depth

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/StopAbacus/lib/metagene"
)

// Lengths reads reference lengths from the header of the alignment file,
// keeping only transcripts with depth observations.
func Lengths(pathAln PathAln, depths metagene.DepthMap) (metagene.LengthMap, error) {
	if pathAln.Depth {
		return nil, fmt.Errorf("No header in depth file %s (use a lengths file)", pathAln.Path)
	}
	seen := set.New(set.NonThreadSafe)
	for name := range depths {
		seen.Add(name)
	}
	header, err := readHeader(pathAln)
	if err != nil {
		return nil, err
	}
	lengths := make(metagene.LengthMap)
	for _, ref := range header.Refs() {
		if seen.Has(ref.Name()) {
			lengths[ref.Name()] = ref.Len()
		}
	}
	return lengths, nil
}

func readHeader(pathAln PathAln) (*sam.Header, error) {
	f, err := os.Open(pathAln.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if pathAln.Binary {
		rr, err := bam.NewReader(f, 1)
		if err != nil {
			return nil, err
		}
		defer rr.Close()
		return rr.Header(), nil
	}
	rr, err := sam.NewReader(f)
	if err != nil {
		return nil, err
	}
	return rr.Header(), nil
}

// LengthsFromTab parses a two column tabulated file with transcript name and
// length, keeping only transcripts with depth observations.
func LengthsFromTab(tpath string, depths metagene.DepthMap) (metagene.LengthMap, error) {
	tfos, err := os.Open(tpath)
	if err != nil {
		return nil, err
	}
	defer tfos.Close()

	seen := set.New(set.NonThreadSafe)
	for name := range depths {
		seen.Add(name)
	}
	lengths := make(metagene.LengthMap)
	var nline int
	tscanner := bufio.NewScanner(tfos)
	for tscanner.Scan() {
		nline++
		line := tscanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s:%d: Expected 2 tab-separated columns", tpath, nline)
		}
		length, err := strconv.Atoi(fields[1])
		if err != nil || length < 1 {
			return nil, fmt.Errorf("%s:%d: Bad length %q", tpath, nline, fields[1])
		}
		if seen.Has(fields[0]) {
			lengths[fields[0]] = length
		}
	}
	if err = tscanner.Err(); err != nil {
		return nil, err
	}
	return lengths, nil
}
