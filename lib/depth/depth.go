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
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"git.sr.ht/~vejnar/StopAbacus/lib/metagene"
	"git.sr.ht/~vejnar/StopAbacus/lib/region"
)

const batchLength = 512

// PathAln stores the path to a BAM (Binary=true) or SAM (Binary=false)
// alignment file, or to a precomputed depth file (Depth=true) read directly
// without running the depth command.
type PathAln struct {
	Path   string
	Binary bool
	Depth  bool
}

// Observation is one (transcript, 1-based position, depth) triple from a
// depth stream.
type Observation struct {
	Name  string
	Pos   int
	Depth int
}

// Merge reads per-base depth from every input, running depthCmd on each
// alignment file, and sums depth per (transcript, position) over all inputs.
// With a non-nil filter, observations outside its regions are dropped.
func Merge(pathAlns []PathAln, depthCmd []string, filter *region.Filter) (metagene.DepthMap, error) {
	g, gctx := errgroup.WithContext(context.Background())

	// Start observation channel
	chObs := make(chan []Observation, 16)
	g.Go(func() error {
		defer close(chObs)
		for _, pathAln := range pathAlns {
			if err := readDepth(gctx, pathAln, depthCmd, chObs); err != nil {
				return err
			}
		}
		return nil
	})

	// Combine observations into the merged map
	merged := make(metagene.DepthMap)
	for batch := range chObs {
		for _, obs := range batch {
			if filter != nil && !filter.Contains(obs.Name, obs.Pos) {
				continue
			}
			posDepths, ok := merged[obs.Name]
			if !ok {
				posDepths = make(map[int]int)
				merged[obs.Name] = posDepths
			}
			posDepths[obs.Pos] += obs.Depth
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merged, nil
}

func readDepth(ctx context.Context, pathAln PathAln, depthCmd []string, out chan<- []Observation) error {
	if pathAln.Depth {
		f, err := os.Open(pathAln.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return parseDepth(ctx, f, pathAln.Path, out)
	}
	if len(depthCmd) == 0 {
		return fmt.Errorf("No depth command to read %s", pathAln.Path)
	}
	p := exec.Command(depthCmd[0], append(depthCmd[1:], pathAln.Path)...)
	pp, err := p.StdoutPipe()
	if err != nil {
		return err
	}
	if err = p.Start(); err != nil {
		return fmt.Errorf("Starting depth command on %s: %v", pathAln.Path, err)
	}
	if err = parseDepth(ctx, pp, pathAln.Path, out); err != nil {
		p.Wait()
		return err
	}
	if err = p.Wait(); err != nil {
		return fmt.Errorf("Depth command on %s: %v", pathAln.Path, err)
	}
	return nil
}

func parseDepth(ctx context.Context, r io.Reader, path string, out chan<- []Observation) error {
	dscanner := bufio.NewScanner(r)
	dscanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	batch := make([]Observation, 0, batchLength)
	var nline int
	for dscanner.Scan() {
		nline++
		line := dscanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return fmt.Errorf("%s:%d: Expected 3 tab-separated columns", path, nline)
		}
		if len(fields[0]) == 0 {
			return fmt.Errorf("%s:%d: Empty transcript name", path, nline)
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil || pos < 1 {
			return fmt.Errorf("%s:%d: Bad position %q", path, nline, fields[1])
		}
		d, err := strconv.Atoi(fields[2])
		if err != nil || d < 0 {
			return fmt.Errorf("%s:%d: Bad depth %q", path, nline, fields[2])
		}
		batch = append(batch, Observation{Name: fields[0], Pos: pos, Depth: d})
		if len(batch) == batchLength {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- batch:
			}
			batch = make([]Observation, 0, batchLength)
		}
	}
	if err := dscanner.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- batch:
		}
	}
	return nil
}
