//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package metagene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"
)

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

// WriteProfile writes one profile as a tab-separated table sorted by
// ascending coordinate. Each row is the coordinate and the depth as a
// percentage of total. compressFormat is "", "lz4" or "gz".
func WriteProfile(prof Profile, total int, profilePath string, compressFormat string) error {
	f, err := os.OpenFile(profilePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	var writer GenericWriter
	switch compressFormat {
	case "lz4":
		writer = lz4.NewWriter(f)
	case "gz":
		writer = gzip.NewWriter(f)
	case "":
		writer = f
	default:
		f.Close()
		return fmt.Errorf("Unknown compression format %s", compressFormat)
	}
	// Numeric sort, coordinates can be negative
	coords := make([]int, 0, len(prof))
	for coord := range prof {
		coords = append(coords, coord)
	}
	sort.Ints(coords)
	for _, coord := range coords {
		percent := 100. * float64(prof[coord]) / float64(total)
		if _, err = fmt.Fprintf(writer, "%d\t%s\n", coord, strconv.FormatFloat(percent, 'f', -1, 64)); err != nil {
			f.Close()
			return err
		}
	}
	if writer != f {
		if err = writer.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// WriteAll writes the five profiles to dirOut, creating it if absent. Files
// are named <sample>.<kind>.cov with a compression extension if any.
func (p *Profiles) WriteAll(dirOut string, sample string, compressFormat string) error {
	if err := os.MkdirAll(dirOut, 0755); err != nil {
		return err
	}
	for kind, prof := range p.ByKind() {
		name := sample + "." + kind + ".cov"
		switch compressFormat {
		case "lz4":
			name += ".lz4"
		case "gz":
			name += ".gz"
		}
		if err := WriteProfile(prof, p.Total, filepath.Join(dirOut, name), compressFormat); err != nil {
			return err
		}
	}
	return nil
}
