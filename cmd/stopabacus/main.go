//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"git.sr.ht/~vejnar/StopAbacus/lib/depth"
	"git.sr.ht/~vejnar/StopAbacus/lib/metagene"
	"git.sr.ht/~vejnar/StopAbacus/lib/region"
)

var version = "DEV"

func main() {
	// Arguments: General
	var sample, pathOut, compressFormat, pathReport, pathPlot string
	var utrLength, verboseLevel int
	var verbose, printVersion bool
	flag.StringVar(&sample, "sample", "", "Sample identifier")
	flag.IntVar(&utrLength, "utr_length", 500, "3'-UTR length in base(s)")
	flag.StringVar(&pathOut, "path_out", ".", "Write profiles to directory (created if missing)")
	flag.StringVar(&compressFormat, "compress", "", "Compress profile output: 'lz4' or 'gz' (default none)")
	flag.StringVar(&pathReport, "path_report", "", "Write report to path (stdout with -)")
	flag.StringVar(&pathPlot, "path_plot", "", "Write HTML metagene plot to path")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathSAMsRaw, pathBAMsRaw, pathDepthsRaw, rawDepthCmd, pathRegions, pathLengths string
	flag.StringVar(&pathSAMsRaw, "path_sam", "", "Path to SAM file(s) (comma separated)")
	flag.StringVar(&pathBAMsRaw, "path_bam", "", "Path to BAM file(s) (comma separated)")
	flag.StringVar(&pathDepthsRaw, "path_depth", "", "Path to precomputed depth file(s) (comma separated)")
	flag.StringVar(&rawDepthCmd, "depth_command", "samtools depth", "Command line reporting per-base depth of each alignment file")
	flag.StringVar(&pathRegions, "path_regions", "", "Path to region filter (tabulated file)")
	flag.StringVar(&pathLengths, "path_lengths", "", "Path to transcript lengths (tabulated file, default first input header)")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}

	// Time start
	var timeStart time.Time
	if verboseLevel > 0 {
		timeStart = time.Now()
	}

	// Check arguments
	if len(sample) == 0 {
		flag.Usage()
		log.Fatal("No sample identifier")
	}
	if utrLength < 0 {
		log.Fatal("Negative UTR length")
	}
	switch compressFormat {
	case "", "lz4", "gz":
	default:
		log.Fatalln("Unknown compression format", compressFormat)
	}

	// Parse raw arguments
	// pathAlns
	var pathAlns []depth.PathAln
	if len(pathSAMsRaw) > 0 {
		for _, p := range strings.Split(pathSAMsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalln(p, "not found")
			} else {
				pathAlns = append(pathAlns, depth.PathAln{Path: p, Binary: false})
			}
		}
	}
	if len(pathBAMsRaw) > 0 {
		for _, p := range strings.Split(pathBAMsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalln(p, "not found")
			} else {
				pathAlns = append(pathAlns, depth.PathAln{Path: p, Binary: true})
			}
		}
	}
	if len(pathDepthsRaw) > 0 {
		for _, p := range strings.Split(pathDepthsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalln(p, "not found")
			} else {
				pathAlns = append(pathAlns, depth.PathAln{Path: p, Depth: true})
			}
		}
	}
	if len(pathAlns) == 0 {
		flag.Usage()
		log.Fatal("No alignment input")
	}
	// depthCmd
	var depthCmd []string
	if len(rawDepthCmd) > 0 {
		depthCmd = strings.Fields(rawDepthCmd)
	}

	// Open region filter
	var filter *region.Filter
	if pathRegions != "" {
		var err error
		filter, err = region.Open(pathRegions)
		if err != nil {
			log.Fatal(err)
		}
	}

	// Merge depth over all inputs
	depths, err := depth.Merge(pathAlns, depthCmd, filter)
	if err != nil {
		log.Fatal(err)
	}
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Merged depth of %d transcript(s) from %d file(s)\n", timeNow.Sub(timeStart).Minutes(), len(depths), len(pathAlns))
	}

	// Transcript lengths
	var lengths metagene.LengthMap
	if pathLengths != "" {
		lengths, err = depth.LengthsFromTab(pathLengths, depths)
	} else {
		lengths, err = depth.Lengths(pathAlns[0], depths)
	}
	if err != nil {
		log.Fatal(err)
	}

	// Build profiles
	profiles, err := metagene.Build(depths, lengths, utrLength)
	if err != nil {
		log.Fatal(err)
	}
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Total depth %d\n", timeNow.Sub(timeStart).Minutes(), profiles.Total)
	}

	// Output: Profiles
	if err = profiles.WriteAll(pathOut, sample, compressFormat); err != nil {
		log.Fatal(err)
	}
	// Output: Report
	if pathReport != "" {
		if err = WriteReport(pathReport, depths, lengths, profiles); err != nil {
			log.Fatal(err)
		}
	}
	// Output: Plot
	if pathPlot != "" {
		if err = PlotProfiles(pathPlot, sample, profiles); err != nil {
			log.Fatal(err)
		}
	}

	// Verbose
	if verboseLevel > 0 {
		timeEnd := time.Now()
		fmt.Printf("%.1fmin - Done\n", timeEnd.Sub(timeStart).Minutes())
	}
}
