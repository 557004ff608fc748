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
	"math"
)

// DepthMap stores per-transcript, per-position read depth. Positions are
// 1-based. Depth is summed over all input files.
type DepthMap map[string]map[int]int

// LengthMap stores total transcript lengths.
type LengthMap map[string]int

// Profile is a sparse mapping from a coordinate to accumulated depth. A
// coordinate is present only if some depth observation mapped to it.
type Profile map[int]int

// Profile kinds, used as output file infixes.
const (
	KindCdsRel    = "cds-rel"
	KindUtrRel    = "utr-rel"
	KindCdsAbs    = "cds-abs"
	KindUtrAbs    = "utr-abs"
	KindCdsScaled = "cds-scaled"
)

// Profiles holds the five coverage profiles anchored at the stop codon and
// the grand-total depth shared by all of them as normalization denominator.
//
// Coordinate systems: CdsAbs and UtrAbs are in bases from the last CDS base
// (CDS in -(cdsLength-1)..0, UTR in 1..utrLength), CdsRel and UtrRel are in
// percent of the CDS and UTR length, CdsScaled rescales every CDS to the
// mean CDS length over all transcripts.
type Profiles struct {
	CdsRel    Profile
	UtrRel    Profile
	CdsAbs    Profile
	UtrAbs    Profile
	CdsScaled Profile
	Total     int
}

// ByKind returns the five profiles keyed by kind.
func (p *Profiles) ByKind() map[string]Profile {
	return map[string]Profile{
		KindCdsRel:    p.CdsRel,
		KindUtrRel:    p.UtrRel,
		KindCdsAbs:    p.CdsAbs,
		KindUtrAbs:    p.UtrAbs,
		KindCdsScaled: p.CdsScaled,
	}
}

// Build re-expresses every (transcript, position, depth) observation in the
// five stop-anchored coordinate systems and sums across transcripts. utrLen
// is the 3'-UTR length shared by all transcripts; each transcript length
// must exceed it. Every transcript with depth must have a length; transcripts
// with a length but no depth contribute nothing.
func Build(depths DepthMap, lengths LengthMap, utrLen int) (*Profiles, error) {
	if utrLen < 0 {
		return nil, fmt.Errorf("Negative UTR length %d", utrLen)
	}
	if len(lengths) == 0 {
		return nil, fmt.Errorf("No transcript length")
	}
	for name := range depths {
		if _, ok := lengths[name]; !ok {
			return nil, fmt.Errorf("No length for transcript %s", name)
		}
	}
	// Mean CDS length over all transcripts. utrLen is constant, so this
	// equals the mean of the individual CDS lengths.
	var lengthSum int
	for name, length := range lengths {
		if length <= utrLen {
			return nil, fmt.Errorf("Transcript %s length %d does not exceed UTR length %d", name, length, utrLen)
		}
		lengthSum += length
	}
	meanCdsLength := float64(lengthSum)/float64(len(lengths)) - float64(utrLen)

	p := &Profiles{
		CdsRel:    make(Profile),
		UtrRel:    make(Profile),
		CdsAbs:    make(Profile),
		UtrAbs:    make(Profile),
		CdsScaled: make(Profile),
	}
	for name, length := range lengths {
		posDepths, ok := depths[name]
		if !ok {
			continue
		}
		// Last 1-based position of the CDS
		cdsLength := length - utrLen
		cdsEnd := cdsLength
		for pos, d := range posDepths {
			p.Total += d
			if pos <= cdsEnd {
				// Last CDS base maps to 0 whatever the transcript length
				absPos := pos - cdsLength
				p.CdsAbs[absPos] += d
				p.CdsRel[ceilDiv(100*absPos, cdsLength)] += d
				p.CdsScaled[int(math.Ceil(meanCdsLength*float64(absPos)/float64(cdsLength)))] += d
			} else {
				if utrLen == 0 {
					return nil, fmt.Errorf("Transcript %s position %d beyond transcript end", name, pos)
				}
				utrPos := pos - cdsEnd
				p.UtrAbs[utrPos] += d
				p.UtrRel[ceilDiv(100*utrPos, utrLen)] += d
			}
		}
	}
	return p, nil
}

// ceilDiv divides num by den (den > 0), rounding toward positive infinity.
func ceilDiv(num, den int) int {
	if num > 0 {
		return (num + den - 1) / den
	}
	// Truncation rounds up for negative ratios
	return num / den
}
