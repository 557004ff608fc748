//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"git.sr.ht/~vejnar/StopAbacus/lib/metagene"
)

// PlotProfiles renders the relative metagene profile as an HTML line chart:
// CDS coverage on -100..0 (percent of CDS length to the stop codon) followed
// by UTR coverage on 1..100 (percent of UTR length).
func PlotProfiles(pathPlot string, sample string, profiles *metagene.Profiles) error {
	output, err := os.Create(pathPlot)
	if err != nil {
		return err
	}
	defer output.Close()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Metagene coverage around stop codon",
			Subtitle: sample,
		}))

	var xaxis []int
	var items []opts.LineData
	for x := -100; x <= 100; x++ {
		xaxis = append(xaxis, x)
		var d int
		if x <= 0 {
			d = profiles.CdsRel[x]
		} else {
			d = profiles.UtrRel[x]
		}
		var percent float64
		if profiles.Total > 0 {
			percent = 100. * float64(d) / float64(profiles.Total)
		}
		items = append(items, opts.LineData{Value: percent})
	}

	line.SetXAxis(xaxis).AddSeries("coverage", items)
	return line.Render(output)
}
