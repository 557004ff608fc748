//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"git.sr.ht/~vejnar/StopAbacus/lib/metagene"
)

func WriteReport(pathReport string, depths metagene.DepthMap, lengths metagene.LengthMap, profiles *metagene.Profiles) (err error) {
	var nObs int
	for _, posDepths := range depths {
		nObs += len(posDepths)
	}
	countReport := make(map[string]uint64)
	countReport["transcripts"] = uint64(len(lengths))
	countReport["positions"] = uint64(nObs)
	countReport["total_depth"] = uint64(profiles.Total)
	for kind, prof := range profiles.ByKind() {
		countReport["coords_"+kind] = uint64(len(prof))
	}
	report, _ := json.MarshalIndent(countReport, "", "  ")
	if pathReport != "-" {
		if f, err := os.Create(pathReport); err != nil {
			return err
		} else {
			f.Write(report)
			f.Close()
		}
	} else {
		fmt.Println(string(report))
	}
	return nil
}
