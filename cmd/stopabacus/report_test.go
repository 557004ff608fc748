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
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~vejnar/StopAbacus/lib/metagene"
)

func buildTestProfiles(t *testing.T) (metagene.DepthMap, metagene.LengthMap, *metagene.Profiles) {
	t.Helper()
	depths := metagene.DepthMap{"tx1": {100: 1, 101: 1}}
	lengths := metagene.LengthMap{"tx1": 600}
	profiles, err := metagene.Build(depths, lengths, 500)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return depths, lengths, profiles
}

func TestWriteReport(t *testing.T) {
	depths, lengths, profiles := buildTestProfiles(t)
	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteReport(path, depths, lengths, profiles); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	report := make(map[string]uint64)
	if err = json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("report unmarshal: %v", err)
	}
	if report["transcripts"] != 1 || report["positions"] != 2 || report["total_depth"] != 2 {
		t.Errorf("report = %v", report)
	}
	if report["coords_"+metagene.KindCdsAbs] != 1 {
		t.Errorf("report = %v", report)
	}
}

func TestPlotProfiles(t *testing.T) {
	_, _, profiles := buildTestProfiles(t)
	path := filepath.Join(t.TempDir(), "plot.html")
	if err := PlotProfiles(path, "s1", profiles); err != nil {
		t.Fatalf("PlotProfiles: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) == 0 {
		t.Error("empty plot output")
	}
}
