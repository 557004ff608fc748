//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package depth

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"git.sr.ht/~vejnar/StopAbacus/lib/metagene"
	"git.sr.ht/~vejnar/StopAbacus/lib/region"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMergeSingleFile(t *testing.T) {
	path := writeTemp(t, "a.depth", "tx1\t1\t5\ntx1\t2\t3\ntx2\t10\t1\n")
	merged, err := Merge([]PathAln{{Path: path, Depth: true}}, nil, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := metagene.DepthMap{
		"tx1": {1: 5, 2: 3},
		"tx2": {10: 1},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("Merge = %v; want %v", merged, want)
	}
}

func TestMergeSumsAcrossFiles(t *testing.T) {
	pathA := writeTemp(t, "a.depth", "tx1\t1\t5\ntx1\t2\t3\n")
	pathB := writeTemp(t, "b.depth", "tx1\t1\t2\ntx2\t7\t4\n")
	merged, err := Merge([]PathAln{{Path: pathA, Depth: true}, {Path: pathB, Depth: true}}, nil, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := metagene.DepthMap{
		"tx1": {1: 7, 2: 3},
		"tx2": {7: 4},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("Merge = %v; want %v", merged, want)
	}
}

// Merging the same file twice doubles every depth.
func TestMergeLinearity(t *testing.T) {
	path := writeTemp(t, "a.depth", "tx1\t1\t5\ntx1\t2\t3\ntx2\t10\t1\n")
	once, err := Merge([]PathAln{{Path: path, Depth: true}}, nil, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	twice, err := Merge([]PathAln{{Path: path, Depth: true}, {Path: path, Depth: true}}, nil, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for name, posDepths := range once {
		for pos, d := range posDepths {
			if got := twice[name][pos]; got != 2*d {
				t.Errorf("%s:%d = %d after double merge; want %d", name, pos, got, 2*d)
			}
		}
	}
}

func TestMergeMalformedInput(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"columns", "tx1\t1\n"},
		{"name", "\t1\t5\n"},
		{"position", "tx1\tx\t5\n"},
		{"position_zero", "tx1\t0\t5\n"},
		{"depth", "tx1\t1\t-2\n"},
	}
	for _, tt := range tests {
		path := writeTemp(t, tt.name+".depth", tt.content)
		if _, err := Merge([]PathAln{{Path: path, Depth: true}}, nil, nil); err == nil {
			t.Errorf("%s: Merge accepted %q", tt.name, tt.content)
		}
	}
}

func TestMergeSkipsCommentsAndBlanks(t *testing.T) {
	path := writeTemp(t, "a.depth", "# header\n\ntx1\t1\t5\n")
	merged, err := Merge([]PathAln{{Path: path, Depth: true}}, nil, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := merged["tx1"][1]; got != 5 {
		t.Errorf("tx1:1 = %d; want 5", got)
	}
}

// The depth command path is exercised with cat, which turns an alignment
// input into the identity depth command.
func TestMergeDepthCommand(t *testing.T) {
	path := writeTemp(t, "a.sam", "tx1\t1\t5\ntx2\t3\t2\n")
	merged, err := Merge([]PathAln{{Path: path}}, []string{"cat"}, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := metagene.DepthMap{
		"tx1": {1: 5},
		"tx2": {3: 2},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("Merge = %v; want %v", merged, want)
	}
}

func TestMergeDepthCommandFailure(t *testing.T) {
	path := writeTemp(t, "a.sam", "")
	if _, err := Merge([]PathAln{{Path: path}}, []string{"false"}, nil); err == nil {
		t.Fatal("Merge accepted failing depth command")
	}
}

func TestMergeNoDepthCommand(t *testing.T) {
	path := writeTemp(t, "a.sam", "")
	if _, err := Merge([]PathAln{{Path: path}}, nil, nil); err == nil {
		t.Fatal("Merge accepted alignment input without depth command")
	}
}

func TestMergeRegionFilter(t *testing.T) {
	regionPath := writeTemp(t, "regions.tab", "tx1\t0\t10\n")
	filter, err := region.Open(regionPath)
	if err != nil {
		t.Fatalf("region.Open: %v", err)
	}
	depthPath := writeTemp(t, "a.depth", "tx1\t5\t9\ntx1\t50\t1\ntx2\t5\t2\n")
	merged, err := Merge([]PathAln{{Path: depthPath, Depth: true}}, nil, filter)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := metagene.DepthMap{"tx1": {5: 9}}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("Merge = %v; want %v", merged, want)
	}
}

func TestLengthsFromSAMHeader(t *testing.T) {
	path := writeTemp(t, "a.sam", "@HD\tVN:1.6\n@SQ\tSN:tx1\tLN:600\n@SQ\tSN:tx2\tLN:700\n@SQ\tSN:unseen\tLN:900\n")
	depths := metagene.DepthMap{"tx1": {1: 1}, "tx2": {1: 1}}
	lengths, err := Lengths(PathAln{Path: path}, depths)
	if err != nil {
		t.Fatalf("Lengths: %v", err)
	}
	want := metagene.LengthMap{"tx1": 600, "tx2": 700}
	if !reflect.DeepEqual(lengths, want) {
		t.Errorf("Lengths = %v; want %v", lengths, want)
	}
}

func TestLengthsFromDepthInput(t *testing.T) {
	path := writeTemp(t, "a.depth", "tx1\t1\t1\n")
	if _, err := Lengths(PathAln{Path: path, Depth: true}, metagene.DepthMap{}); err == nil {
		t.Fatal("Lengths accepted a depth input without header")
	}
}

func TestLengthsFromTab(t *testing.T) {
	path := writeTemp(t, "lengths.tab", "tx1\t600\ntx2\t700\nunseen\t900\n")
	depths := metagene.DepthMap{"tx1": {1: 1}, "tx2": {1: 1}}
	lengths, err := LengthsFromTab(path, depths)
	if err != nil {
		t.Fatalf("LengthsFromTab: %v", err)
	}
	want := metagene.LengthMap{"tx1": 600, "tx2": 700}
	if !reflect.DeepEqual(lengths, want) {
		t.Errorf("LengthsFromTab = %v; want %v", lengths, want)
	}
}

func TestLengthsFromTabMalformed(t *testing.T) {
	for _, content := range []string{"tx1\n", "tx1\tx\n", "tx1\t0\n"} {
		path := writeTemp(t, "lengths.tab", content)
		if _, err := LengthsFromTab(path, metagene.DepthMap{"tx1": {1: 1}}); err == nil {
			t.Errorf("LengthsFromTab accepted %q", content)
		}
	}
}
