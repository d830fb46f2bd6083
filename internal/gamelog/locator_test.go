package gamelog

import (
	"fmt"
	"testing"
)

func TestFindLatest(t *testing.T) {
	marker := DefaultMarker
	exclusions := DefaultExclusions()

	tests := []struct {
		name     string
		lines    []string
		budget   int
		wantLine string
		wantOK   bool
	}{
		{
			name: "newest marker line wins",
			lines: []string{
				"TravelConnection addr [10.0.0.1:7777] sessionId [old] serverId [srv-1] region [EastUs]",
				"unrelated line",
				"TravelConnection addr [10.0.0.2:7777] sessionId [new] serverId [srv-2] region [WestUs]",
			},
			budget:   100,
			wantLine: "TravelConnection addr [10.0.0.2:7777] sessionId [new] serverId [srv-2] region [WestUs]",
			wantOK:   true,
		},
		{
			name: "loopback matches are skipped not selected",
			lines: []string{
				"TravelConnection addr [203.0.113.5:7777] sessionId [real] serverId [srv-9] region [EastUs]",
				"TravelConnection addr [127.0.0.1:7777] sessionId [local] serverId [srv-0] region [EastUs]",
				"TravelConnection addr [127.0.0.1:7777] sessionId [local2] serverId [srv-0] region [EastUs]",
			},
			budget:   100,
			wantLine: "TravelConnection addr [203.0.113.5:7777] sessionId [real] serverId [srv-9] region [EastUs]",
			wantOK:   true,
		},
		{
			name: "all marker lines excluded",
			lines: []string{
				"TravelConnection addr [127.0.0.1:7777] sessionId [local] serverId [srv-0] region [EastUs]",
			},
			budget: 100,
			wantOK: false,
		},
		{
			name:   "no marker line",
			lines:  []string{"startup", "loading assets", "done"},
			budget: 100,
			wantOK: false,
		},
		{
			name:   "empty input",
			lines:  nil,
			budget: 100,
			wantOK: false,
		},
		{
			name: "match outside tail window is not found",
			lines: append(
				[]string{"TravelConnection addr [10.0.0.1:7777] sessionId [old] serverId [srv-1] region [EastUs]"},
				manyLines(10)...,
			),
			budget: 5,
			wantOK: false,
		},
		{
			name: "file smaller than budget is fully scanned",
			lines: append(
				[]string{"TravelConnection addr [10.0.0.1:7777] sessionId [old] serverId [srv-1] region [EastUs]"},
				manyLines(3)...,
			),
			budget:   100,
			wantLine: "TravelConnection addr [10.0.0.1:7777] sessionId [old] serverId [srv-1] region [EastUs]",
			wantOK:   true,
		},
		{
			name: "zero budget scans nothing",
			lines: []string{
				"TravelConnection addr [10.0.0.1:7777] sessionId [s] serverId [srv-1] region [EastUs]",
			},
			budget: 0,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, ok := FindLatest(tt.lines, tt.budget, marker, exclusions)

			if ok != tt.wantOK {
				t.Fatalf("FindLatest() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && line != tt.wantLine {
				t.Errorf("FindLatest() line = %q, want %q", line, tt.wantLine)
			}
		})
	}
}

func TestFindLatest_ExclusionInsideWindowOnly(t *testing.T) {
	// A non-excluded match just outside the window must not be recovered
	// even when everything inside the window is excluded.
	lines := []string{
		"TravelConnection addr [203.0.113.5:7777] sessionId [real] serverId [srv-9] region [EastUs]",
		"TravelConnection addr [127.0.0.1:7777] sessionId [a] serverId [srv-0] region [EastUs]",
		"TravelConnection addr [127.0.0.1:7777] sessionId [b] serverId [srv-0] region [EastUs]",
	}

	if _, ok := FindLatest(lines, 2, DefaultMarker, DefaultExclusions()); ok {
		t.Error("expected no match when the only qualifying line is outside the tail window")
	}
}

func manyLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("filler line %d", i)
	}
	return lines
}
