package main

import "testing"

func TestParsePairs(t *testing.T) {
	cases, err := parsePairs(" 6x6, 10x5 ,", 777)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 2 || cases[0].Jobs != 6 || cases[1].Machines != 5 {
		t.Fatalf("unexpected cases %+v", cases)
	}
	if cases[0].InstanceSeed == cases[1].InstanceSeed {
		t.Error("expected distinct instance seeds")
	}

	for _, bad := range []string{"6", "ax3", "3xb", "0x4", "2x3x4"} {
		if _, err := parsePairs(bad, 1); err == nil {
			t.Errorf("parsePairs(%q): expected error", bad)
		}
	}
}
