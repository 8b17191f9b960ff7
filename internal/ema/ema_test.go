package ema

import "testing"

func TestTracker_FirstSampleSeeds(t *testing.T) {
	tr := New(0.1)
	got := tr.Observe(10)
	if got != 10 {
		t.Errorf("first observe = %v, want 10", got)
	}
}

func TestTracker_FoldsSubsequentSamples(t *testing.T) {
	tr := New(0.5)
	tr.Observe(10)
	got := tr.Observe(20)
	want := 0.5*20 + 0.5*10
	if got != want {
		t.Errorf("second observe = %v, want %v", got, want)
	}
}

func TestTracker_InvalidAlphaDefaults(t *testing.T) {
	tr := New(0)
	if tr.alpha != 0.1 {
		t.Errorf("alpha = %v, want default 0.1", tr.alpha)
	}
	tr2 := New(1.5)
	if tr2.alpha != 0.1 {
		t.Errorf("alpha = %v, want default 0.1", tr2.alpha)
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := New(0.1)
	tr.Observe(5)
	tr.Reset()
	if tr.Value() != 0 {
		t.Errorf("Value after reset = %v, want 0", tr.Value())
	}
	got := tr.Observe(3)
	if got != 3 {
		t.Errorf("observe after reset = %v, want 3 (reseed)", got)
	}
}
