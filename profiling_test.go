package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCPUProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.pprof")
	p, err := startCPUProfile(path)
	if err != nil {
		t.Skipf("CPU profiling unavailable: %v", err)
	}
	if p.Elapsed() < 0 {
		t.Errorf("Elapsed() = %v", p.Elapsed())
	}
	p.Stop()
	p.Stop()

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("profile file is empty")
	}
}

func TestCPUProfile_BadPath(t *testing.T) {
	if _, err := startCPUProfile(filepath.Join(t.TempDir(), "missing", "cpu.pprof")); err == nil {
		t.Error("startCPUProfile accepted a path in a missing directory")
	}
}
