package main

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"sync"
	"time"
)

// cpuProfile is a running -cpuprofile capture covering every render the
// process performs.
type cpuProfile struct {
	path    string
	f       *os.File
	started time.Time
	once    sync.Once
}

// startCPUProfile begins writing a CPU profile to path.
func startCPUProfile(path string) (*cpuProfile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("start CPU profile: %w", err)
	}
	log.Printf("Writing CPU profile to %s", path)
	return &cpuProfile{path: path, f: f, started: time.Now()}, nil
}

// Stop flushes the profile and reports how much was recorded. Calls after
// the first do nothing.
func (p *cpuProfile) Stop() {
	p.once.Do(func() {
		pprof.StopCPUProfile()
		var size int64
		if fi, err := p.f.Stat(); err == nil {
			size = fi.Size()
		}
		if err := p.f.Close(); err != nil {
			log.Printf("CPU profile close failed: %v", err)
			return
		}
		log.Printf("CPU profile %s: %v recorded, %d bytes",
			p.path, time.Since(p.started).Round(time.Millisecond), size)
	})
}

// Elapsed reports how long the profile has been recording.
func (p *cpuProfile) Elapsed() time.Duration {
	return time.Since(p.started)
}
