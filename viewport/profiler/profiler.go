package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler tracks frame rate, frame time spread, and memory statistics for
// the viewport. Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	lastFrame      time.Time
	minFrame       time.Duration
	maxFrame       time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats
	particleCount  int
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	now := time.Now()
	return &Profiler{
		lastTime:       now,
		lastFrame:      now,
		updateInterval: time.Second,
	}
}

// Tick should be called once per frame to track frame timing. Logs FPS, the
// slowest and fastest frame since the last report, the particle count, and
// heap usage when the update interval has elapsed.
//
// Parameters:
//   - particleCount: the number of particles drawn this frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(particleCount int) bool {
	p.frameCount++
	p.particleCount = particleCount

	currentTime := time.Now()
	frameTime := currentTime.Sub(p.lastFrame)
	p.lastFrame = currentTime
	if p.minFrame == 0 || frameTime < p.minFrame {
		p.minFrame = frameTime
	}
	if frameTime > p.maxFrame {
		p.maxFrame = frameTime
	}

	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024

	log.Printf("[Profiler] FPS: %.2f | Frame: %.2f-%.2f ms | Particles: %d | Heap: %.2f MB",
		fps,
		float64(p.minFrame.Microseconds())/1000,
		float64(p.maxFrame.Microseconds())/1000,
		p.particleCount,
		allocMB)

	p.frameCount = 0
	p.lastTime = currentTime
	p.minFrame = 0
	p.maxFrame = 0
	return true
}
