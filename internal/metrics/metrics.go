// Package metrics collects per-build statistics and prints the build summary.
package metrics

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robertgumeny/rescomp/internal/log"
)

// Report accumulates the outcome of one build. It is safe for concurrent use
// by pipeline workers.
type Report struct {
	mu       sync.Mutex
	compiled []string
	skipped  []string
	pruned   []string
	bytes    int
	start    time.Time
	duration time.Duration
}

// NewReport starts a report clock.
func NewReport() *Report {
	return &Report{start: time.Now()}
}

// RecordCompiled notes a resource that was compiled and embedded.
func (r *Report) RecordCompiled(name string, length int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compiled = append(r.compiled, name)
	r.bytes += length
}

// RecordSkipped notes a resource whose sources were unchanged.
func (r *Report) RecordSkipped(name string, length int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = append(r.skipped, name)
	r.bytes += length
}

// RecordPruned notes a resource whose shader no longer exists.
func (r *Report) RecordPruned(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruned = append(r.pruned, name)
}

// Finish stops the clock.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.duration = time.Since(r.start)
}

// Compiled returns the compiled resource names, sorted.
func (r *Report) Compiled() []string { return r.sorted(&r.compiled) }

// Skipped returns the unchanged resource names, sorted.
func (r *Report) Skipped() []string { return r.sorted(&r.skipped) }

// Pruned returns the removed resource names, sorted.
func (r *Report) Pruned() []string { return r.sorted(&r.pruned) }

// Bytes returns the total embedded payload size across compiled and skipped
// resources.
func (r *Report) Bytes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytes
}

// Duration returns the wall time recorded by Finish.
func (r *Report) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duration
}

func (r *Report) sorted(s *[]string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), (*s)...)
	sort.Strings(out)
	return out
}

// PrintSummary prints a box-draw table summarizing the build.
func PrintSummary(r *Report) {
	fmt.Printf("\n%s\n", log.SectionLine)
	fmt.Println("BUILD SUMMARY")
	fmt.Printf("%s\n", log.SectionLine)
	fmt.Printf("  %-22s %d\n", "Compiled:", len(r.Compiled()))
	fmt.Printf("  %-22s %d\n", "Unchanged:", len(r.Skipped()))
	fmt.Printf("  %-22s %d\n", "Pruned:", len(r.Pruned()))
	fmt.Printf("  %-22s %s\n", "Embedded:", formatBytes(r.Bytes()))
	fmt.Printf("  %-22s %s\n", "Total Time:", formatDuration(r.Duration()))
	fmt.Printf("%s\n\n", log.SectionLine)
}

// formatDuration converts a duration to a human-readable string.
// Examples: "0s", "450ms", "3m 15s", "1h 2m 30s".
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	seconds := int(d.Seconds())
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// formatBytes renders n as B, KiB or MiB.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
