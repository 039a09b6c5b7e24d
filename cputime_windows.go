//go:build windows

package main

import "time"

// childCPU on Windows reports zero: there is no process-wide counter for
// reaped children, so only wall time appears in the status lines.
type childCPU struct {
	user time.Duration
	sys  time.Duration
}

func childCPUTime() childCPU { return childCPU{} }
