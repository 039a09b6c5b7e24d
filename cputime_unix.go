//go:build unix

package main

import (
	"time"

	"golang.org/x/sys/unix"
)

// childCPU is a snapshot of cumulative CPU time used by reaped children.
type childCPU struct {
	user time.Duration
	sys  time.Duration
}

func childCPUTime() childCPU {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &ru); err != nil {
		return childCPU{}
	}
	return childCPU{
		user: time.Duration(ru.Utime.Nano()),
		sys:  time.Duration(ru.Stime.Nano()),
	}
}
