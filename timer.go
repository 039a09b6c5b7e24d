package main

import (
	"fmt"
	"time"
)

// timer captures wall-clock time and the CPU time consumed by child
// processes between start and stop.
type timer struct {
	wallStart time.Time
	cpuStart  childCPU

	elapsed time.Duration
	user    time.Duration
	sys     time.Duration
}

func startTimer() *timer {
	return &timer{wallStart: time.Now(), cpuStart: childCPUTime()}
}

func (t *timer) stop() {
	end := childCPUTime()
	t.elapsed = time.Since(t.wallStart)
	t.user = end.user - t.cpuStart.user
	t.sys = end.sys - t.cpuStart.sys
}

func (t *timer) String() string {
	return fmt.Sprintf("real %.1fs  user %.1fs  sys %.1fs",
		t.elapsed.Seconds(), t.user.Seconds(), t.sys.Seconds())
}
