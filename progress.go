package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uilive"
)

// progress prints batch status: a transient line for the phase currently
// running and permanent lines for results. Without a live writer the
// transient updates are dropped and permanent lines go straight to out.
type progress struct {
	lw  *uilive.Writer
	out io.Writer
}

func newProgress(out io.Writer, live bool) *progress {
	p := &progress{out: out}
	if live {
		p.lw = uilive.New()
		p.lw.Out = out
		p.lw.Start()
	}
	return p
}

// working replaces the transient status line.
func (p *progress) working(format string, a ...any) {
	if p.lw == nil {
		return
	}
	fmt.Fprintf(p.lw, format+"\n", a...)
	_ = p.lw.Flush()
}

// printf emits a permanent line above the transient one.
func (p *progress) printf(format string, a ...any) {
	if p.lw != nil {
		fmt.Fprintf(p.lw.Bypass(), format, a...)
		return
	}
	fmt.Fprintf(p.out, format, a...)
}

func (p *progress) stop() {
	if p.lw != nil {
		p.lw.Stop()
	}
}
