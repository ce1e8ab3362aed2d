package main

import (
	"fmt"
	"io"
	"time"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/disasm"
)

// stopReason describes why a run ended.
type stopReason int

const (
	stopSteps stopReason = iota
	stopIdle
	stopTarget
	stopTimeout
	stopFault
)

func (r stopReason) String() string {
	switch r {
	case stopIdle:
		return "idle loop"
	case stopTarget:
		return "target reached"
	case stopTimeout:
		return "timeout"
	case stopFault:
		return "fault"
	default:
		return "step limit"
	}
}

type options struct {
	steps       int
	until       int // PC target, negative disables
	timeout     time.Duration
	trace       bool
	traceWindow int // recent instructions dumped on fault
}

type traceEntry struct {
	pc uint16
	op uint16
	v  [cpu.NumRegisters]byte
	i  uint16
	sp int
}

func (te traceEntry) print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "PC=%03X OP=%04X %-18s I=%03X SP=%d V=% X\n",
		te.pc, te.op, disasm.Format(te.op), te.i, te.sp, te.v[:])
}

type result struct {
	reason stopReason
	steps  int
	err    error
}

// run ticks c until a stop condition. Trace lines go to out.
func run(c *cpu.CPU, opts options, out io.Writer) result {
	var deadline time.Time
	if opts.timeout > 0 {
		deadline = time.Now().Add(opts.timeout)
	}
	var ring []traceEntry
	ringIdx := 0
	if opts.traceWindow > 0 {
		ring = make([]traceEntry, 0, opts.traceWindow)
	}

	for i := 0; i < opts.steps; i++ {
		pc := c.PC()
		if opts.until >= 0 && int(pc) == opts.until {
			return result{reason: stopTarget, steps: i}
		}
		op, _ := c.PeekWord(pc)
		if cpu.IsSelfJump(pc, op) {
			return result{reason: stopIdle, steps: i}
		}

		// a blocked FX0A fetches nothing, so there is no instruction to record
		if (opts.trace || ring != nil) && !c.AwaitingInput() {
			te := traceEntry{pc: pc, op: op, v: c.Registers(), i: c.I(), sp: c.SP()}
			if opts.trace {
				te.print(out)
			}
			if ring != nil {
				if len(ring) < cap(ring) {
					ring = append(ring, te)
				} else {
					ring[ringIdx] = te
				}
				ringIdx = (ringIdx + 1) % cap(ring)
			}
		}

		if err := c.Tick(); err != nil {
			if ring != nil {
				_, _ = fmt.Fprintf(out, "--- recent trace (last %d instructions) ---\n", len(ring))
				// print in chronological order
				start := 0
				if len(ring) == cap(ring) {
					start = ringIdx
				}
				for j := range ring {
					ring[(start+j)%len(ring)].print(out)
				}
				_, _ = fmt.Fprintln(out, "--- end trace ---")
			}
			return result{reason: stopFault, steps: i + 1, err: err}
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return result{reason: stopTimeout, steps: i + 1}
		}
	}
	return result{reason: stopSteps, steps: opts.steps}
}
