package MG3D

import (
	"fmt"
	"io"
	"time"

	"github.com/notargets/gocsem/types"
	"github.com/notargets/gocsem/utils"
)

// Event names passed to Observer.OnCycle
const (
	MsgReference = "reference" // l2 is the reference norm of the source
	MsgInitial   = "initial"   // l2 is the residual norm of the initial field
	MsgCycle     = "cycle"     // l2 after top level cycle it
	MsgDescent   = "descent"   // l2 of the residual restricted from level-1
	MsgKrylov    = "krylov"    // l2 is the relative Krylov residual of iteration it
)

// Observer receives the solver progress. It is called from the solving
// goroutine only.
type Observer interface {
	OnCycle(level, it int, l2 float64, message string)
}

// FinalObserver is notified once with the diagnostics when a solve returns.
type FinalObserver interface {
	OnFinish(info *Info)
}

type ObserverFunc func(level, it int, l2 float64, message string)

func (f ObserverFunc) OnCycle(level, it int, l2 float64, message string) { f(level, it, l2, message) }

/*
Printer formats the progress as a table:
	verb 0  silent
	verb 1  settings and final summary
	verb 2  one row per cycle
	verb 3  also the per level descents
	verb 4  also the Krylov iterations
*/
type Printer struct {
	W      io.Writer
	Verb   int
	l2Refe float64
	l2Prev float64
	start  time.Time
}

func NewPrinter(w io.Writer, verb int) *Printer {
	return &Printer{W: w, Verb: verb, start: time.Now()}
}

func (pr *Printer) PrintInitialization(p *Parameters) {
	if pr.Verb < 1 {
		return
	}
	fmt.Fprintf(pr.W, "%v\n", p.Grid)
	if p.Cycle != types.CycleNone {
		fmt.Fprintf(pr.W, "MG cycle = %v, semicoarsening = [%v], line relaxation = [%v], coarsest level = %d\n",
			p.Cycle, p.Sc, p.Lr, p.Coarsest())
		fmt.Fprintf(pr.W, "Sweeps: init %d, pre %d, coarse %d, post %d\n",
			p.NuInit, p.NuPre, p.NuCoarse, p.NuPost)
	}
	if p.Krylov != "" {
		fmt.Fprintf(pr.W, "Krylov solver = %s\n", p.Krylov)
	}
	fmt.Fprintf(pr.W, "Tolerance = %8.2e, max iterations = %d\n", p.Tol, p.MaxIt)
	if pr.Verb > 1 {
		fmt.Fprintf(pr.W, "    iter     rel_error    l2_error  conv_rate   elapsed\n")
	}
}

func (pr *Printer) OnCycle(level, it int, l2 float64, message string) {
	switch message {
	case MsgReference:
		pr.l2Refe = l2
	case MsgInitial:
		pr.l2Prev = l2
		if pr.Verb > 1 {
			fmt.Fprintf(pr.W, "%8d%14.4e%12.4e%11s%10s\n", it, pr.relative(l2), l2, "", "")
		}
	case MsgCycle:
		if pr.Verb > 1 {
			var rate float64
			if pr.l2Prev > 0 {
				rate = l2 / pr.l2Prev
			}
			fmt.Fprintf(pr.W, "%8d%14.4e%12.4e%11.3f%10s\n", it, pr.relative(l2), l2, rate,
				time.Since(pr.start).Round(time.Millisecond))
		}
		pr.l2Prev = l2
	case MsgDescent:
		if pr.Verb > 2 {
			fmt.Fprintf(pr.W, "%8s   level %2d  %12.4e\n", "", level, l2)
		}
	case MsgKrylov:
		if pr.Verb > 3 {
			fmt.Fprintf(pr.W, "%8d%14.4e  (krylov)\n", it, l2)
		}
	}
}

func (pr *Printer) relative(l2 float64) float64 {
	if pr.l2Refe == 0 {
		return 0
	}
	return l2 / pr.l2Refe
}

func (pr *Printer) OnFinish(info *Info) {
	if pr.Verb < 1 {
		return
	}
	fmt.Fprintf(pr.W, "\n   > %s\n", info.ExitMessage)
	fmt.Fprintf(pr.W, "   > Final rel. error = %10.4e after %d cycles, %d Krylov iterations, %d sweeps\n",
		info.RelError(), info.It, info.KrylovIt, info.Sweeps)
	fmt.Fprintf(pr.W, "   > Solver time = %v\n", info.Elapsed.Round(time.Millisecond))
	if pr.Verb > 2 {
		fmt.Fprintf(pr.W, "   > %s\n", utils.GetMemUsage())
	}
}
