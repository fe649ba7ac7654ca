package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
)

func TestNewDefaultsToGOMAXPROCS(t *testing.T) {
	for _, n := range []int{0, -3} {
		p := New(n)
		if got, want := p.Workers(), runtime.GOMAXPROCS(0); got != want {
			t.Errorf("New(%d).Workers() = %d, want %d", n, got, want)
		}
		p.Close()
	}
}

func TestRunWaitsForAllJobs(t *testing.T) {
	p := New(4)
	defer p.Close()

	var n atomic.Int64
	jobs := make([]func(), 100)
	for i := range jobs {
		jobs[i] = func() { n.Add(1) }
	}
	p.Run(jobs)

	if got := n.Load(); got != 100 {
		t.Errorf("ran %d jobs, want 100", got)
	}
}

func TestMapKeepsOrder(t *testing.T) {
	p := New(3)
	defer p.Close()

	in := make([]int, 50)
	for i := range in {
		in[i] = i
	}
	out := Map(p, in, func(v int) int { return v * v })

	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestRunAfterClose(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close()

	ran := false
	p.Run([]func(){func() { ran = true }, nil})
	if !ran {
		t.Error("job submitted after Close did not run")
	}
}
