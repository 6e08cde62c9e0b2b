package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

type outcome int

const (
	outcomeOK outcome = iota
	// an answer the workload expects to see now and then, e.g. 409 on an
	// appointment another admin already triaged
	outcomeRejected
	outcomeFailed
)

// classify maps a call result onto an outcome. want is the success status;
// expected lists statuses counted as rejections rather than failures.
func classify(status int, err error, want int, expected ...int) outcome {
	switch {
	case err == nil && status == want:
		return outcomeOK
	case slices.Contains(expected, status):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}

type opStats struct {
	counts  [3]int
	samples []time.Duration
}

type summary struct {
	Name                    string
	Total                   int
	OK, Rejected, Failed    int
	Avg, Min, Max, P50, P95 time.Duration
}

// recorder collects per-operation latencies from all workers.
type recorder struct {
	mu    sync.Mutex
	order []string
	ops   map[string]*opStats
}

func newRecorder(ops ...string) *recorder {
	r := &recorder{order: ops, ops: make(map[string]*opStats, len(ops))}
	for _, op := range ops {
		r.ops[op] = &opStats{}
	}
	return r
}

func (r *recorder) observe(op string, start time.Time, o outcome) {
	elapsed := time.Since(start)

	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.ops[op]
	if !ok {
		st = &opStats{}
		r.ops[op] = st
		r.order = append(r.order, op)
	}
	st.counts[o]++
	st.samples = append(st.samples, elapsed)
}

func (r *recorder) summaries() []summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []summary
	for _, op := range r.order {
		st := r.ops[op]
		if len(st.samples) == 0 {
			continue
		}
		out = append(out, summarize(op, st))
	}
	return out
}

func summarize(name string, st *opStats) summary {
	sorted := slices.Clone(st.samples)
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	n := len(sorted)
	return summary{
		Name:     name,
		Total:    n,
		OK:       st.counts[outcomeOK],
		Rejected: st.counts[outcomeRejected],
		Failed:   st.counts[outcomeFailed],
		Avg:      sum / time.Duration(n),
		Min:      sorted[0],
		Max:      sorted[n-1],
		P50:      sorted[percentile(n, 50)],
		P95:      sorted[percentile(n, 95)],
	}
}

// percentile returns the nearest-rank index of p in a sorted sample of n.
func percentile(n, p int) int {
	return min(n*p/100, n-1)
}

func writeReport(w io.Writer, cfg SimConfig, rows []summary) {
	fmt.Fprintf(w, "\n%s\nsimulation: %s with %d patients against %s\n%s\n",
		strings.Repeat("=", 72), cfg.Duration, cfg.Workers, cfg.APIBaseURL, strings.Repeat("=", 72))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "operation\tcalls\tok\trejected\tfailed\tavg\tp50\tp95\tmax\t")
	for _, s := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t\n",
			s.Name, s.Total, s.OK, s.Rejected, s.Failed,
			ms(s.Avg), ms(s.P50), ms(s.P95), ms(s.Max))
	}
	_ = tw.Flush()
}

func ms(d time.Duration) string {
	return d.Round(100 * time.Microsecond).String()
}
