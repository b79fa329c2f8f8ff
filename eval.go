package lexd

import (
	"bufio"
	"io"
	"strings"
)

// EvalResult summarizes analyzer accuracy against a gold standard.
type EvalResult struct {
	// Total is the number of gold pairs read.
	Total int
	// Analyzed counts forms that received at least one reading.
	Analyzed int
	// Correct counts forms whose reading set contains the gold reading.
	Correct int
	// Ambiguous counts forms with more than one reading.
	Ambiguous int
}

// Coverage is the analyzed share of the gold forms, 0 when empty.
func (r *EvalResult) Coverage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Analyzed) / float64(r.Total)
}

// Accuracy is the correct share of the gold forms, 0 when empty.
func (r *EvalResult) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Evaluate scores the analyzer against gold pairs read from r, one per
// line: surface form, a tab, the expected lexical reading. '#' lines and
// malformed lines are skipped.
func (t *Transducer) Evaluate(r io.Reader, opts *Options) (*EvalResult, error) {
	res := &EvalResult{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		surface, gold, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		res.Total++
		readings, err := t.Analyze(strings.TrimSpace(surface), opts)
		if err != nil {
			return nil, err
		}
		if len(readings) > 0 {
			res.Analyzed++
		}
		if len(readings) > 1 {
			res.Ambiguous++
		}
		gold = Normalize(strings.TrimSpace(gold))
		for _, reading := range readings {
			if reading == gold {
				res.Correct++
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
