package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FileInput names one file to analyze. Source is read from disk by RunAll
// when nil.
type FileInput struct {
	Path   string
	Source []byte
}

// FileResult pairs a FileInput with its outcome. Err is an operational
// failure (e.g. unreadable file); it does not abort the run, it is
// reported and the remaining files still run.
type FileResult struct {
	Input  FileInput
	Result *Result
	Err    error
}

// RunAll analyzes every input, one file per worker-pool slot: file-level
// parallelism via a pool sized to the detected parallelism, with
// single-threaded cooperative execution within each file. Results are
// returned in the caller's input order regardless of completion order.
//
// Cancellation is honored between files, never mid-file: a worker that
// observes ctx.Err() before starting a file skips it rather than aborting
// a file already in progress.
func (p *Pipeline) RunAll(ctx context.Context, inputs []FileInput) []FileResult {
	results := make([]FileResult, len(inputs))

	limit := runtime.GOMAXPROCS(0)
	if limit < 1 {
		limit = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = FileResult{Input: in, Err: ctx.Err()}
				return nil
			}
			results[i] = p.runOne(in)
			return nil
		})
	}
	_ = g.Wait() // workers never return a non-nil error; failures are recorded per-file

	return results
}

func (p *Pipeline) runOne(in FileInput) FileResult {
	src := in.Source
	if src == nil {
		var err error
		src, err = os.ReadFile(in.Path)
		if err != nil {
			return FileResult{Input: in, Err: fmt.Errorf("pipeline: reading %s: %w", in.Path, err)}
		}
	}

	res, err := p.Run(in.Path, src)
	if err != nil {
		return FileResult{Input: in, Err: err}
	}
	return FileResult{Input: in, Result: res}
}
