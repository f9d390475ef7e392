// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validator

import (
	"context"
	"sync"

	"github.com/tejzpr/mdx-mcp/internal/report"
)

// FileResult is the outcome of validating one file
type FileResult struct {
	Path   string
	Result *report.Result
	Err    error
}

// ValidateFiles validates paths with up to workers goroutines. Results keep the input order.
func (v *Validator) ValidateFiles(ctx context.Context, paths []string, workers int) []FileResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]FileResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := v.ValidateFile(paths[i])
				results[i] = FileResult{Path: paths[i], Result: res, Err: err}
			}
		}()
	}

	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			results[i] = FileResult{Path: paths[i], Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
