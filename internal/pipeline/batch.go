package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel pipelines when no limit is given
const DefaultConcurrency = 4

// BatchResult is the outcome of one item of a batch
type BatchResult struct {
	Index  int
	Source string
	Result *Result
	Err    error
}

// BatchError reports how many items of a batch failed
type BatchError struct {
	Failed int
	Total  int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d resumes failed", e.Failed, e.Total)
}

// RunBatch runs independent pipelines with at most concurrency in flight.
// A failed item does not stop the others; results keep the order of items.
// Items without an Out writer share out, each line prefixed with the item's
// source name.
func RunBatch(ctx context.Context, items []RunOptions, concurrency int, out io.Writer) ([]BatchResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if out == nil {
		out = os.Stdout
	}

	results := make([]BatchResult, len(items))
	var outMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i := range items {
		i := i
		opts := items[i]
		results[i] = BatchResult{Index: i, Source: opts.sourceName()}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			var pw *prefixWriter
			if opts.Out == nil {
				pw = &prefixWriter{
					prefix: fmt.Sprintf("[%s] ", filepath.Base(opts.sourceName())),
					out:    out,
					mu:     &outMu,
				}
				opts.Out = pw
			}

			result, err := RunPipeline(ctx, opts)
			if pw != nil {
				pw.Flush()
			}
			results[i].Result = result
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return results, &BatchError{Failed: failed, Total: len(items)}
	}
	return results, nil
}

// AssignOutputPaths maps each source file to a .docx path in outDir named
// after it. Sources sharing a base name get numeric suffixes.
func AssignOutputPaths(sources []string, outDir string) []string {
	paths := make([]string, len(sources))
	used := make(map[string]int)
	for i, src := range sources {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		if base == "" || base == "." {
			base = "resume"
		}
		used[base]++
		name := base
		if n := used[base]; n > 1 {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		paths[i] = filepath.Join(outDir, name+".docx")
	}
	return paths
}

// prefixWriter writes whole lines to a shared writer, each with a prefix
type prefixWriter struct {
	prefix string
	out    io.Writer
	mu     *sync.Mutex
	buf    bytes.Buffer
}

func (w *prefixWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line; keep it for the next write
			w.buf.Reset()
			w.buf.Write(line)
			break
		}
		if err := w.writeLine(line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Flush writes any incomplete final line
func (w *prefixWriter) Flush() {
	if w.buf.Len() == 0 {
		return
	}
	line := append(w.buf.Bytes(), '\n')
	w.buf.Reset()
	_ = w.writeLine(line)
}

func (w *prefixWriter) writeLine(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.out, "%s%s", w.prefix, line)
	return err
}
