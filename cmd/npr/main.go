// Command npr runs non-photorealistic filters on image files.
//
// A single filter:
//
//	npr -filter HALFTONING_CAH -param Kernel_size=9 -in photo.png -out ink.png
//
// A filter graph described in YAML:
//
//	npr -graph pipeline.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gogpu/npr"
)

// paramFlags collects repeated -param key=value flags.
type paramFlags npr.Params

func (p paramFlags) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (p paramFlags) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("want key=value, got %q", s)
	}
	p[k] = v
	return nil
}

func main() {
	params := paramFlags{}
	var (
		graph   = flag.String("graph", "", "YAML graph file")
		typ     = flag.String("filter", "", "filter type for single-filter mode")
		input   = flag.String("in", "", "input image")
		second  = flag.String("in2", "", "second input image (measurement, edge map)")
		output  = flag.String("out", "out.png", "output file")
		verbose = flag.Bool("v", false, "debug logging")
		list    = flag.Bool("list", false, "list filter types and their default parameters")
	)
	flag.Var(params, "param", "filter parameter key=value (repeatable)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	npr.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := npr.WithProgress(func(p npr.Progress) {
		logger.Info("progress", "filter", p.Filter, "stage", p.Stage, "done", p.Done, "total", p.Total)
	})

	var err error
	switch {
	case *list:
		listTypes()
	case *graph != "":
		err = runGraph(ctx, *graph, progress)
	case *typ != "":
		err = runSingle(ctx, npr.Type(*typ), npr.Params(params), *input, *second, *output, progress)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("npr: %v", err)
	}
}

func listTypes() {
	for _, t := range npr.Types() {
		f, err := npr.New(t, nil)
		if err != nil {
			continue
		}
		fmt.Println(t)
		p := f.WriteParameters()
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s=%s\n", k, p[k])
		}
	}
}

func runSingle(ctx context.Context, t npr.Type, p npr.Params, in, in2, out string, opts ...npr.Option) error {
	if in == "" {
		return errors.New("-in is required")
	}
	f, err := npr.New(t, p, opts...)
	if err != nil {
		return err
	}
	src, err := npr.LoadBuffer(in)
	if err != nil {
		return err
	}
	inputs := []*npr.Buffer{src}
	if in2 != "" {
		b, err := npr.LoadBuffer(in2)
		if err != nil {
			return err
		}
		inputs = append(inputs, b)
	}

	if err := f.Update(ctx, inputs...); err != nil && !errors.Is(err, npr.ErrPrecondition) {
		return err
	} else if err != nil {
		slog.Warn("precondition not met", "err", err)
	}
	report(string(t), f)
	if res := f.Output(0); res != nil {
		if err := res.SavePNG(out); err != nil {
			return err
		}
		slog.Info("saved", "path", out, "rows", res.Rows(), "cols", res.Cols())
	}
	return nil
}

func runGraph(ctx context.Context, path string, opts ...npr.Option) error {
	gf, err := readGraphFile(path)
	if err != nil {
		return err
	}
	base := filepath.Dir(path)
	b, err := gf.build(base, npr.LoadBuffer, opts...)
	if err != nil {
		return err
	}

	if err := b.graph.Run(ctx); err != nil {
		if !errors.Is(err, npr.ErrPrecondition) {
			return err
		}
		slog.Warn("graph finished with skipped steps", "err", err)
	}

	for _, n := range b.nodes {
		report(n.Name, b.graph.Filter(b.ids[n.Name]))
	}

	names := make([]string, 0, len(gf.Outputs))
	for name := range gf.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id, slot, err := b.ref(name)
		if err != nil {
			return fmt.Errorf("output %s: %w", name, err)
		}
		res := b.graph.Output(id, slot)
		if res == nil {
			slog.Warn("no output produced", "node", name)
			continue
		}
		dst := resolve(base, gf.Outputs[name])
		if err := res.SavePNG(dst); err != nil {
			return err
		}
		slog.Info("saved", "node", name, "path", dst)
	}
	return nil
}

// report logs filter-specific results.
func report(name string, f npr.Filter) {
	switch f := f.(type) {
	case npr.Measurer:
		slog.Info("measurement", "node", name, "mssim", f.MSSIM(), "psnr", f.PSNR())
	case *npr.SBE:
		st := f.Stats()
		slog.Info("stippling", "node", name,
			"black_placed", st.BlackPlaced, "white_placed", st.WhitePlaced,
			"unplaced", st.Unplaced, "erased", st.ClustersErased, "shifted", st.ClustersShifted)
	}
}
