// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Command symres resolves the names in scope programs and prints a report of
// every declaration and reference.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/golang/glog"
	"github.com/google/symres/internal/exporter"
	"github.com/google/symres/internal/loader"
	"github.com/google/symres/internal/resolver"
	"github.com/google/symres/internal/symtab"
	"github.com/prometheus/common/version"
	"go.opencensus.io/trace"
)

var (
	path          = flag.String("path", "", "Scope program, or directory of *.scope programs, to resolve.")
	watch         = flag.Bool("watch", false, "After the first pass, keep watching -path and re-resolve programs as they change.")
	cacheSize     = flag.Int("cache_size", 64, "Number of program reports remembered by content hash.")
	variant       = flag.String("variant", "offsets", "Symbol attributes to compute: offsets (stack frame offsets) or positions (declaration positions only).")
	metricsFormat = flag.String("metrics_format", "none", "Format to dump internal counters in after the first pass: none or prometheus.")
	errorsAbort   = flag.Bool("errors_abort", false, "Exit with an error on the first program with diagnostics.")
	printVersion  = flag.Bool("version", false, "Print symres version information.")

	// Tracing.
	jaegerEndpoint    = flag.String("jaeger_endpoint", "", "If set, collector endpoint URL of jaeger thrift service")
	traceSamplePeriod = flag.Int("trace_sample_period", 0, "Sample period for traces.  If non-zero, every nth trace will be sampled.")
)

var (
	// Branch as well as Version and Revision identifies where in the git
	// history the build came from, as supplied by the linker.
	Branch   = "unknown"
	Version  = "unknown"
	Revision = "unknown"
)

func main() {
	version.Branch = Branch
	version.Version = Version
	version.Revision = Revision

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", version.Info())
		fmt.Fprintf(os.Stderr, "\nUsage:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *printVersion {
		fmt.Println(version.Print("symres"))
		os.Exit(0)
	}
	glog.Info(version.Info())
	glog.Infof("Commandline: %q", os.Args)
	if len(flag.Args()) > 0 {
		glog.Exitf("Too many extra arguments specified: %q", flag.Args())
	}
	if *path == "" {
		glog.Exitf("symres requires programs to resolve; please use the flag -path to name a program or a directory of programs.")
	}
	v, err := symtab.ParseVariant(*variant)
	if err != nil {
		glog.Exit(err)
	}
	if *metricsFormat != "none" && *metricsFormat != "prometheus" {
		glog.Exitf("unsupported metrics format: %q", *metricsFormat)
	}

	if *traceSamplePeriod > 0 {
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(1 / float64(*traceSamplePeriod))})
	}
	if *jaegerEndpoint != "" {
		je, err := jaeger.NewExporter(jaeger.Options{
			CollectorEndpoint: *jaegerEndpoint,
			Process: jaeger.Process{
				ServiceName: "symres",
			},
		})
		if err != nil {
			glog.Exit(err)
		}
		trace.RegisterExporter(je)
		defer je.Flush()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigint
		glog.Infof("Received %+v, exiting...", sig)
		cancel()
	}()

	var watching bool
	opts := []loader.Option{
		loader.CacheSize(*cacheSize),
		loader.TableOptions(symtab.WithVariant(v)),
		loader.OnLoad(func(name string, r *resolver.Report, err error) {
			if !watching {
				return
			}
			if r == nil {
				glog.Warning(err)
				return
			}
			if _, werr := r.WriteTo(os.Stdout); werr != nil {
				glog.Warning(werr)
			}
		}),
	}
	if *errorsAbort {
		opts = append(opts, loader.ErrorsAbort())
	}
	l, err := loader.New(*path, opts...)
	if err != nil {
		glog.Exit(err)
	}
	if err := firstPass(ctx, l); err != nil {
		glog.Error(err)
		cancel()
		os.Exit(1) //nolint:gocritic // false positive
	}
	if !*watch {
		return
	}
	watching = true
	if err := l.Watch(ctx, nil); err != nil {
		glog.Error(err)
		cancel()
		os.Exit(1)
	}
}

// firstPass resolves every program once and prints the reports, followed by
// the counters if requested.
func firstPass(ctx context.Context, l *loader.Loader) error {
	if err := l.LoadAll(ctx); err != nil {
		return err
	}
	if err := l.WriteStatus(os.Stdout); err != nil {
		return err
	}
	if *metricsFormat != "prometheus" {
		return nil
	}
	reg, err := exporter.NewRegistry()
	if err != nil {
		return err
	}
	return exporter.Write(os.Stdout, reg)
}
