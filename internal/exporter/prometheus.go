// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package exporter publishes the internal counters of symres in the
// Prometheus text format.
package exporter

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/version"

	// Imported for the counters they register with expvar.
	_ "github.com/google/symres/internal/hashmap"
	_ "github.com/google/symres/internal/loader"
	_ "github.com/google/symres/internal/symtab"
)

// expvarDescs maps each exported expvar to its Prometheus description.
// Map-valued vars carry the map key in the single variable label.
var expvarDescs = map[string]*prometheus.Desc{
	"hashmap_grows_total": prometheus.NewDesc(
		"symres_hashmap_grows_total", "Number of times a symbol map doubled its capacity.", nil, nil),
	"symtab_scopes_pushed_total": prometheus.NewDesc(
		"symres_scopes_pushed_total", "Number of scopes opened.", nil, nil),
	"symtab_scopes_popped_total": prometheus.NewDesc(
		"symres_scopes_popped_total", "Number of scopes closed.", nil, nil),
	"symtab_symbols_declared_total": prometheus.NewDesc(
		"symres_symbols_declared_total", "Number of symbols declared.", nil, nil),
	"symtab_redeclarations_total": prometheus.NewDesc(
		"symres_redeclarations_total", "Number of declarations rejected as duplicates in their scope.", nil, nil),
	"prog_loads_total": prometheus.NewDesc(
		"symres_prog_loads_total", "Number of successful program loads.", []string{"prog"}, nil),
	"prog_load_errors_total": prometheus.NewDesc(
		"symres_prog_load_errors_total", "Number of program loads with errors.", []string{"prog"}, nil),
	"report_cache_hits_total": prometheus.NewDesc(
		"symres_report_cache_hits_total", "Number of program loads answered from the report cache.", nil, nil),
	"program_watcher_error_count": prometheus.NewDesc(
		"symres_program_watcher_errors_total", "Number of errors from the program watcher.", nil, nil),
}

// NewRegistry returns a registry holding the symres counters and build
// information.
func NewRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(prometheus.NewExpvarCollector(expvarDescs)); err != nil {
		return nil, err
	}
	if err := reg.Register(version.NewCollector("symres")); err != nil {
		return nil, err
	}
	return reg, nil
}

// Write gathers the metrics of reg and writes them to w in the Prometheus
// text format.
func Write(w io.Writer, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
