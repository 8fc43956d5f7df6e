// Command hakidata runs a court-returns analysis: it loads the returns named
// by a pipeline config, classifies every case and writes the summary tables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/internal/metrics"
	"github.com/namatanda/haki-data/internal/metrics/datadog"
	"github.com/namatanda/haki-data/internal/metrics/prompush"

	// register all backends with the storage factory.
	_ "github.com/namatanda/haki-data/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		input             string
		output            string
		metricsBackendFlg string
		pushGatewayURLFlg string
		datadogAddrFlg    string
		validate          bool
		probeOnly         bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/hc.json", "pipeline config JSON path")
	flag.StringVar(&input, "input", "", "input file or directory (overrides source)")
	flag.StringVar(&output, "output", "", "output directory for CSV tables (overrides output.dir)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend: pushgateway, datadog or none (env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (env PUSHGATEWAY_URL)")
	flag.StringVar(&datadogAddrFlg, "datadog-addr", "", "DogStatsD address (env DD_AGENT_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&probeOnly, "probe", false, "profile the input files against the expected columns and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if err := applyOverrides(&p, input, output); err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	ctx := context.Background()

	if probeOnly {
		ok, err := probeInputs(ctx, p, os.Stdout)
		if err != nil {
			fatalf("%v", err)
		}
		if !ok {
			os.Exit(2)
		}
		os.Exit(0)
	}

	flush := setupMetrics(metricsSettings{
		backend:    firstNonEmpty(metricsBackendFlg, os.Getenv("METRICS_BACKEND")),
		gatewayURL: firstNonEmpty(pushGatewayURLFlg, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091"),
		ddAddr:     firstNonEmpty(datadogAddrFlg, os.Getenv("DD_AGENT_ADDR"), "127.0.0.1:8125"),
		job:        p.Job,
	}, *verbose)

	start := time.Now()

	if *verbose {
		log.Printf("pipeline: job=%s source=%s parser=%s output=%q workbook=%q storage=%s",
			p.Job, p.Source.Kind, p.Parser.Kind, p.Output.Dir, p.Output.Workbook, p.Output.Storage.Kind)
	}

	res, err := execute(ctx, p)
	flush()
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("analysis complete: %d cases, %d tables", res.Dataset.Len(), len(res.Tables))
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// applyOverrides points the pipeline at the -input and -output flags. A
// directory input is discovered non-recursively.
func applyOverrides(p *config.Pipeline, input, output string) error {
	if input != "" {
		fi, err := os.Stat(input)
		if err != nil {
			return fmt.Errorf("input: %w", err)
		}
		if fi.IsDir() {
			p.Source.Kind = "dir"
			p.Source.Dir.Path = input
			p.Source.Dir.Recursive = false
		} else {
			p.Source.Kind = "file"
			p.Source.File.Path = input
		}
	}
	if output != "" {
		p.Output.Dir = output
	}
	return nil
}

type metricsSettings struct {
	backend    string
	gatewayURL string
	ddAddr     string
	job        string
}

// setupMetrics installs the selected backend and returns the function that
// flushes it. An unusable backend falls back to the no-op one.
func setupMetrics(s metricsSettings, verbose bool) (flush func()) {
	var (
		b   metrics.Backend
		err error
	)
	switch s.backend {
	case "pushgateway":
		b, err = prompush.NewBackend(s.job, s.gatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       s.ddAddr,
			Namespace:  "haki.",
			GlobalTags: []string{"job:" + s.job},
		})
	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", s.backend)
		}
		return func() {}
	default:
		err = errors.New("unknown backend")
	}
	if err != nil {
		log.Printf("metrics: backend %q unavailable: %v; metrics disabled", s.backend, err)
		return func() {}
	}

	log.Printf("metrics: backend=%v job_name=%v", s.backend, s.job)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
