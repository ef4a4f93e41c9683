package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jcp9010/read.gt3x/internal/common"
	"github.com/jcp9010/read.gt3x/internal/device"
	"github.com/jcp9010/read.gt3x/internal/gt3x"
	"github.com/jcp9010/read.gt3x/internal/report"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]
	switch cmd {
	case "decode":
		decodeCmd(os.Args[2:])
	case "scan":
		scanCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Printf(`gt3xctl %s (built %s) <command> [options]

Commands:
  decode  --in <log.bin> [--profile <device> | --rate <hz> --scale <counts-per-g>] [--max-samples <n>] --out <samples.csv> [--report-json <file>] [--report-pdf <file>]
  scan    --in <log.bin>
  report  --summary <summary.json> --pdf <report.pdf>
`, version, buildDate)
}

func setupLogDir(dir string) {
	if dir == "" {
		return
	}
	common.SetLogOutput(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "gt3xctl.log"),
		MaxSize:    50,
		MaxAge:     28,
		MaxBackups: 5,
		Compress:   true,
	})
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	in := fs.String("in", "", "input log.bin extracted from a .gt3x archive")
	out := fs.String("out", "samples.csv", "CSV output")
	profileName := fs.String("profile", "", "device profile supplying rate and scale defaults")
	profilesPath := fs.String("profiles", "", "YAML file with additional device profiles")
	rate := fs.Int("rate", 0, "sample rate in Hz (overrides the profile)")
	scale := fs.Float64("scale", 0, "scale factor in counts per g (overrides the profile)")
	maxSamples := fs.Int("max-samples", 3_600_000, "maximum sample rows to decode")
	verbose := fs.Bool("verbose", false, "dump parameter records")
	debug := fs.Bool("debug", false, "print a line per activity record")
	reportJSON := fs.String("report-json", "", "write a decode summary JSON")
	reportPDF := fs.String("report-pdf", "", "write a decode summary PDF")
	metricsFlag := fs.Bool("metrics", false, "print decode throughput metrics")
	progressFlag := fs.Bool("progress", false, "display decode progress updates")
	logDir := fs.String("log-dir", "", "rotate warnings into this directory instead of stderr")
	fs.Parse(args)

	if *in == "" {
		fmt.Println("required: --in")
		os.Exit(1)
	}
	setupLogDir(*logDir)

	registry := device.NewRegistry()
	if *profilesPath != "" {
		if err := registry.LoadFile(*profilesPath); err != nil {
			fmt.Println("load profiles:", err)
			os.Exit(1)
		}
	}

	sampleRate := *rate
	scaleFactor := *scale
	if *profileName != "" {
		profile, ok := registry.Lookup(*profileName)
		if !ok {
			fmt.Printf("unknown profile %q (known: %v)\n", *profileName, registry.Names())
			os.Exit(1)
		}
		if sampleRate == 0 {
			sampleRate = profile.SampleRate
		}
		if scaleFactor == 0 {
			scaleFactor = profile.ScaleFactor
		}
	}
	if sampleRate <= 0 || scaleFactor <= 0 {
		fmt.Println("required: --profile, or both --rate and --scale")
		os.Exit(1)
	}

	var metrics *common.Metrics
	if *metricsFlag || *progressFlag {
		metrics = common.NewMetrics()
	}

	reader, err := gt3x.NewReader(*in, gt3x.Options{
		MaxSamples:  *maxSamples,
		ScaleFactor: scaleFactor,
		SampleRate:  sampleRate,
		Verbose:     *verbose,
		Debug:       *debug,
	})
	if err != nil {
		fmt.Println("open:", err)
		os.Exit(1)
	}
	defer reader.Close()
	if metrics != nil {
		reader.SetMetrics(metrics)
		metrics.Start()
	}
	var stopProgress func()
	if metrics != nil && *progressFlag {
		stopProgress = common.StartProgressPrinter(os.Stderr, metrics, 500*time.Millisecond)
	}
	result, err := reader.Decode()
	if stopProgress != nil {
		stopProgress()
	}
	if metrics != nil {
		metrics.Stop()
	}
	if err != nil {
		fmt.Println("decode:", err)
		os.Exit(1)
	}

	if err := writeCSV(*out, result); err != nil {
		fmt.Println("write csv:", err)
		os.Exit(1)
	}
	fmt.Printf("samples=%d start_time=%d sample_rate=%d -> %s\n",
		len(result.Samples), result.StartTime, result.SampleRate, *out)

	if *reportJSON != "" || *reportPDF != "" {
		summary, err := report.Build(*in, result)
		if err != nil {
			fmt.Println("build report:", err)
			os.Exit(1)
		}
		if *reportJSON != "" {
			if err := report.SaveJSON(summary, *reportJSON); err != nil {
				fmt.Println("write report json:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", *reportJSON)
		}
		if *reportPDF != "" {
			if err := report.SavePDF(summary, *reportPDF); err != nil {
				fmt.Println("write report pdf:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", *reportPDF)
		}
	}

	if metrics != nil && *metricsFlag {
		snap := metrics.Snapshot()
		mbPerSec := snap.ThroughputBytesPerSecond() / 1_000_000
		fmt.Printf("Metrics: duration=%s records=%d samples=%d desyncs=%d processed=%s throughput=%.2f MB/s\n",
			snap.Duration.Round(10*time.Millisecond),
			snap.Records,
			snap.Samples,
			snap.Desyncs,
			common.FormatBytes(snap.Bytes),
			mbPerSec,
		)
	}
}

func writeCSV(path string, result *gt3x.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"X", "Y", "Z", "timestamp"}); err != nil {
		return err
	}
	row := make([]string, 4)
	for i := range result.Samples {
		for j := 0; j < 3; j++ {
			row[j] = strconv.FormatFloat(result.Samples[i][j], 'f', -1, 64)
		}
		row[3] = strconv.FormatInt(result.Timestamps[i], 10)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func scanCmd(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	in := fs.String("in", "", "input log.bin")
	logDir := fs.String("log-dir", "", "rotate warnings into this directory instead of stderr")
	fs.Parse(args)

	if *in == "" {
		fmt.Println("required: --in")
		os.Exit(1)
	}
	setupLogDir(*logDir)

	summary, err := gt3x.ScanFile(*in)
	if err != nil {
		fmt.Println("scan:", err)
		os.Exit(1)
	}

	types := make([]gt3x.RecordType, 0, len(summary.ByType))
	for t := range summary.ByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCOUNT")
	for _, t := range types {
		fmt.Fprintf(w, "%s\t%d\n", t, summary.ByType[t])
	}
	w.Flush()

	fmt.Printf("records=%d expected_samples=%d desyncs=%d start_time=%d size=%s\n",
		summary.Records, summary.ExpectedSamples, summary.Desyncs, summary.StartTime,
		common.FormatBytes(summary.Bytes))
}

func reportCmd(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	summaryPath := fs.String("summary", "", "decode summary JSON")
	pdfPath := fs.String("pdf", "", "output report PDF")
	fs.Parse(args)

	if *summaryPath == "" || *pdfPath == "" {
		fmt.Println("required: --summary, --pdf")
		os.Exit(1)
	}
	summary, err := report.LoadJSON(*summaryPath)
	if err != nil {
		fmt.Println("load summary:", err)
		os.Exit(1)
	}
	if err := report.SavePDF(summary, *pdfPath); err != nil {
		fmt.Println("write pdf:", err)
		os.Exit(1)
	}
	fmt.Println("Wrote PDF:", *pdfPath)
}
