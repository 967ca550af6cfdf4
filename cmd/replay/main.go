package main

import (
	"flag"
	"fmt"
	"os"

	addon "interact-nearest/addon"
	"interact-nearest/addon/internal/diagindex"
	"interact-nearest/addon/internal/replay"
)

func main() {
	var (
		logsDir    = flag.String("logs", "Logs", "directory containing *.jsonl / *.jsonl.zst diagnostics logs")
		configPath = flag.String("config", "", "optional addon config YAML used when re-resolving")
		indexPath  = flag.String("index", "", "optional SQLite database to index invocations into")
	)
	flag.Parse()

	cfg := addon.DefaultConfig()
	if *configPath != "" {
		loaded, err := addon.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	files, err := replay.ListLogFiles(*logsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list logs:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no log files found in", *logsDir)
		os.Exit(1)
	}

	var index *diagindex.SQLiteIndex
	if *indexPath != "" {
		index, err = diagindex.Open(*indexPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open index:", err)
			os.Exit(1)
		}
		defer index.Close()
	}

	var total replay.Summary
	for _, path := range files {
		records, err := replay.ReadRecords(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}

		summary, err := replay.Verify(cfg, records)
		if err != nil {
			fmt.Fprintln(os.Stderr, "verify:", err)
			os.Exit(1)
		}

		if index != nil {
			for _, record := range records {
				if err := index.InsertRecord(record); err != nil {
					fmt.Fprintln(os.Stderr, "index:", err)
					os.Exit(1)
				}
			}
		}

		fmt.Printf("%s: records=%d checked=%d skipped=%d mismatches=%d\n",
			path, summary.Records, summary.Checked, summary.Skipped, len(summary.Mismatches))
		total.Records += summary.Records
		total.Checked += summary.Checked
		total.Skipped += summary.Skipped
		total.Mismatches = append(total.Mismatches, summary.Mismatches...)
	}

	for _, mismatch := range total.Mismatches {
		fmt.Fprintln(os.Stderr, "MISMATCH", mismatch)
	}
	fmt.Printf("replay done: records=%d checked=%d skipped=%d mismatches=%d\n",
		total.Records, total.Checked, total.Skipped, len(total.Mismatches))
	if len(total.Mismatches) > 0 {
		os.Exit(1)
	}
}
