// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package main implements the langc command-line compiler front-end.
package main

import (
	"log"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ltime)

	cmdRoot.Flags().BoolVar(&cfg.ShowVersion, "version", false, "show version")
	cmdRoot.Flags().BoolVar(&cfg.ShowBuildInfo, "build-info", false, "show full build info")
	cmdRoot.Flags().StringVar(&cfg.HistoryPath, "history", "", "path to a SQLite session-history file")
	cmdRoot.Flags().BoolVar(&cfg.Quiet, "quiet", false, "suppress progress/summary log lines")

	cmdRoot.AddCommand(cmdVersion)

	if err := cmdRoot.Execute(); err != nil {
		log.Fatal(err)
	}
}
