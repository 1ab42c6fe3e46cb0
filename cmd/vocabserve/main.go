// Copyright 2025 The VocabServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the vocabulary matching server and CLI [DBG] application.

VocabServe resolves free-text queries against two closed vocabularies --
predicates and contexts -- and returns ranked, scored candidates. Matching
runs three strategies per query (exact, prefix, fuzzy), deduplicates the
results per value, and ranks them deterministically.

The server mode speaks MessagePack IPC over stdin/stdout for integration
with host processes. Vocabularies are swapped atomically at runtime through
the "rebuild" op, so searches in flight keep reading a consistent index.

# Usage

Start the server with default settings:

	vocabserve

Use a custom data directory and enable debug mode:

	vocabserve -data /path/to/vocab -d

Run in CLI mode for interactive testing:

	vocabserve -c -limit 10 -min-score 0.5

The data directory may contain predicates.txt and contexts.txt, one term per
line ('#' lines are comments). When neither file exists the engine starts
empty and waits for a "rebuild" request over IPC.

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	max_limit = 64
	max_query_len = 120
	enable_filter = false

	[engine]
	min_score = 0.6
	max_results = 20
	cache_size = 512

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

Requests and responses are msgpack maps with short field names. A search:

	{"id": "req1", "op": "search", "q": "depl", "v": "predicates", "l": 20}

returns scored candidates with strategy tags:

	{"id": "req1", "ok": true, "r": [{"w": "deploy", "s": 0.667, "y": "prefix"}], "c": 1, "t": 145}

A rebuild swaps in fresh vocabularies atomically:

	{"id": "rb1", "op": "rebuild", "p": ["deploy", ...], "c": ["prod", ...]}

and answers with entry counts plus an order-independent content hash that
clients can use to detect vocabulary drift.

# Command Line Flags

	-data string
	    Directory containing vocabulary text files (default "data/")
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of matches to return (default from config)
	-min-score float
	    Minimum score threshold for fuzzy candidates
	-vocab string
	    Vocabulary the CLI starts on: "predicates" or "contexts"
	-no-filter
	    Disable input filtering for debugging
	-config string
	    Custom config file path

The application resolves data and config paths relative to the executable
location, supporting both development and production deployments.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/vocabserve/internal/cli"
	"github.com/bastiangx/vocabserve/internal/utils"
	"github.com/bastiangx/vocabserve/pkg/config"
	"github.com/bastiangx/vocabserve/pkg/dictionary"
	"github.com/bastiangx/vocabserve/pkg/engine"
	"github.com/bastiangx/vocabserve/pkg/server"
)

const (
	Version = "0.3.0"
	AppName = "vocabserve"
	gh      = "https://github.com/bastiangx/vocabserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the config, engine, loader and the chosen frontend together.
// It does not implement matching logic and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "data/", "Directory containing vocabulary text files")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of matches to return")
	minScore := flag.Float64("min-score", defaultConfig.CLI.DefaultMinScore, "Minimum score threshold (0 < s <= 1)")
	vocabName := flag.String("vocab", defaultConfig.CLI.DefaultVocab, "Vocabulary for CLI mode: predicates or contexts")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - passes raw queries straight to the engine")
	configPath := flag.String("config", "", "Custom config file path")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		// a config sitting next to the executable wins over the user config dir
		if p, perr := pathResolver.GetConfigPath("config.toml"); perr == nil && utils.FileExists(p) {
			cfgPath = p
		}
	}
	appConfig, activePath, err := config.LoadConfigWithPriority(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", activePath)

	resolvedDataDir, err := pathResolver.GetDataDir(*dataDir)
	if err != nil {
		log.Fatalf("Failed to resolve data dir: (%v)", err)
	}
	log.Debugf("Using data dir at: %s", resolvedDataDir)

	eng := engine.New(engine.Options{
		MinScore:   appConfig.Engine.MinScore,
		MaxResults: appConfig.Engine.MaxResults,
		CacheSize:  appConfig.Engine.CacheSize,
	})

	loader := dictionary.NewLoader(resolvedDataDir, 0)
	if loader.HasFiles() {
		predicates, contexts, err := loader.LoadVocabulary()
		if err != nil {
			log.Fatalf("Failed to load vocabulary files: %v", err)
		}
		result, err := eng.Rebuild(predicates, contexts)
		if err != nil {
			log.Fatalf("Failed to build vocabulary index: %v", err)
		}
		log.Debugf("Index built: %d predicates, %d contexts, hash=%s",
			result.PredicateCount, result.ContextCount, result.ContentHash)
	} else {
		log.Warn("No vocabulary files found, starting empty. Send a rebuild request to load terms.")
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		vt, err := engine.ParseVocabularyType(*vocabName)
		if err != nil {
			log.Fatalf("Invalid -vocab value %q: use predicates or contexts", *vocabName)
		}
		log.Debug("Input info:",
			"vocab", vt,
			"limit", *limit,
			"minScore", *minScore,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(eng, vt, *limit, *minScore, *noFilter)
		inputHandler.Start()
		return
	}

	log.Debug("spawning IPC")
	srv := server.New(eng, loader, appConfig)

	showStartupInfo(resolvedDataDir, eng)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// printVersion renders the version banner.
func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ VocabServe ] Fuzzy vocabulary matching over IPC")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir string, eng *engine.Engine) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	preds, ctxs := eng.Counts()

	println("============")
	println(" VocabServe ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("data dir: ( %s )", dataDir)
	log.Infof("predicates: %d, contexts: %d", preds, ctxs)
	if eng.Ready() {
		log.Info("status: ready")
	} else {
		log.Info("status: waiting for rebuild")
	}
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
