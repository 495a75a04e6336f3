// Copyright 2025 The WildServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wildcard query server and CLI application.

WildServe loads a word list into a pair of tries, one over the words and one
over the reversed words, and answers patterns holding a single '*':

	hel*    words starting with "hel"
	*lp     words ending with "lp"
	h*p     words starting with "h" and ending with "p"

It can operate as a MessagePack IPC server for integration with other
programs, or as a CLI application for interactive use.

# Usage

Start the server over a word list:

	wildserve -words /usr/share/dict/words

Run in CLI mode, sorted and capped at 20 results:

	wildserve -words words.txt.gz -c -sorted -limit 20

Print index statistics and exit:

	wildserve -words words.br -backend array -stats

Word lists hold one word per line, either plain text, gzip or brotli.

# Configuration

Runtime configuration is read from a TOML file, created with defaults when
missing. Flags set on the command line win over the file:

	[index]
	backend = "ternary"
	shuffle = true
	seed = 0
	bloom_fp_rate = 0.01

	[query]
	cost_factor = 2
	max_results = 0
	sorted = false

	[server]
	max_limit = 1000
	max_pattern = 256

	[cli]
	default_limit = 0
	prompt = "enter query:"

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see package
server for the message layout:

	{"id": "q1", "q": "h*p", "l": 20}
	{"id": "q1", "w": ["help"], "c": 1, "x": false, "t": 9}

# Command Line Flags

	-words string
	    Word list to load (plain, .gz or .br)
	-backend string
	    Trie backend: ternary, array, hash, btree, patricia
	-c  Run CLI instead of the server
	-config string
	    Path to a custom config file
	-d  Toggle debug mode
	-limit int
	    Maximum number of results per query (0 for all)
	-sorted
	    Sort results lexicographically
	-cost int
	    Cost factor for picking the driving trie of h*p queries
	-seed int
	    Seed for shuffling the word list before building (0 for random)
	-no-shuffle
	    Learn words in file order
	-bloom float
	    Bloom filter false-positive rate for recognize (0 disables)
	-stats
	    Print index statistics and exit
	-rebuild-config
	    Rewrite the default config file and exit
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/bastiangx/wildserve/internal/cli"
	"github.com/bastiangx/wildserve/internal/logger"
	"github.com/bastiangx/wildserve/internal/utils"
	"github.com/bastiangx/wildserve/pkg/config"
	"github.com/bastiangx/wildserve/pkg/dictionary"
	"github.com/bastiangx/wildserve/pkg/index"
	"github.com/bastiangx/wildserve/pkg/query"
	"github.com/bastiangx/wildserve/pkg/server"
	"github.com/bastiangx/wildserve/pkg/trie"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wildserve"
	gh      = "https://github.com/bastiangx/wildserve"
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

// main wires the packages together and only manages the flow.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	wordsPath := flag.String("words", "", "Word list to load (plain, .gz or .br)")
	backend := flag.String("backend", defaults.Index.Backend, fmt.Sprintf("Trie backend %v", trie.Kinds()))
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI instead of the msgpack server")
	configPath := flag.String("config", "", "Path to a custom config file")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Maximum number of results per query (0 for all)")
	sorted := flag.Bool("sorted", defaults.Query.Sorted, "Sort results lexicographically")
	costFactor := flag.Int("cost", defaults.Query.CostFactor, "Cost factor for picking the driving trie of h*p queries")
	seed := flag.Int64("seed", defaults.Index.Seed, "Seed for shuffling the word list before building (0 for random)")
	noShuffle := flag.Bool("no-shuffle", !defaults.Index.Shuffle, "Learn words in file order")
	bloomRate := flag.Float64("bloom", defaults.Index.BloomFPRate, "Bloom filter false-positive rate for recognize (0 disables)")
	showStats := flag.Bool("stats", false, "Print index statistics and exit")
	rebuildConfig := flag.Bool("rebuild-config", false, "Rewrite the default config file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup("", *debugMode)
	if !*debugMode {
		log.SetLevel(log.WarnLevel)
	}

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Printf("Config rebuilt at %s", config.GetActiveConfigPath(""))
		return
	}

	cfg, loadedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(loadedPath))

	// explicit flags win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Index.Backend = *backend
		case "limit":
			cfg.CLI.DefaultLimit = *limit
			cfg.Query.MaxResults = *limit
		case "sorted":
			cfg.Query.Sorted = *sorted
		case "cost":
			cfg.Query.CostFactor = *costFactor
		case "seed":
			cfg.Index.Seed = *seed
		case "no-shuffle":
			cfg.Index.Shuffle = !*noShuffle
		case "bloom":
			cfg.Index.BloomFPRate = *bloomRate
		}
	})

	if *wordsPath == "" && flag.NArg() > 0 {
		*wordsPath = flag.Arg(0)
	}
	if *wordsPath == "" {
		log.Fatal("No word list given, use -words <file>")
	}

	idx, err := buildIndex(*wordsPath, cfg)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}
	planner := query.NewPlanner(idx, query.WithCostFactor(cfg.Query.CostFactor))

	if *showStats {
		printStats(os.Stdout, idx)
		return
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"limit", cfg.CLI.DefaultLimit,
			"sorted", cfg.Query.Sorted,
			"costFactor", planner.CostFactor())

		inputHandler := cli.NewInputHandler(planner, os.Stdin, os.Stdout, cfg.CLI.DefaultLimit, cfg.Query.Sorted)
		inputHandler.SetPrompt(cfg.CLI.Prompt)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(idx, planner, cfg)
	showStartupInfo(*wordsPath, idx)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// buildIndex loads the word list and builds a frozen index from it.
func buildIndex(path string, cfg *config.Config) (*index.Index, error) {
	kind, err := trie.ParseKind(cfg.Index.Backend)
	if err != nil {
		return nil, err
	}
	words, stats, err := dictionary.LoadWords(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Read %s lines from %s", utils.FormatWithCommas(stats.Lines), path)

	return index.Build(words,
		index.WithKind(kind),
		index.WithShuffle(cfg.Index.Shuffle, uint64(cfg.Index.Seed)),
		index.WithBloom(cfg.Index.BloomFPRate),
	)
}

// printStats writes the size report shown by -stats.
func printStats(w io.Writer, idx *index.Index) {
	stats := idx.Stats()
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	heap := func(n int) string {
		if n < 0 {
			return "unknown"
		}
		return utils.FormatBytes(n)
	}
	fmt.Fprintf(w, "words:         %s\n", utils.FormatWithCommas(stats.Words))
	fmt.Fprintf(w, "backend:       %s\n", stats.Kind)
	fmt.Fprintf(w, "forward trie:  %s\n", heap(stats.ForwardHeap))
	fmt.Fprintf(w, "reverse trie:  %s\n", heap(stats.ReverseHeap))
	fmt.Fprintf(w, "bloom filter:  %t\n", stats.Bloom)
	fmt.Fprintf(w, "runtime heap:  %s\n", utils.FormatBytes(int(mem.HeapAlloc)))
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ WildServe ] one star, two tries")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(wordsPath string, idx *index.Index) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("word list: ( %s )", wordsPath)
	log.Infof("index: %s words, %s backend", utils.FormatWithCommas(idx.Len()), idx.Kind())
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
