package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/viant/afs"

	"github.com/esglex/esglex/corpus"
	"github.com/esglex/esglex/service"

	// SQL corpus source drivers.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/viant/bigquery"
	_ "modernc.org/sqlite"
)

func main() {
	startGops()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "ingest":
		ingestCmd(os.Args[2:])
	case "tokenize":
		tokenizeCmd(os.Args[2:])
	case "dump":
		dumpCmd(os.Args[2:])
	case "phrases":
		phrasesCmd(os.Args[2:])
	case "train":
		trainCmd(os.Args[2:])
	case "expand":
		expandCmd(os.Args[2:])
	case "all":
		allCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: esglex <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  ingest    Convert a directory of PDF/text reports into the tabular corpus")
	fmt.Fprintln(os.Stderr, "  tokenize  Segment, tokenize and lemmatize the corpus into chunk artifacts")
	fmt.Fprintln(os.Stderr, "  dump      Flatten chunk artifacts into one sentence-per-line corpus file")
	fmt.Fprintln(os.Stderr, "  phrases   Learn bigram/trigram merge rules over the dumped corpus")
	fmt.Fprintln(os.Stderr, "  train     Train word embeddings over the phrase-merged corpus")
	fmt.Fprintln(os.Stderr, "  expand    Expand seed words into per-category dictionaries")
	fmt.Fprintln(os.Stderr, "  all       Run tokenize through expand in order")
	fmt.Fprintln(os.Stderr, "  serve     Serve the dictionary and model over MCP")
}

type commonFlags struct {
	config   *string
	logLevel *string
	logJSON  *bool
}

func addCommonFlags(flags *flag.FlagSet) *commonFlags {
	return &commonFlags{
		config:   flags.String("config", "config.yaml", "pipeline config yaml"),
		logLevel: flags.String("log-level", "info", "log level: debug|info|warn|error"),
		logJSON:  flags.Bool("log-json", false, "emit JSON logs"),
	}
}

// newService applies logging flags and builds the pipeline service.
func (c *commonFlags) newService(ctx context.Context) *service.Service {
	initLogging(*c.logLevel, *c.logJSON)
	cfg, err := service.LoadConfig(ctx, *c.config)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	svc, err := service.New(cfg)
	if err != nil {
		log.Fatalf("service init: %v", err)
	}
	return svc
}

func initLogging(level string, asJSON bool) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	options := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, options)
	if asJSON {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	slog.SetDefault(slog.New(handler))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func ingestCmd(args []string) {
	flags := flag.NewFlagSet("ingest", flag.ExitOnError)
	common := addCommonFlags(flags)
	src := flags.String("src", "", "directory of .pdf/.txt reports (required)")
	dest := flags.String("dest", "", "output csv (default: config corpus path)")
	_ = flags.Parse(args)

	ctx, cancel := signalContext()
	defer cancel()
	svc := common.newService(ctx)
	if *src == "" {
		flags.Usage()
		os.Exit(2)
	}
	destVal := *dest
	if destVal == "" {
		destVal = svc.Config().Corpus.Path
	}
	if destVal == "" {
		log.Fatalf("ingest: -dest or corpus path required")
	}
	count, err := corpus.Ingest(ctx, afs.New(), *src, destVal)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}
	slog.Info("corpus ingested", "documents", count, "dest", destVal)
}

func tokenizeCmd(args []string) {
	flags := flag.NewFlagSet("tokenize", flag.ExitOnError)
	common := addCommonFlags(flags)
	chunkSize := flags.Int("chunk-size", 0, "documents per chunk (default from config)")
	batchSize := flags.Int("batch", 0, "documents per worker batch (default from config)")
	workers := flags.Int("workers", 0, "tokenizer workers (default from config)")
	_ = flags.Parse(args)

	ctx, cancel := signalContext()
	defer cancel()
	svc := common.newService(ctx)
	if _, err := svc.Tokenize(ctx, service.TokenizeRequest{
		ChunkSize: *chunkSize,
		BatchSize: *batchSize,
		Workers:   *workers,
	}); err != nil {
		log.Fatalf("tokenize: %v", err)
	}
}

func dumpCmd(args []string) {
	flags := flag.NewFlagSet("dump", flag.ExitOnError)
	common := addCommonFlags(flags)
	_ = flags.Parse(args)

	ctx, cancel := signalContext()
	defer cancel()
	svc := common.newService(ctx)
	if _, err := svc.Dump(ctx, service.DumpRequest{}); err != nil {
		log.Fatalf("dump: %v", err)
	}
}

func phrasesCmd(args []string) {
	flags := flag.NewFlagSet("phrases", flag.ExitOnError)
	common := addCommonFlags(flags)
	minCount := flags.Int("min-count", 0, "minimum pair frequency (default from config)")
	threshold := flags.Float64("threshold", 0, "merge significance threshold (default from config)")
	_ = flags.Parse(args)

	ctx, cancel := signalContext()
	defer cancel()
	svc := common.newService(ctx)
	if _, err := svc.DetectPhrases(ctx, service.DetectPhrasesRequest{
		MinCount:  *minCount,
		Threshold: *threshold,
	}); err != nil {
		log.Fatalf("phrases: %v", err)
	}
}

func trainCmd(args []string) {
	flags := flag.NewFlagSet("train", flag.ExitOnError)
	common := addCommonFlags(flags)
	dim := flags.Int("dim", 0, "embedding dimensionality (default from config)")
	epochs := flags.Int("epochs", 0, "training epochs (default from config)")
	_ = flags.Parse(args)

	ctx, cancel := signalContext()
	defer cancel()
	svc := common.newService(ctx)
	if _, err := svc.Train(ctx, service.TrainRequest{Dim: *dim, Epochs: *epochs}); err != nil {
		log.Fatalf("train: %v", err)
	}
}

func expandCmd(args []string) {
	flags := flag.NewFlagSet("expand", flag.ExitOnError)
	common := addCommonFlags(flags)
	seeds := flags.String("seeds", "", "seed words yaml/xlsx/xls (default from config)")
	topN := flags.Int("top-n", 0, "candidates per category (default from config)")
	_ = flags.Parse(args)

	ctx, cancel := signalContext()
	defer cancel()
	svc := common.newService(ctx)
	if _, err := svc.Expand(ctx, service.ExpandRequest{SeedsURL: *seeds, TopN: *topN}); err != nil {
		log.Fatalf("expand: %v", err)
	}
}

func allCmd(args []string) {
	flags := flag.NewFlagSet("all", flag.ExitOnError)
	common := addCommonFlags(flags)
	_ = flags.Parse(args)

	ctx, cancel := signalContext()
	defer cancel()
	svc := common.newService(ctx)
	if _, err := svc.Run(ctx); err != nil {
		log.Fatalf("all: %v", err)
	}
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}
