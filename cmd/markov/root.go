package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/CTAG07/markovchain/pkg/markov"
	"github.com/CTAG07/markovchain/pkg/store"
	"github.com/CTAG07/markovchain/pkg/textchain"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	backend    string
	path       string
	model      string
	codec      string
	order      int
	seed       uint64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "markov",
		Short: "Train and sample n-gram Markov chains over text",
		Long: `markov - train n-gram Markov chains on text and generate from them.

The chain is loaded from the configured store before each command and saved
back after commands that change it. Stores:
  file    one JSON or msgpack file (--path, --codec)
  sqlite  named models in a SQLite database (--path, --model)
  badger  a named chain in a BadgerDB directory (--path, --model)

Examples:
  markov train corpus.txt
  markov generate --steps 20 The
  markov sentences --count 2 --seed 7 Once upon
  markov --backend sqlite --path ./data/markov.db models`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "./markov.json", "path to the JSON config file")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&opts.backend, "backend", "", "store backend: file, sqlite, badger")
	f.StringVar(&opts.path, "path", "", "store path (file, database or directory)")
	f.StringVar(&opts.model, "model", "", "model name for the sqlite and badger backends")
	f.StringVar(&opts.codec, "codec", "", "encoding for the file and badger backends: json, msgpack")
	f.IntVar(&opts.order, "order", 0, "n-gram order for a new chain")
	f.Uint64Var(&opts.seed, "seed", 0, "seed for a deterministic random source (0 = unseeded)")

	cmd.AddCommand(
		newTrainCmd(opts),
		newGenerateCmd(opts),
		newSentencesCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newStatsCmd(opts),
		newModelsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// resolveConfig loads the config file and applies any flags set on cmd.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (*Config, error) {
	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("backend") {
		cfg.Store.Backend = opts.backend
	}
	if flags.Changed("path") {
		cfg.Store.Path = opts.path
	}
	if flags.Changed("model") {
		cfg.Store.Model = opts.model
	}
	if flags.Changed("codec") {
		cfg.Store.Codec = opts.codec
	}
	if flags.Changed("order") {
		cfg.Order = opts.order
	}
	return cfg, nil
}

// app is the state shared by one command invocation: the loaded chain, its
// text adapter and whatever resources the store holds open.
type app struct {
	config   *Config
	logger   *slog.Logger
	chain    *markov.Chain
	text     *textchain.TextChain
	sqlStore *store.SQLStore
	closers  []func() error
}

// openApp resolves configuration, opens the store and loads the chain from
// it. A store with nothing saved yet yields an empty chain.
func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	a := &app{config: cfg, logger: logger}

	persistence, err := a.openStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	chainOpts := []markov.Option{
		markov.WithPersistence(persistence),
		markov.WithLogger(logger),
	}
	if opts.seed != 0 {
		chainOpts = append(chainOpts, markov.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
	}
	a.chain = markov.New(cfg.Order, chainOpts...)

	tool, err := newTextTool(cfg.Text)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.text = textchain.New(a.chain, tool)

	if err = a.chain.Load(cmd.Context()); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.Close()
			return nil, fmt.Errorf("failed to load chain: %w", err)
		}
		logger.Info("No stored chain found, starting empty",
			slog.String("backend", cfg.Store.Backend),
			slog.String("path", cfg.Store.Path),
			slog.Int("order", a.chain.Order()),
		)
	}
	return a, nil
}

// openStore builds the persistence backend named in the config.
func (a *app) openStore() (markov.Persistence, error) {
	sc := a.config.Store
	codec, err := store.CodecByName(sc.Codec)
	if err != nil {
		return nil, err
	}

	switch sc.Backend {
	case backendFile, "":
		fs := store.NewFileStore(sc.Path, codec)
		fs.SetLogger(a.logger)
		return fs, nil

	case backendSQLite:
		db, err := initDB(sc.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err = store.SetupSchema(db); err != nil {
			return nil, fmt.Errorf("failed to setup markov schema: %w", err)
		}
		s, err := store.NewSQLStore(db, sc.Model)
		if err != nil {
			return nil, fmt.Errorf("error creating sql store: %w", err)
		}
		s.SetLogger(a.logger)
		a.closers = append(a.closers, func() error { s.Close(); return nil })
		a.sqlStore = s
		return s, nil

	case backendBadger:
		s, err := store.NewBadgerStore(store.BadgerOptions{
			Dir:    sc.Path,
			Name:   sc.Model,
			Codec:  codec,
			Logger: a.logger,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend '%s'", sc.Backend)
	}
}

// Close releases store resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("Failed to close store resource", "error", err)
		}
	}
	a.closers = nil
}

// newTextTool builds a text tool from the config, validating the separator
// pattern before it is compiled.
func newTextTool(tc *TextConfig) (*textchain.TextTool, error) {
	var opts []textchain.Option
	if tc.SeparatorRegex != "" {
		if _, err := regexp.Compile(tc.SeparatorRegex); err != nil {
			return nil, fmt.Errorf("invalid separator_regex: %w", err)
		}
		opts = append(opts, textchain.WithSeparatorRegex(tc.SeparatorRegex))
	}
	if tc.SentenceSuffix != "" {
		opts = append(opts, textchain.WithSentenceSuffix(tc.SentenceSuffix))
	}
	return textchain.NewTextTool(opts...), nil
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(a *app, out io.Writer) error) error {
	a, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a, cmd.OutOrStdout())
}
