package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"askpdf/internal/config"
	"askpdf/internal/document"
	"askpdf/internal/domain"
	"askpdf/internal/logger"
	"askpdf/internal/server"
	"askpdf/internal/service"
	"askpdf/internal/tui"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	cfgPath string
	verbose bool
	topK    int
	kind    string
	addr    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "askpdf",
		Short:         "Ask questions about a PDF or text document",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(opts.verbose)
		},
	}
	root.PersistentFlags().StringVar(&opts.cfgPath, "config", "", "Path to YAML config file (optional; uses ./askpdf.yaml or ~/.config/askpdf/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print debug logs to stderr")

	root.AddCommand(newAskCmd(opts), newQueryCmd(opts), newServeCmd(opts))
	return root
}

func addRetrievalFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().IntVarP(&opts.topK, "top-k", "k", 0, "Number of chunks to return (default from config)")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "Vectorizer: term-frequency, tfidf or dense-embedding (overrides config)")
}

func newAskCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <file>",
		Short: "Load a document and ask questions interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, doc, err := loadSession(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			header := fmt.Sprintf("%s: %d pages, %d chunks", doc.Source, len(doc.Pages), doc.Chunks)
			m := tui.New(sess, header, opts.topK)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	addRetrievalFlags(cmd, opts)
	return cmd
}

func newQueryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <file> <question...>",
		Short: "Print the chunks that best answer a question",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := loadSession(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			matches, err := sess.Query(strings.Join(args[1:], " "), opts.topK)
			if err != nil {
				return err
			}
			printMatches(cmd.OutOrStdout(), matches)
			return nil
		},
	}
	addRetrievalFlags(cmd, opts)
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve document upload and query over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			sess, err := newSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			srv := server.New(server.Config{Addr: cfg.Server.Addr, BodyLimitMB: cfg.Server.BodyLimitMB}, sess)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				_ = srv.Shutdown()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "askpdf listening on %s\n", cfg.Server.Addr)
			return srv.Run()
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func loadConfig(opts *options) (*config.AppConfig, error) {
	var (
		cfg  *config.AppConfig
		path string
		err  error
	)
	if opts.cfgPath == "" {
		cfg, path, err = config.LoadDefault()
	} else {
		path = opts.cfgPath
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("config: %s", path)
	if opts.kind != "" {
		cfg.Vectorizer.Kind = opts.kind
		config.ApplyDefaults(cfg)
	}
	return cfg, nil
}

func loadSession(ctx context.Context, opts *options, path string) (*service.Session, service.Loaded, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, service.Loaded{}, err
	}
	sess, err := newSession(ctx, cfg)
	if err != nil {
		return nil, service.Loaded{}, err
	}
	pages, err := document.Load(path)
	if err != nil {
		return nil, service.Loaded{}, err
	}
	doc, err := sess.LoadDocument(filepath.Base(path), pages)
	if errors.Is(err, domain.ErrEmptyDocument) {
		return nil, service.Loaded{}, fmt.Errorf("%w (is it a scanned PDF without a text layer?)", err)
	}
	if err != nil {
		return nil, service.Loaded{}, err
	}
	return sess, doc, nil
}

func printMatches(w io.Writer, matches []domain.Match) {
	for i, m := range matches {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "#%d  chunk %d  score %.4f\n%s\n", i+1, m.Chunk.Index, m.Score, m.Chunk.Text)
	}
}
