package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boutique-crm/clientele-cli/internal/analyzer"
	"github.com/boutique-crm/clientele-cli/internal/model"
	"github.com/boutique-crm/clientele-cli/internal/resolve"
	"github.com/boutique-crm/clientele-cli/pkg/anthropic"
)

var (
	analyzeFilePath    string
	analyzeDirPath     string
	analyzePhone       string
	analyzeSource      string
	analyzeConcurrency int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract client signals from conversation transcripts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if analyzeFilePath == "" && analyzeDirPath == "" {
			return eris.New("either --file or --dir is required")
		}
		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic API key is required (CLIENTELE_ANTHROPIC_KEY)")
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate")
		}

		catalog := analyzer.DefaultCatalog()
		if cfg.Catalog.Path != "" {
			catalog, err = analyzer.LoadCatalog(cfg.Catalog.Path)
			if err != nil {
				return eris.Wrap(err, "load catalog")
			}
		}

		an := analyzer.New(
			anthropic.NewClient(cfg.Anthropic.Key),
			catalog,
			analyzer.Options{
				Model:             cfg.Anthropic.Model,
				MaxTokens:         int64(cfg.Anthropic.MaxTokens),
				Timeout:           time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second,
				RequestsPerMinute: cfg.Anthropic.RequestsPerMinute,
			},
		)

		var transcripts []transcriptFile
		if analyzeFilePath != "" {
			transcripts = append(transcripts, transcriptFile{
				path:  analyzeFilePath,
				phone: analyzePhone,
			})
		} else {
			transcripts, err = listTranscripts(analyzeDirPath)
			if err != nil {
				return err
			}
		}
		if len(transcripts) == 0 {
			zap.L().Warn("no transcripts found", zap.String("dir", analyzeDirPath))
			return nil
		}

		source := analyzeSource
		if source == "" {
			source = "transcript"
		}

		// Extraction fans out; merges run serially afterwards so concurrent
		// signals for the same client cannot race on the store.
		signals := make([]model.InteractionSignal, len(transcripts))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrencyLimit(analyzeConcurrency))
		for i, tf := range transcripts {
			g.Go(func() error {
				data, err := os.ReadFile(tf.path)
				if err != nil {
					return eris.Wrapf(err, "read transcript %s", tf.path)
				}
				signals[i] = an.Analyze(gctx, string(data), tf.phone)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		resolver := resolve.NewResolver(st)
		resolver.SetFollowUpHorizon(time.Duration(cfg.FollowUp.HorizonDays) * 24 * time.Hour)
		var created, updated, failed int
		for i, sig := range signals {
			_, isNew, err := resolver.ResolveSignal(ctx, sig, source)
			if err != nil {
				zap.L().Error("resolve signal failed",
					zap.String("transcript", transcripts[i].path),
					zap.Error(err),
				)
				failed++
				continue
			}
			if isNew {
				created++
			} else {
				updated++
			}
		}

		zap.L().Info("analysis complete",
			zap.Int("transcripts", len(transcripts)),
			zap.Int("created", created),
			zap.Int("updated", updated),
			zap.Int("failed", failed),
		)
		return nil
	},
}

type transcriptFile struct {
	path  string
	phone string
}

// listTranscripts collects .txt files from dir. The file stem is treated as
// the conversation's phone number when it contains digits, matching chat
// exports named after the counterparty.
func listTranscripts(dir string) ([]transcriptFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read transcript dir %s", dir)
	}

	var files []transcriptFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		files = append(files, transcriptFile{
			path:  filepath.Join(dir, e.Name()),
			phone: phoneFromStem(stem),
		})
	}
	return files, nil
}

// concurrencyLimit clamps the --concurrency flag; errgroup.SetLimit
// blocks forever on a zero limit.
func concurrencyLimit(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func phoneFromStem(stem string) string {
	digits := 0
	for _, r := range stem {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits >= 7 {
		return stem
	}
	return ""
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFilePath, "file", "", "path to a single transcript file")
	analyzeCmd.Flags().StringVar(&analyzeDirPath, "dir", "", "directory of .txt transcripts")
	analyzeCmd.Flags().StringVar(&analyzePhone, "phone", "", "phone number for the --file transcript")
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "", "source tag (default \"transcript\")")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 4, "concurrent transcript analyses")
	rootCmd.AddCommand(analyzeCmd)
}
