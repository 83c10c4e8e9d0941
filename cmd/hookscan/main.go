// hookscan reports which functions of a binary can be inline-hooked, without
// loading or running it. It reads a YAML config naming binaries and symbols,
// decodes each function prologue straight out of the object file and prints
// the patch length or the reason the function is unhookable.
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/anowalinski/minhook"
	"github.com/anowalinski/minhook/internal/symtab"
)

type config struct {
	Targets []target `yaml:"targets"`
}

type target struct {
	Binary  string   `yaml:"binary"`
	Symbols []string `yaml:"symbols"`
}

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:               "hookscan",
	Short:             "Report which functions of a binary can be inline-hooked.",
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	RunE:              run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "hookscan.yaml", "YAML file listing binaries and symbols")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if len(cfg.Targets) == 0 {
		return errors.Errorf("%s: no targets", configPath)
	}

	var g errgroup.Group
	for _, t := range cfg.Targets {
		t := t
		g.Go(func() error {
			return scanBinary(logger, t)
		})
	}
	return g.Wait()
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read config")
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WithMessagef(err, "parse %s", path)
	}
	return &cfg, nil
}

func scanBinary(logger *zap.Logger, t target) error {
	f, err := symtab.Open(t.Binary)
	if err != nil {
		return errors.WithMessage(err, t.Binary)
	}
	defer f.Close()

	log := logger.With(zap.String("binary", t.Binary), zap.Int("mode", f.Mode()))
	log.Debug("scanning", zap.Int("symbols", len(t.Symbols)), zap.Bool("pie", f.PIE()))

	for _, sym := range t.Symbols {
		code, err := f.Prologue(sym, minhook.MaxPrologue)
		if err != nil {
			log.Warn("symbol unavailable", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		n, err := minhook.PatchLength(code, f.Mode())
		if err != nil {
			log.Warn("not hookable", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		log.Info("hookable", zap.String("symbol", sym), zap.Int("patch_len", n))
	}
	return nil
}
