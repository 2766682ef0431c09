package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/infrastructure/ml"
	"github.com/bibbank/credit-risk/pkg/observability"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"

	// offlineTenant stamps assessments that are never persisted.
	offlineTenant = "offline"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output format [json, yaml]",
		Value:   formatJSON,
	}

	modelDirFlag = &cli.StringFlag{
		Name:    "model-dir",
		Usage:   "Directory holding manifest.yaml; empty scores with the rule-based fallback",
		Sources: cli.EnvVars("MODEL_DIR"),
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level [debug, info, warn, error]",
		Value:   "warn",
		Sources: cli.EnvVars("LOG_LEVEL"),
	}
)

// app carries state shared by every subcommand.
type app struct {
	out    io.Writer
	logger *slog.Logger
	format string
	models port.ModelProvider
	closer io.Closer
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	a := &app{out: stdout}

	return &cli.Command{
		Name:    "riskctl",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Usage:   "Offline credit-risk scoring and NPA classification",
		Flags: []cli.Flag{
			outputFlag,
			modelDirFlag,
			logLevelFlag,
		},
		Commands: []*cli.Command{
			a.assessCmd(),
			a.quoteCmd(),
			a.featuresCmd(),
			a.npaCmd(),
			a.modelCmd(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			a.logger = observability.InitLogger(observability.LogConfig{
				Level:  cmd.String(logLevelFlag.Name),
				Format: "text",
				Output: stderr,
			})

			switch f := strings.ToLower(cmd.String(outputFlag.Name)); f {
			case formatJSON:
				a.format = formatJSON
			case formatYAML, "yml":
				a.format = formatYAML
			default:
				return ctx, fmt.Errorf("unsupported output format %q", f)
			}

			if dir := cmd.String(modelDirFlag.Name); dir != "" {
				cache := ml.NewModelCache(ml.DirLoader(dir), a.logger)
				a.models = cache
				a.closer = cache
			}
			return ctx, nil
		},
		After: func(context.Context, *cli.Command) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
}

func (a *app) encode(v any) error {
	if a.format == formatYAML {
		enc := yaml.NewEncoder(a.out)
		defer enc.Close()
		return enc.Encode(v)
	}
	e := json.NewEncoder(a.out)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
