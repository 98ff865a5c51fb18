// Package main provides the CLI entrypoint for facade-generator.
//
// facade-generator reads foreign Go packages and generates a facade package:
//   - capability interfaces and adapters for in-scope structs and interfaces
//   - typed collection views backed by the adapt runtime
//   - mirrored enumerations and callback types
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"facade-generator/internal/config"
	"facade-generator/internal/logging"
	"facade-generator/internal/manifest"
	"facade-generator/internal/pipeline"
	"facade-generator/internal/sink"
)

const version = "0.3.0"

type CLI struct {
	Version  kong.VersionFlag `short:"V" help:"Show version information"`
	Verbose  bool             `short:"v" help:"Log every classified and emitted descriptor"`
	JSONLogs bool             `name:"json-logs" help:"Write logs as JSON"`

	Generate GenerateCmd `cmd:"" help:"Generate the facade package"`
	Inspect  InspectCmd  `cmd:"" help:"Classify the roots and print the descriptor graph without writing"`
}

type GenerateCmd struct {
	Config string `short:"c" default:"facade.yaml" type:"existingfile" help:"Configuration file"`
	Output string `short:"o" help:"Output directory (overrides the configuration)"`
	DryRun bool   `name:"dry-run" help:"Build everything but only list the files that would be written"`
}

type InspectCmd struct {
	Config string `short:"c" default:"facade.yaml" type:"existingfile" help:"Configuration file"`
	Dump   bool   `help:"Dump the manifest as Go values instead of YAML"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("facade-generator"),
		kong.Description("Generate facades over foreign Go packages."),
		kong.Vars{"version": version},
	)

	logger, err := logging.New(cli.Verbose, cli.JSONLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch kctx.Command() {
	case "generate":
		err = runGenerate(ctx, cli.Generate, logger, os.Stdout)
	case "inspect":
		err = runInspect(ctx, cli.Inspect, logger, os.Stdout)
	default:
		err = kctx.PrintUsage(false)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, cmd GenerateCmd, logger *zap.Logger, stdout io.Writer) error {
	c, err := config.LoadFile(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Output != "" {
		c.Output = cmd.Output
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cmd.DryRun {
		opts = append(opts, pipeline.WithOutput(sink.NewMemory()))
	}

	p, err := pipeline.New(c, opts...)
	if err != nil {
		return err
	}

	report, err := p.Generate(ctx)
	printDiagnostics(stdout, report)
	if err != nil {
		return err
	}

	for _, w := range report.Written {
		fmt.Fprintf(stdout, "%s\t%s\n", w.Path, w.FullName)
	}
	if cmd.DryRun {
		fmt.Fprintf(stdout, "dry run: %d file(s) not written\n", len(report.Written))
	}

	return nil
}

func runInspect(ctx context.Context, cmd InspectCmd, logger *zap.Logger, stdout io.Writer) error {
	c, err := config.LoadFile(cmd.Config)
	if err != nil {
		return err
	}

	p, err := pipeline.New(c, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	report, err := p.Inspect(ctx)
	printDiagnostics(stdout, report)
	if err != nil {
		return err
	}

	if cmd.Dump {
		dumper := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(stdout, report.Manifest)

		return nil
	}

	data, err := manifest.Marshal(report.Manifest)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)

	return err
}

func printDiagnostics(w io.Writer, report *pipeline.Report) {
	for _, d := range report.Diagnostics().All() {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}
