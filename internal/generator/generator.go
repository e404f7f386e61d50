// Package generator runs a whole generation: plan, execute, then record the
// project state.
package generator

import (
	"path/filepath"

	"go.uber.org/zap"

	"shireesh.com/bootgen/internal/config"
	"shireesh.com/bootgen/internal/executor"
	"shireesh.com/bootgen/internal/plan"
	"shireesh.com/bootgen/internal/sqlcheck"
	"shireesh.com/bootgen/internal/state"
	"shireesh.com/bootgen/internal/templates"
)

// Version is written to the state file of every generated project.
var Version = "dev"

type Options struct {
	// Store defaults to the built-in templates.
	Store  templates.Store
	DryRun bool
	Diff   bool
	Logger *zap.Logger
	// FS overrides the filesystem the executor writes through.
	FS executor.FS
}

func (o Options) store() templates.Store {
	if o.Store == nil {
		return templates.Embedded()
	}
	return o.Store
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Plan builds the plan for cfg without touching the filesystem.
func Plan(cfg config.Config, opts Options) (plan.Plan, error) {
	return plan.NewBuilder(opts.store(), plan.WithLogger(opts.logger())).Build(cfg)
}

// Generate writes the project for cfg under root. Nothing is written when
// the plan cannot be built. State is only recorded after every task
// succeeded.
func Generate(cfg config.Config, root string, opts Options) (executor.Report, error) {
	log := opts.logger()
	p, err := Plan(cfg, opts)
	if err != nil {
		return executor.Report{Root: root, DryRun: opts.DryRun}, err
	}

	exOpts := []executor.Option{
		executor.WithLogger(log),
		executor.WithDryRun(opts.DryRun),
		executor.WithDiff(opts.Diff),
		executor.WithCheck(plan.CheckPostgreSQL, postgresCheck(log)),
	}
	if opts.FS != nil {
		exOpts = append(exOpts, executor.WithFS(opts.FS))
	}
	rep, err := executor.New(opts.store(), exOpts...).Execute(p, cfg, root)
	if err != nil {
		return rep, err
	}
	if opts.DryRun {
		return rep, nil
	}

	if err := state.Upsert(root, map[string]string{
		state.KeyPackageName:      cfg.PackageName(),
		state.KeyPackageFolder:    filepath.ToSlash(cfg.PackageFolder()),
		state.KeyBaseName:         cfg.BaseName(),
		state.KeyGeneratorVersion: Version,
	}); err != nil {
		return rep, err
	}
	log.Info("state recorded", zap.String("file", state.Path(root)))
	return rep, nil
}

func postgresCheck(log *zap.Logger) executor.CheckFunc {
	return func(name string, content []byte) error {
		if err := sqlcheck.Postgres(name, content); err != nil {
			return err
		}
		if tables, err := sqlcheck.CreatedTables(content); err == nil {
			log.Debug("migration parsed", zap.String("dest", name), zap.Strings("tables", tables))
		}
		return nil
	}
}
