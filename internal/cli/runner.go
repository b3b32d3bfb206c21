package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/seitarof/gometa/internal/catalog"
	"github.com/seitarof/gometa/internal/matcher"
	"github.com/seitarof/gometa/internal/report"
	"github.com/seitarof/gometa/internal/script"
	"github.com/seitarof/gometa/pkg/service"
)

// Runner orchestrates catalog/matcher/report/script layers.
type Runner interface {
	Run(cfg *Config) error
}

type runnerImpl struct {
	catalog     catalog.Catalog
	classMatch  matcher.ClassMatcher
	memberMatch matcher.MemberMatcher
	reporter    report.Reporter
	logger      *zap.Logger
	out         io.Writer
}

// NewRunner creates a default runner implementation. Module listings and script
// results go to out.
func NewRunner(
	c catalog.Catalog,
	cm matcher.ClassMatcher,
	mm matcher.MemberMatcher,
	rep report.Reporter,
	logger *zap.Logger,
	out io.Writer,
) Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &runnerImpl{
		catalog:     c,
		classMatch:  cm,
		memberMatch: mm,
		reporter:    rep,
		logger:      logger,
		out:         out,
	}
}

// Run executes a single inspection.
func (r *runnerImpl) Run(cfg *Config) error {
	if cfg.ListModules {
		for _, name := range r.catalog.Names() {
			if _, err := fmt.Fprintln(r.out, name); err != nil {
				return err
			}
		}
		return nil
	}

	m, err := r.catalog.Load(cfg.Module)
	if err != nil {
		return fmt.Errorf("load module: %w", err)
	}
	svc := service.New(service.WithLogger(r.logger))
	svc.AddModule(m)
	r.logger.Debug("module loaded", zap.String("module", m.Name()))

	if cfg.Script != "" {
		return r.runScript(svc, cfg.Script)
	}

	classes, missing := r.classMatch.MatchClasses(svc, cfg.Classes)
	for _, name := range missing {
		r.logger.Warn("class not found", zap.String("class", name), zap.String("module", cfg.Module))
	}
	if len(classes) == 0 {
		return fmt.Errorf("no matching classes in module %q", cfg.Module)
	}

	rep := report.Report{Module: m.Name()}
	for _, cls := range classes {
		members := r.memberMatch.Match(cls, cfg.Members, cfg.IgnoreMembers)
		r.logger.Debug("describe class",
			zap.String("class", cls.QualifiedName()),
			zap.Int("members", len(members)),
		)
		rep.Classes = append(rep.Classes, report.Describe(cls, members))
	}
	return r.reporter.Report(cfg, rep)
}

func (r *runnerImpl) runScript(svc service.Service, path string) error {
	s, err := script.Load(path)
	if err != nil {
		return err
	}
	results, err := script.NewExecutor(svc, r.logger).Run(s)
	for _, res := range results {
		if _, werr := fmt.Fprintf(r.out, "%d\t%s\t%s\t%s\n", res.Step, res.Op, res.Target, res.Value); werr != nil {
			return werr
		}
	}
	if err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}
