package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/seitarof/gometa/internal/report"
)

// ParseArgs parses command line arguments into Config.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	var classesRaw, membersRaw, ignoreMembersRaw string

	fs := pflag.NewFlagSet("metainspect", pflag.ContinueOnError)
	fs.StringVarP(&cfg.Module, "module", "m", "demo", "module to load")
	fs.StringVarP(&classesRaw, "class", "c", "", "comma-separated class names to describe (default all)")
	fs.StringVar(&membersRaw, "members", "", "comma-separated member names to include")
	fs.StringVar(&ignoreMembersRaw, "ignore-members", "", "comma-separated member names to skip")
	fs.StringVarP(&cfg.Format, "format", "f", "text", "report format: text, json, yaml or toml")
	fs.StringVarP(&cfg.Filename, "output", "o", "", "output file name (default stdout)")
	fs.StringVarP(&cfg.Script, "script", "s", "", "run a yaml or toml call script instead of reporting")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFile, "log-file", "", "also write JSON logs to this file")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable colored text output")
	fs.BoolVarP(&cfg.ListModules, "list", "l", false, "list available modules")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ShowVersion || cfg.ListModules {
		return cfg, nil
	}

	if strings.TrimSpace(cfg.Module) == "" {
		return nil, fmt.Errorf("--module is required")
	}
	if _, err := report.NewFormatter(cfg.Format, true); err != nil {
		return nil, fmt.Errorf("--format: %w", err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg.Classes = splitCommaList(classesRaw)
	cfg.Members = splitCommaList(membersRaw)
	cfg.IgnoreMembers = splitCommaList(ignoreMembersRaw)
	return cfg, nil
}

func splitCommaList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
