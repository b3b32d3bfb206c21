package cli

import "testing"

func TestParseArgs_Success(t *testing.T) {
	cfg, err := ParseArgs([]string{
		"--class", "TestObject, Duck",
		"--members", "value,methodOverload",
		"--ignore-members", " add ",
		"-f", "json",
		"-o", "report.json",
		"--no-color",
	})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Module != "demo" {
		t.Fatalf("module = %q, want demo", cfg.Module)
	}
	if len(cfg.Classes) != 2 || cfg.Classes[1] != "Duck" {
		t.Fatalf("unexpected classes: %#v", cfg.Classes)
	}
	if len(cfg.Members) != 2 || len(cfg.IgnoreMembers) != 1 || cfg.IgnoreMembers[0] != "add" {
		t.Fatalf("unexpected members: %#v / %#v", cfg.Members, cfg.IgnoreMembers)
	}
	if cfg.Format != "json" || cfg.OutputFilename() != "report.json" || !cfg.NoColor {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q, want info", cfg.LogLevel)
	}
}

func TestParseArgs_Rejects(t *testing.T) {
	tests := map[string][]string{
		"empty module":   {"--module", " "},
		"unknown format": {"--format", "xml"},
		"unknown flag":   {"--src-type", "User"},
		"positional":     {"TestObject"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseArgs(args); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestParseArgs_ShortCircuits(t *testing.T) {
	cfg, err := ParseArgs([]string{"--version", "--format", "xml"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if !cfg.ShowVersion {
		t.Fatal("expected ShowVersion")
	}

	cfg, err = ParseArgs([]string{"-l"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if !cfg.ListModules {
		t.Fatal("expected ListModules")
	}
}

func TestSplitCommaList(t *testing.T) {
	got := splitCommaList(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("splitCommaList() = %#v", got)
	}
	if splitCommaList("  ") != nil {
		t.Fatal("expected nil for blank input")
	}
}
