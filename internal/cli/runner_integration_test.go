package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seitarof/gometa/internal/catalog"
	"github.com/seitarof/gometa/internal/matcher"
	"github.com/seitarof/gometa/internal/report"
	"github.com/seitarof/gometa/pkg/metatype"
)

func newIntegrationRunner(t testing.TB, format string, out *bytes.Buffer) Runner {
	t.Helper()
	f, err := report.NewFormatter(format, true)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	return NewRunner(
		catalog.New(catalog.WithIdentities(metatype.NewIdentityRegistry())),
		matcher.NewClassMatcher(),
		matcher.NewMemberMatcher(),
		report.New(f, report.NewWriter(out)),
		nil,
		out,
	)
}

func TestRunner_Run_TextReportOfDiamond(t *testing.T) {
	var out bytes.Buffer
	runner := newIntegrationRunner(t, "text", &out)

	cfg := &Config{Module: "demo", Classes: []string{"duck"}, Members: []string{"name", "quack"}}
	if err := runner.Run(cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	checks := []string{
		"Duck : Walker, Swimmer",
		"name",
		"quack(",
	}
	for _, check := range checks {
		if !strings.Contains(got, check) {
			t.Fatalf("report does not contain %q\n%s", check, got)
		}
	}
	if strings.Contains(got, "TestObject") {
		t.Fatalf("report should only describe Duck\n%s", got)
	}
}

func TestRunner_Run_JSONReportToFile(t *testing.T) {
	var out bytes.Buffer
	runner := newIntegrationRunner(t, "json", &out)
	path := filepath.Join(t.TempDir(), "report.json")

	cfg := &Config{Module: "demo", Classes: []string{"TestObject"}, Filename: path}
	if err := runner.Run(cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var rep report.Report
	if err := json.Unmarshal(content, &rep); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, content)
	}
	if rep.Module != "demo" || len(rep.Classes) != 1 {
		t.Fatalf("unexpected report: %#v", rep)
	}
	cls := rep.Classes[0]
	if !cls.Creatable || len(cls.Annotations) != 1 || cls.Annotations[0].Name != "attribute" {
		t.Fatalf("unexpected class report: %#v", cls)
	}
	overloads := 0
	for _, m := range cls.Members {
		if m.Name == "methodOverload" {
			overloads++
		}
	}
	if overloads != 5 {
		t.Fatalf("methodOverload members = %d, want 5", overloads)
	}
}

func TestRunner_Run_Script(t *testing.T) {
	const data = `
steps:
  - op: new
    class: TestObject
    args: [40]
    as: obj
  - op: call
    object: obj
    member: add
    args: [2]
    expect: 42
`
	path := filepath.Join(t.TempDir(), "calls.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var out bytes.Buffer
	runner := newIntegrationRunner(t, "text", &out)
	if err := runner.Run(&Config{Module: "demo", Script: path}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "2\tcall\tobj.add\t42") {
		t.Fatalf("unexpected script output %q", out.String())
	}
}

func TestRunner_Run_UnknownModule(t *testing.T) {
	var out bytes.Buffer
	runner := newIntegrationRunner(t, "text", &out)
	if err := runner.Run(&Config{Module: "missing"}); err == nil {
		t.Fatal("expected error, got nil")
	}
}
