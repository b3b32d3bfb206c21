package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seitarof/gometa/internal/demo"
	"github.com/seitarof/gometa/internal/report"
	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/service"
)

func TestRunner_Run_DescribesMatchedClasses(t *testing.T) {
	mod := newDemoModule(t)
	cat := &mockCatalog{module: mod}
	cm := &mockClassMatcher{names: []string{"TestObject", "Duck"}, missing: []string{"Nope"}}
	mm := &mockMemberMatcher{}
	rep := &mockReporter{}
	core, logs := observer.New(zapcore.DebugLevel)

	r := NewRunner(cat, cm, mm, rep, zap.New(core), &bytes.Buffer{})
	cfg := &Config{
		Module:        "demo",
		Classes:       []string{"TestObject", "Duck", "Nope"},
		IgnoreMembers: []string{"add"},
	}
	if err := r.Run(cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if cat.loaded != "demo" {
		t.Fatalf("loaded module = %q, want demo", cat.loaded)
	}
	if rep.callCount != 1 {
		t.Fatalf("reporter call count = %d, want 1", rep.callCount)
	}
	if rep.cfg.OutputFilename() != "" {
		t.Fatalf("config not forwarded: %#v", rep.cfg)
	}
	if len(rep.report.Classes) != 2 {
		t.Fatalf("reported classes = %d, want 2", len(rep.report.Classes))
	}
	if rep.report.Classes[0].Name != "TestObject" || rep.report.Classes[1].Name != "Duck" {
		t.Fatalf("unexpected class order: %#v", rep.report.Classes)
	}
	if mm.callCount != 2 {
		t.Fatalf("member matcher call count = %d, want 2", mm.callCount)
	}
	if len(mm.lastIgnore) != 1 || mm.lastIgnore[0] != "add" {
		t.Fatalf("ignore members not forwarded: %#v", mm.lastIgnore)
	}
	if logs.FilterMessage("class not found").Len() != 1 {
		t.Fatalf("expected a warning for the missing class, got %v", logs.All())
	}
}

func TestRunner_Run_LoadError(t *testing.T) {
	r := NewRunner(
		&mockCatalog{err: errors.New("boom")},
		&mockClassMatcher{},
		&mockMemberMatcher{},
		&mockReporter{},
		nil,
		&bytes.Buffer{},
	)

	err := r.Run(&Config{Module: "demo"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "load module") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunner_Run_NoMatchingClasses(t *testing.T) {
	rep := &mockReporter{}
	r := NewRunner(
		&mockCatalog{module: newDemoModule(t)},
		&mockClassMatcher{missing: []string{"Nope"}},
		&mockMemberMatcher{},
		rep,
		nil,
		&bytes.Buffer{},
	)

	err := r.Run(&Config{Module: "demo", Classes: []string{"Nope"}})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no matching classes") {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.callCount != 0 {
		t.Fatalf("reporter should not be called, got %d calls", rep.callCount)
	}
}

func TestRunner_Run_ListModules(t *testing.T) {
	var out bytes.Buffer
	cat := &mockCatalog{names: []string{"demo", "extra"}}
	r := NewRunner(cat, &mockClassMatcher{}, &mockMemberMatcher{}, &mockReporter{}, nil, &out)

	if err := r.Run(&Config{ListModules: true}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "demo\nextra\n" {
		t.Fatalf("listing = %q", out.String())
	}
	if cat.loaded != "" {
		t.Fatalf("listing should not load modules, loaded %q", cat.loaded)
	}
}

func TestRunner_Run_ReporterError(t *testing.T) {
	r := NewRunner(
		&mockCatalog{module: newDemoModule(t)},
		&mockClassMatcher{names: []string{"TestObject"}},
		&mockMemberMatcher{},
		&mockReporter{err: errors.New("disk full")},
		nil,
		&bytes.Buffer{},
	)
	if err := r.Run(&Config{Module: "demo"}); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newDemoModule(t testing.TB) service.Module {
	t.Helper()
	reg := metatype.NewIdentityRegistry()
	global, err := demo.Global(reg)
	if err != nil {
		t.Fatalf("demo.Global() error = %v", err)
	}
	m, err := service.NewModule(global, service.WithModuleName("demo"), service.WithModuleIdentities(reg))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	return m
}

type mockCatalog struct {
	names  []string
	module service.Module
	err    error
	loaded string
}

func (m *mockCatalog) Names() []string { return m.names }

func (m *mockCatalog) Load(name string) (service.Module, error) {
	m.loaded = name
	if m.err != nil {
		return nil, m.err
	}
	return m.module, nil
}

type mockClassMatcher struct {
	names   []string
	missing []string
}

func (m *mockClassMatcher) MatchClasses(s service.Service, names []string) ([]*meta.Class, []string) {
	var found []*meta.Class
	for _, n := range m.names {
		if c := s.FindClassByName(n); c != nil {
			found = append(found, c)
		}
	}
	return found, m.missing
}

type mockMemberMatcher struct {
	callCount  int
	lastIgnore []string
}

func (m *mockMemberMatcher) Match(cls *meta.Class, members, ignoreMembers []string) []meta.Item {
	m.callCount++
	m.lastIgnore = append([]string(nil), ignoreMembers...)
	if cls.FieldCount() == 0 {
		return nil
	}
	return []meta.Item{cls.FieldAt(0)}
}

type mockReporter struct {
	callCount int
	cfg       report.Config
	report    report.Report
	err       error
}

func (m *mockReporter) Report(cfg report.Config, r report.Report) error {
	m.callCount++
	m.cfg = cfg
	m.report = r
	return m.err
}
