package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

type testConfig struct {
	filename string
}

func (c testConfig) OutputFilename() string { return c.filename }

func sampleReport(t *testing.T) Report {
	t.Helper()
	r := meta.NewResolver(metatype.NewIdentityRegistry())
	base := meta.NewClass(meta.ClassSpec{Name: "Base", Resolver: r, Abstract: true})
	cls := meta.NewClass(meta.ClassSpec{
		Name:     "Widget",
		Size:     16,
		Resolver: r,
		New:      func() unsafe.Pointer { return unsafe.Pointer(new([16]byte)) },
		Annotations: []meta.AnnotationSpec{
			meta.Annotate("attribute", meta.Entry("id", variant.Int32(1999))),
		},
	})
	cls.AddBase(base, meta.Adjuster{})
	cls.AddField(meta.FieldSpec{
		Name:        "width",
		Type:        metatype.Fundamental(metatype.KindInt32),
		Annotations: []meta.AnnotationSpec{meta.Annotate("range", meta.Entry("min", variant.Int32(0)))},
	})
	cls.AddMethod(meta.MethodSpec{
		Name: "resize",
		Signature: meta.Signature{
			Params: []metatype.TypeInfo{metatype.Fundamental(metatype.KindInt32), metatype.Fundamental(metatype.KindString)},
			Result: metatype.Fundamental(metatype.KindBool),
		},
	})
	cls.AddMethod(meta.MethodSpec{Name: "count", Static: true, Signature: meta.Signature{Variadic: true, Result: metatype.Void()}})

	members := make([]meta.Item, 0, cls.MetaCount())
	for i := 0; i < cls.MetaCount(); i++ {
		members = append(members, cls.MetaAt(i))
	}
	return Report{Module: "test", Classes: []ClassReport{Describe(cls, members)}}
}

func TestDescribe(t *testing.T) {
	rep := sampleReport(t).Classes[0]
	if rep.Name != "Widget" || rep.Size != 16 || !rep.Creatable {
		t.Fatalf("unexpected class report: %#v", rep)
	}
	if len(rep.Bases) != 1 || rep.Bases[0] != "Base" {
		t.Fatalf("unexpected bases: %#v", rep.Bases)
	}
	if len(rep.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(rep.Members))
	}
	if got := rep.Members[1].Signature; got != "(int32, string) bool" {
		t.Fatalf("signature = %q", got)
	}
	if got := rep.Members[2].Signature; got != "(...) void" {
		t.Fatalf("variadic signature = %q", got)
	}
	if !rep.Members[2].Static {
		t.Fatal("count should be static")
	}
	if rep.Annotations[0].Entries[0].Value != "1999" {
		t.Fatalf("annotation value = %q", rep.Annotations[0].Entries[0].Value)
	}
	if rep.Members[0].Annotations[0].Name != "range" {
		t.Fatalf("member annotation = %#v", rep.Members[0].Annotations)
	}
}

func TestReport_TextWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter("text", true)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	if err := New(f, NewWriter(&buf)).Report(testConfig{}, sampleReport(t)); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	got := buf.String()
	for _, want := range []string{"Widget : Base size=16", "@attribute id=1999", "method      resize(int32, string) bool", "@range min=0", "static"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("output contains escape codes:\n%s", got)
	}
}

func TestReport_StructuredFormats(t *testing.T) {
	rep := sampleReport(t)
	decoders := map[string]func([]byte, any) error{
		"json": json.Unmarshal,
		"yml":  yaml.Unmarshal,
		"TOML": toml.Unmarshal,
	}
	for format, decode := range decoders {
		t.Run(format, func(t *testing.T) {
			f, err := NewFormatter(format, true)
			if err != nil {
				t.Fatalf("NewFormatter() error = %v", err)
			}
			data, err := f.Format(rep)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			var back Report
			if err := decode(data, &back); err != nil {
				t.Fatalf("decode error = %v\n%s", err, data)
			}
			if len(back.Classes) != 1 || back.Classes[0].Name != "Widget" || len(back.Classes[0].Members) != 3 {
				t.Fatalf("round trip lost data: %#v", back)
			}
		})
	}
}

func TestReport_WritesFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "widget.yaml")
	f, _ := NewFormatter("yaml", true)
	if err := New(f, NewWriter(&bytes.Buffer{})).Report(testConfig{filename: filename}, sampleReport(t)); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(b), "qualifiedName: Widget") {
		t.Fatalf("unexpected yaml: %s", b)
	}
}

func TestReport_Errors(t *testing.T) {
	if _, err := NewFormatter("xml", false); err == nil {
		t.Fatal("expected unsupported format error")
	}
	f, _ := NewFormatter("json", true)
	if err := New(f, NewWriter(&bytes.Buffer{})).Report(testConfig{}, Report{}); err == nil {
		t.Fatal("expected error for empty report")
	}
}
