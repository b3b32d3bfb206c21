package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/fatih/color"
	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

//go:embed templates/*.txt.tmpl
var templateFS embed.FS

// Reporter renders class reports and writes them out.
type Reporter interface {
	Report(cfg Config, r Report) error
}

// Config is the minimum config contract required by the reporter.
type Config interface {
	OutputFilename() string
}

// Formatter renders a report.
type Formatter interface {
	Format(r Report) ([]byte, error)
}

// Writer writes rendered output. An empty filename selects the default stream.
type Writer interface {
	Write(filename string, data []byte) error
}

type reporterImpl struct {
	formatter Formatter
	writer    Writer
}

type textFormatter struct {
	tmpl *template.Template
}

type jsonFormatter struct{}

type yamlFormatter struct{}

type tomlFormatter struct{}

type streamWriter struct {
	out io.Writer
}

// New creates a reporter.
func New(f Formatter, w Writer) Reporter {
	return &reporterImpl{formatter: f, writer: w}
}

// NewFormatter returns the formatter for format: text, json, yaml or toml.
func NewFormatter(format string, noColor bool) (Formatter, error) {
	switch normalizeFormat(format) {
	case "text":
		return newTextFormatter(noColor), nil
	case "json":
		return jsonFormatter{}, nil
	case "yaml":
		return yamlFormatter{}, nil
	case "toml":
		return tomlFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func normalizeFormat(f string) string {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case "text", "txt", "":
		return "text"
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// NewWriter writes to out when no filename is given and to the named file otherwise.
func NewWriter(out io.Writer) Writer {
	return &streamWriter{out: out}
}

func (r *reporterImpl) Report(cfg Config, rep Report) error {
	if len(rep.Classes) == 0 {
		return fmt.Errorf("no classes to report")
	}
	data, err := r.formatter.Format(rep)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if err := r.writer.Write(cfg.OutputFilename(), data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func newTextFormatter(noColor bool) *textFormatter {
	paint := func(attrs ...color.Attribute) func(string) string {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return func(s string) string { return c.Sprint(s) }
	}
	category := paint(color.FgYellow)
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"header":   paint(color.Bold, color.FgCyan),
		"dim":      paint(color.FgHiBlack),
		"category": func(s string) string { return category(fmt.Sprintf("%-11s", s)) },
		"join":     strings.Join,
	}).ParseFS(templateFS, "templates/*.txt.tmpl"))
	return &textFormatter{tmpl: tmpl}
}

func (f *textFormatter) Format(r Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.tmpl.ExecuteTemplate(&buf, "describe.txt.tmpl", r); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	return buf.Bytes(), nil
}

func (jsonFormatter) Format(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (yamlFormatter) Format(r Report) ([]byte, error) {
	return yaml.Marshal(r)
}

func (tomlFormatter) Format(r Report) ([]byte, error) {
	return toml.Marshal(r)
}

func (w *streamWriter) Write(filename string, data []byte) error {
	if filename == "" {
		_, err := w.out.Write(data)
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
