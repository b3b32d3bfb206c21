package report

import (
	"fmt"
	"strings"

	"github.com/seitarof/gometa/pkg/meta"
)

// Report is the document every formatter renders.
type Report struct {
	Module  string        `json:"module,omitempty" yaml:"module,omitempty" toml:"module,omitempty"`
	Classes []ClassReport `json:"classes" yaml:"classes" toml:"classes"`
}

// ClassReport describes one class and the selected members.
type ClassReport struct {
	Name          string             `json:"name" yaml:"name" toml:"name"`
	QualifiedName string             `json:"qualifiedName" yaml:"qualifiedName" toml:"qualifiedName"`
	Size          uint64             `json:"size" yaml:"size" toml:"size"`
	Abstract      bool               `json:"abstract,omitempty" yaml:"abstract,omitempty" toml:"abstract,omitempty"`
	Creatable     bool               `json:"creatable" yaml:"creatable" toml:"creatable"`
	Bases         []string           `json:"bases,omitempty" yaml:"bases,omitempty" toml:"bases,omitempty"`
	Annotations   []AnnotationReport `json:"annotations,omitempty" yaml:"annotations,omitempty" toml:"annotations,omitempty"`
	Members       []MemberReport     `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty"`
}

// MemberReport describes one member. Signature is set for callables only.
type MemberReport struct {
	Name        string             `json:"name" yaml:"name" toml:"name"`
	Category    string             `json:"category" yaml:"category" toml:"category"`
	Type        string             `json:"type" yaml:"type" toml:"type"`
	Static      bool               `json:"static,omitempty" yaml:"static,omitempty" toml:"static,omitempty"`
	Signature   string             `json:"signature,omitempty" yaml:"signature,omitempty" toml:"signature,omitempty"`
	Annotations []AnnotationReport `json:"annotations,omitempty" yaml:"annotations,omitempty" toml:"annotations,omitempty"`
}

// AnnotationReport lists the entries of an annotation in declaration order.
type AnnotationReport struct {
	Name    string        `json:"name" yaml:"name" toml:"name"`
	Entries []EntryReport `json:"entries,omitempty" yaml:"entries,omitempty" toml:"entries,omitempty"`
}

type EntryReport struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// Describe builds the report of cls restricted to members.
func Describe(cls *meta.Class, members []meta.Item) ClassReport {
	r := ClassReport{
		Name:          cls.Name(),
		QualifiedName: cls.QualifiedName(),
		Size:          uint64(cls.TypeSize()),
		Abstract:      cls.IsAbstract(),
		Creatable:     cls.CanCreateInstance() || cls.ConstructorCount() > 0,
		Annotations:   describeAnnotations(cls),
	}
	for i := 0; i < cls.BaseCount(); i++ {
		r.Bases = append(r.Bases, cls.BaseClass(i).QualifiedName())
	}
	for _, item := range members {
		r.Members = append(r.Members, describeMember(item))
	}
	return r
}

func describeMember(item meta.Item) MemberReport {
	m := MemberReport{
		Name:        item.Name(),
		Category:    item.Category().String(),
		Type:        item.ItemType().String(),
		Static:      item.IsStatic(),
		Annotations: describeAnnotations(item),
	}
	if c, ok := item.(meta.Callable); ok {
		m.Signature = signature(c)
	}
	return m
}

func signature(c meta.Callable) string {
	params := make([]string, 0, c.ParamCount()+1)
	for i := 0; i < c.ParamCount(); i++ {
		params = append(params, c.ParamType(i).String())
	}
	if c.IsVariadic() {
		params = append(params, "...")
	}
	sig := "(" + strings.Join(params, ", ") + ")"
	if c.HasResult() {
		sig += " " + c.ResultType().String()
	}
	return sig
}

func describeAnnotations(item meta.Item) []AnnotationReport {
	var out []AnnotationReport
	for i := 0; i < item.AnnotationCount(); i++ {
		a := item.AnnotationAt(i)
		ar := AnnotationReport{Name: a.Name()}
		for j := 0; j < a.Count(); j++ {
			ar.Entries = append(ar.Entries, EntryReport{Name: a.NameAt(j), Value: annotationValue(a.ValueAt(j))})
		}
		out = append(out, ar)
	}
	return out
}

func annotationValue(v *meta.AnnotationValue) string {
	if v.CanToString() {
		if s, err := v.ToString(); err == nil {
			return s
		}
	}
	return fmt.Sprint(v.Variant())
}
