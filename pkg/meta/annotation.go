package meta

import (
	"fmt"
	"sync"

	"github.com/spf13/cast"

	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/variant"
)

// AnnotationEntry is one named value of an annotation.
type AnnotationEntry struct {
	Name  string
	Value variant.Variant
}

// AnnotationSpec describes an annotation to attach at registration.
type AnnotationSpec struct {
	Name    string
	Entries []AnnotationEntry
}

// Annotate is a shorthand for building an AnnotationSpec.
func Annotate(name string, entries ...AnnotationEntry) AnnotationSpec {
	return AnnotationSpec{Name: name, Entries: entries}
}

// Entry is a shorthand for building an AnnotationEntry.
func Entry(name string, value variant.Variant) AnnotationEntry {
	return AnnotationEntry{Name: name, Value: value}
}

// Annotation is an ordered name -> value map attached to exactly one item.
type Annotation struct {
	itemBase
	target Item
	names  []string
	values []*AnnotationValue
}

var _ Item = (*Annotation)(nil)

func newAnnotation(target Item, spec AnnotationSpec) *Annotation {
	a := &Annotation{
		itemBase: itemBase{name: spec.Name, category: CategoryAnnotation},
		target:   target,
	}
	if target != nil {
		a.owner = target.Owner()
		if c, ok := target.(*Class); ok {
			a.owner = c
		}
	}
	for _, e := range spec.Entries {
		a.names = append(a.names, e.Name)
		a.values = append(a.values, &AnnotationValue{value: e.Value})
	}
	return a
}

// MetaItem returns the annotated item.
func (a *Annotation) MetaItem() Item { return a.target }

func (a *Annotation) Count() int { return len(a.values) }

func (a *Annotation) NameAt(i int) string {
	if i < 0 || i >= len(a.names) {
		return ""
	}
	return a.names[i]
}

func (a *Annotation) ValueAt(i int) *AnnotationValue {
	if i < 0 || i >= len(a.values) {
		return nil
	}
	return a.values[i]
}

// Value returns the first value registered under name, nil when absent.
func (a *Annotation) Value(name string) *AnnotationValue {
	for i, n := range a.names {
		if n == name {
			return a.values[i]
		}
	}
	return nil
}

// AnnotationValue wraps one annotation value and its projections.
type AnnotationValue struct {
	value variant.Variant

	once sync.Once
	str  string
	serr error
}

// Variant returns the raw value.
func (v *AnnotationValue) Variant() variant.Variant { return v.value }

// CanToString reports whether the value has a string projection.
func (v *AnnotationValue) CanToString() bool {
	k := v.value.Kind()
	return k.IsString() || k.IsNumeric()
}

// ToString projects the value to a string.
func (v *AnnotationValue) ToString() (string, error) {
	if !v.CanToString() {
		return "", fmt.Errorf("%w: annotation value of kind %s has no string form", metaerr.ErrTypeMismatch, v.value.Kind())
	}
	v.once.Do(func() {
		v.str, v.serr = cast.ToStringE(v.value.Interface())
	})
	return v.str, v.serr
}

// ToWideString projects the value to a wide string.
func (v *AnnotationValue) ToWideString() ([]rune, error) {
	s, err := v.ToString()
	if err != nil {
		return nil, err
	}
	return []rune(s), nil
}

// CanToInt reports whether the value has an int32 projection.
func (v *AnnotationValue) CanToInt() bool {
	return v.value.Kind().IsNumeric()
}

// ToInt32 projects the value to an int32.
func (v *AnnotationValue) ToInt32() (int32, error) {
	if !v.CanToInt() {
		return 0, fmt.Errorf("%w: annotation value of kind %s has no integer form", metaerr.ErrTypeMismatch, v.value.Kind())
	}
	return cast.ToInt32E(v.value.Interface())
}

// Type returns the type of the stored value.
func (v *AnnotationValue) Type() metatype.TypeInfo { return v.value.Type() }
