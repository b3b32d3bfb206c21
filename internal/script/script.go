// Package script runs call scripts against a meta service. A script is a list of
// steps that create objects, read and write members, call methods and release
// objects, going through the public engine API only.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpNew     = "new"
	OpSet     = "set"
	OpGet     = "get"
	OpCall    = "call"
	OpRelease = "release"
)

// Step is one script instruction. Object names a variable bound by an earlier step
// with As. String arguments starting with "$" refer to variables.
type Step struct {
	Op     string `yaml:"op" toml:"op"`
	Class  string `yaml:"class,omitempty" toml:"class,omitempty"`
	Object string `yaml:"object,omitempty" toml:"object,omitempty"`
	Member string `yaml:"member,omitempty" toml:"member,omitempty"`
	Args   []any  `yaml:"args,omitempty" toml:"args,omitempty"`
	Value  any    `yaml:"value,omitempty" toml:"value,omitempty"`
	As     string `yaml:"as,omitempty" toml:"as,omitempty"`
	Expect any    `yaml:"expect,omitempty" toml:"expect,omitempty"`
}

// Script is an ordered list of steps.
type Script struct {
	Steps []Step `yaml:"steps" toml:"steps"`
}

// Load reads a script, choosing the decoder by file extension.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script in format yaml or toml.
func Parse(data []byte, format string) (*Script, error) {
	var s Script
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported script format: %q", format)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpNew:
		if s.Class == "" || s.As == "" {
			return fmt.Errorf("new needs class and as")
		}
	case OpSet, OpGet:
		if s.Object == "" || s.Member == "" {
			return fmt.Errorf("%s needs object and member", s.Op)
		}
	case OpCall:
		if s.Member == "" {
			return fmt.Errorf("call needs member")
		}
	case OpRelease:
		if s.Object == "" {
			return fmt.Errorf("release needs object")
		}
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	return nil
}
