// internal/form/definition.go
//
// Harmony – Forms subsystem: YAML definition loader.
//
// Context
//   Every form the client can submit is declared in YAML: its identifier, the
//   backend endpoint it posts to, the route to navigate to after success, the
//   ordered field list with ordered rules, and any cross-field rules.  The
//   built-in login and registration forms ship embedded (builtin.go); an
//   operator may drop overrides into a directory named by `forms.dir`.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef → RuleDef, plus
//      CrossRuleDef.
//   •  ParseFormDef / LoadFormDef decode YAML and validate structural rules.
//   •  Compile (compile.go) turns a FormDef into an immutable *Schema.
//   •  Register / Lookup keep compiled schemas in a process-wide registry.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Field types understood by the engine.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypePassword = "password"
)

// Rule kinds understood by the engine.
const (
	KindRequired  = "required"
	KindMaxLength = "maxlength"
	KindEmail     = "email"
	KindPattern   = "pattern"
)

// ErrUnknownForm is returned by MustLookup-style helpers when an ID is not
// registered.
var ErrUnknownForm = errors.New("unknown form")

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID             string         `yaml:"id"`              // Namespaced, e.g. “auth/login”.
	Title          string         `yaml:"title"`           // Display heading.
	Endpoint       string         `yaml:"endpoint"`        // POST target, e.g. “/api/login”.
	SuccessRoute   string         `yaml:"success_route"`   // Navigation after 2xx.
	SuccessMessage string         `yaml:"success_message"` // Notice shown after 2xx, optional.
	FailureMessage string         `yaml:"failure_message"` // Fallback when a JSON error body has no message.
	PendingLabel   string         `yaml:"pending_label"`   // Shown while a submission is in flight.
	SubmitLabel    string         `yaml:"submit_label"`    // Shown on the submit prompt.
	Fields         []FieldDef     `yaml:"fields"`
	CrossRules     []CrossRuleDef `yaml:"cross_rules"`
}

// FieldDef describes a single input.  Rules run in declared order.
type FieldDef struct {
	Name        string    `yaml:"name"`
	Label       string    `yaml:"label"`
	Type        string    `yaml:"type"` // text, email, password
	Placeholder string    `yaml:"placeholder"`
	Trim        *bool     `yaml:"trim"` // nil means the type default
	Rules       []RuleDef `yaml:"rules"`
}

// RuleDef is one per-field rule.
type RuleDef struct {
	Kind    string `yaml:"kind"`
	Value   int    `yaml:"value"`   // required / maxlength
	Pattern string `yaml:"pattern"` // pattern
	Message string `yaml:"message"`
}

// CrossRuleDef is a rule over several fields.  Exactly one of Equals or Expr
// must be set.
type CrossRuleDef struct {
	Target  string   `yaml:"target"`
	Equals  []string `yaml:"equals"`
	Expr    string   `yaml:"expr"`
	Message string   `yaml:"message"`
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Schema)
)

// Register inserts or overrides a compiled schema.
func Register(s *Schema) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.ID] = s
}

// Lookup returns a compiled schema by ID.  The boolean is false when the ID is
// unknown.
func Lookup(id string) (*Schema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[id]
	return s, ok
}

// MustLookup is Lookup returning ErrUnknownForm instead of a boolean.
func MustLookup(id string) (*Schema, error) {
	s, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, id)
	}
	return s, nil
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// ParseFormDef decodes raw YAML and validates its structure.  src names the
// origin in error messages.
func ParseFormDef(raw []byte, src string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", src, err)
	}
	if err := validateFormDef(&fd, src); err != nil {
		return nil, err
	}
	return &fd, nil
}

// LoadFormDef reads and parses one YAML file.  It never touches the registry.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// RegisterDir loads every “*.yaml” under dir and registers it, overriding
// built-ins with the same ID.  A missing directory is not an error.
func RegisterDir(dir string) error {
	if dir == "" {
		return nil
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}
		fd, err := LoadFormDef(path)
		if err != nil {
			return err
		}
		s, err := Compile(fd)
		if err != nil {
			return err
		}
		Register(s)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateFormDef enforces structural rules that YAML tags cannot express.
func validateFormDef(fd *FormDef, src string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", src)
	}
	if fd.Endpoint == "" {
		return fmt.Errorf("form %s: missing required 'endpoint'", fd.ID)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form %s: must declare 'fields'", fd.ID)
	}

	names := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, fd.ID); err != nil {
			return err
		}
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", fd.ID, f.Name)
		}
		names[f.Name] = struct{}{}
	}

	for i, cr := range fd.CrossRules {
		if _, ok := names[cr.Target]; !ok {
			return fmt.Errorf("form %s: cross rule %d targets unknown field '%s'", fd.ID, i, cr.Target)
		}
		switch {
		case len(cr.Equals) > 0 && cr.Expr != "":
			return fmt.Errorf("form %s: cross rule %d sets both 'equals' and 'expr'", fd.ID, i)
		case len(cr.Equals) > 0:
			if len(cr.Equals) != 2 {
				return fmt.Errorf("form %s: cross rule %d 'equals' needs two fields", fd.ID, i)
			}
			for _, n := range cr.Equals {
				if _, ok := names[n]; !ok {
					return fmt.Errorf("form %s: cross rule %d compares unknown field '%s'", fd.ID, i, n)
				}
			}
		case cr.Expr == "":
			return fmt.Errorf("form %s: cross rule %d needs 'equals' or 'expr'", fd.ID, i)
		}
		if cr.Message == "" {
			return fmt.Errorf("form %s: cross rule %d missing 'message'", fd.ID, i)
		}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, formID string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", formID)
	}
	switch f.Type {
	case "":
		f.Type = TypeText
	case TypeText, TypeEmail, TypePassword:
	default:
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", formID, f.Name, f.Type)
	}
	if f.Label == "" {
		f.Label = f.Name
	}

	for i, r := range f.Rules {
		if r.Message == "" {
			return fmt.Errorf("form %s: field '%s' rule %d missing 'message'", formID, f.Name, i)
		}
		switch r.Kind {
		case KindRequired, KindMaxLength:
			if r.Value < 0 {
				return fmt.Errorf("form %s: field '%s' rule %d value cannot be negative", formID, f.Name, i)
			}
		case KindEmail:
		case KindPattern:
			if r.Pattern == "" {
				return fmt.Errorf("form %s: field '%s' rule %d missing 'pattern'", formID, f.Name, i)
			}
			if _, err := regexp.Compile(r.Pattern); err != nil {
				return fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", formID, f.Name, err)
			}
		default:
			return fmt.Errorf("form %s: field '%s' rule %d has unknown kind %q", formID, f.Name, i, r.Kind)
		}
	}
	return nil
}
