// internal/form/compile.go
//
// Harmony – Forms subsystem: definition compiler.
//
// Context
//   Compile converts a validated FormDef into a Schema whose rules are plain
//   Go predicates.  Regexes and expressions are compiled here, once, so
//   Validate never parses anything.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"regexp"
)

// Field is one compiled field.
type Field struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Trim        bool
	Rules       []Rule
}

// Schema is an immutable, compiled form.  Share freely between goroutines.
type Schema struct {
	ID             string
	Title          string
	Endpoint       string
	SuccessRoute   string
	SuccessMessage string
	FailureMessage string
	PendingLabel   string
	SubmitLabel    string
	Fields         []Field
	CrossRules     []CrossRule
}

// Compile builds a Schema from fd.  fd must have passed validateFormDef;
// ParseFormDef guarantees that.
func Compile(fd *FormDef) (*Schema, error) {
	s := &Schema{
		ID:             fd.ID,
		Title:          fd.Title,
		Endpoint:       fd.Endpoint,
		SuccessRoute:   fd.SuccessRoute,
		SuccessMessage: fd.SuccessMessage,
		FailureMessage: fd.FailureMessage,
		PendingLabel:   fd.PendingLabel,
		SubmitLabel:    fd.SubmitLabel,
		Fields:         make([]Field, 0, len(fd.Fields)),
	}

	for _, fdef := range fd.Fields {
		f := Field{
			Name:        fdef.Name,
			Label:       fdef.Label,
			Type:        fdef.Type,
			Placeholder: fdef.Placeholder,
			Trim:        defaultTrim(fdef),
		}
		for _, r := range fdef.Rules {
			rule, err := compileRule(r)
			if err != nil {
				return nil, fmt.Errorf("form %s: field '%s': %w", fd.ID, fdef.Name, err)
			}
			f.Rules = append(f.Rules, rule)
		}
		s.Fields = append(s.Fields, f)
	}

	for _, cr := range fd.CrossRules {
		if len(cr.Equals) == 2 {
			s.CrossRules = append(s.CrossRules, EqualsField(cr.Target, cr.Equals[0], cr.Equals[1], cr.Message))
			continue
		}
		rule, err := Expression(cr.Target, cr.Expr, cr.Message)
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", fd.ID, err)
		}
		s.CrossRules = append(s.CrossRules, rule)
	}
	return s, nil
}

func compileRule(r RuleDef) (Rule, error) {
	switch r.Kind {
	case KindRequired:
		return Required(r.Value, r.Message), nil
	case KindMaxLength:
		return MaxLength(r.Value, r.Message), nil
	case KindEmail:
		return Email(r.Message), nil
	case KindPattern:
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return Rule{}, err
		}
		return Pattern(re, r.Message), nil
	default:
		return Rule{}, fmt.Errorf("unknown rule kind %q", r.Kind)
	}
}

// defaultTrim: text and email trim unless told otherwise, passwords never.
func defaultTrim(f FieldDef) bool {
	if f.Type == TypePassword {
		return false
	}
	if f.Trim != nil {
		return *f.Trim
	}
	return true
}
