// internal/form/rules.go
//
// Harmony – Forms subsystem: rule vocabulary.
//
// Context
//   A Rule is a predicate over one field's coerced value paired with the
//   message shown when it fails.  A CrossRule is a predicate over the whole
//   value bundle whose failure lands on a designated target field.  YAML
//   definitions compile into these values (see compile.go); Go callers may
//   also build schemas directly from the constructors below.
//
// Vocabulary
//   •  Required(min)      – non-empty and at least min runes long.
//   •  MaxLength(n)       – at most n runes.
//   •  Email              – address shape, via go-playground/validator.
//   •  Pattern(re)        – regexp must match somewhere in the value.
//   •  EqualsField(a, b)  – cross-field equality.
//   •  Expression(src)    – cross-field expr-lang boolean expression.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-playground/validator/v10"

	"github.com/harmony/harcloud/internal/cache"
)

// Rule checks a single field value.
type Rule struct {
	Kind    string
	Check   func(string) bool
	Message string
}

// CrossRule checks the whole value bundle and reports on Target.
type CrossRule struct {
	Target  string
	Check   func(Values) bool
	Message string
}

// validate is shared; validator.Validate is safe for concurrent use.
var validate = validator.New()

// programs caches compiled cross-field expressions by source text.
var programs = cache.New[string, *vm.Program](256)

// Required fails on empty values and values shorter than min runes.  A min
// below one still rejects the empty string.
func Required(min int, msg string) Rule {
	if min < 1 {
		min = 1
	}
	return Rule{
		Kind:    KindRequired,
		Check:   func(s string) bool { return utf8.RuneCountInString(s) >= min },
		Message: msg,
	}
}

// MaxLength fails on values longer than n runes.
func MaxLength(n int, msg string) Rule {
	return Rule{
		Kind:    KindMaxLength,
		Check:   func(s string) bool { return utf8.RuneCountInString(s) <= n },
		Message: msg,
	}
}

// Email fails unless s looks like an email address.
func Email(msg string) Rule {
	return Rule{
		Kind: KindEmail,
		Check: func(s string) bool {
			return s != "" && validate.Var(s, "email") == nil
		},
		Message: msg,
	}
}

// Pattern fails unless re matches s.
func Pattern(re *regexp.Regexp, msg string) Rule {
	return Rule{
		Kind:    KindPattern,
		Check:   re.MatchString,
		Message: msg,
	}
}

// EqualsField reports msg on target unless the values of a and b are equal.
func EqualsField(target, a, b, msg string) CrossRule {
	return CrossRule{
		Target:  target,
		Check:   func(v Values) bool { return v[a] == v[b] },
		Message: msg,
	}
}

// Expression compiles src as a boolean expr-lang program evaluated against
// the value bundle.  Evaluation errors count as failures.
func Expression(target, src, msg string) (CrossRule, error) {
	prog, err := programs.GetOrAdd(src, func() (*vm.Program, error) {
		return expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	})
	if err != nil {
		return CrossRule{}, fmt.Errorf("compile expression %q: %w", src, err)
	}
	return CrossRule{
		Target: target,
		Check: func(v Values) bool {
			env := make(map[string]any, len(v))
			for k, s := range v {
				env[k] = s
			}
			out, err := expr.Run(prog, env)
			if err != nil {
				return false
			}
			ok, _ := out.(bool)
			return ok
		},
		Message: msg,
	}, nil
}
