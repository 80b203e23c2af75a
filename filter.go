package xlrw

import (
	"fmt"
	"iter"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RowFilter is a compiled boolean expression over a record. Labels that are
// valid identifiers are variables; every label is reachable as row["label"],
// and the row number as rownum.
type RowFilter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles an expr-lang expression such as
// `amount > 100 && row["Customer Name"] != ""`.
func CompileFilter(expression string) (*RowFilter, error) {
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &RowFilter{source: expression, program: program}, nil
}

func (f *RowFilter) String() string {
	return f.source
}

// Match evaluates the filter against a record. A nil result is false.
func (f *RowFilter) Match(rec *Record) (bool, error) {
	fields := rec.Map()
	env := make(map[string]any, len(fields)+2)
	for label, v := range fields {
		if identRegex.MatchString(label) {
			env[label] = v
		}
	}
	env["row"] = fields
	env["rownum"] = rec.Row
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q on row %d: %w", f.source, rec.Row, err)
	}
	if result == nil {
		return false, nil
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q evaluated to %T, expected bool", f.source, result)
	}
	return b, nil
}

// Filter yields the records after headerRow that match f. Iteration stops
// at the first evaluation error, which is yielded with a nil record.
func (r *SheetReader) Filter(headerRow int, f *RowFilter) iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for rec := range r.Records(headerRow) {
			ok, err := f.Match(rec)
			if err != nil {
				yield(nil, err)
				return
			}
			if ok && !yield(rec, nil) {
				return
			}
		}
	}
}
