package profile

// Result is the reconciled outcome of one extraction call.
type Result struct {
	Fields   Fields   `json:"fields"`
	Missing  []string `json:"missing"`
	Question string   `json:"question,omitempty"`
}

// Complete reports whether every required field is present.
func (r Result) Complete() bool { return len(r.Missing) == 0 }

// Reconcile turns raw engine output into an authoritative Result. The
// engine's own "missing" list and question pairing are treated as hints
// only: skills is coerced to a list, missing is recomputed from the returned
// fields against the required set, and the question is dropped whenever
// nothing is actually missing.
func Reconcile(raw Fields, question string) Result {
	f := raw.Clone()
	if f == nil {
		f = Fields{}
	}
	if _, ok := f[FieldSkills].([]any); !ok {
		if _, ok := f[FieldSkills].([]string); !ok {
			f[FieldSkills] = []any{}
		}
	}
	missing := MissingRequired(f)
	if len(missing) == 0 {
		question = ""
	}
	return Result{Fields: f, Missing: missing, Question: question}
}
