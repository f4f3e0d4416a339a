package profile

// Profile field names the extraction engine can fill.
const (
	FieldName        = "name"
	FieldAge         = "age"
	FieldGender      = "gender"
	FieldSkills      = "skills"
	FieldLocation    = "location"
	FieldPhoneNumber = "phone_number"
	FieldEmail       = "email"
)

// RequiredFields block completion while absent; order here is the order
// "missing" is reported in.
var RequiredFields = []string{FieldName, FieldAge, FieldGender, FieldSkills}

// OptionalFields are captured when mentioned but never asked for.
var OptionalFields = []string{FieldLocation, FieldPhoneNumber, FieldEmail}

// Fields is the latest known structured profile. Values are whatever the
// engine returned after JSON decoding: string, float64, []any, or nil.
type Fields map[string]any

// Clone returns a shallow copy so callers can hold a snapshot while the
// session keeps mutating its own map.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// isEmpty implements the emptiness rule: nil, empty string, or empty list
// all count as absent.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

// MissingRequired returns the required fields absent from f, in the
// RequiredFields order.
func MissingRequired(f Fields) []string {
	missing := make([]string, 0, len(RequiredFields))
	for _, name := range RequiredFields {
		if isEmpty(f[name]) {
			missing = append(missing, name)
		}
	}
	return missing
}
