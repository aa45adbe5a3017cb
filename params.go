package npr

import (
	"fmt"
	"strconv"
	"strings"
)

// Reserved parameter keys and values.
const (
	// KeyInit selects how a parameter map is interpreted. The value
	// InitEditor means "use editor defaults" and every other key is ignored.
	KeyInit    = "_INI_"
	InitEditor = "EDITOR"

	// DefaultValue may be given for any key to select its default.
	DefaultValue = "default"
)

// Params is a string-keyed, string-valued parameter map as persisted by a
// host application or produced by an editor.
type Params map[string]string

// Editor reports whether p requests editor defaults.
func (p Params) Editor() bool {
	return p[KeyInit] == InitEditor
}

// EditorParams returns a map that requests editor defaults.
func EditorParams() Params {
	return Params{KeyInit: InitEditor}
}

// intParam describes an integer parameter.
type intParam struct {
	key     string
	def     int
	lo, hi  int
	oddOnly bool
}

func (d intParam) check(t Type, v int) error {
	if v < d.lo || v > d.hi {
		return &ParamError{Filter: t, Key: d.key, Value: strconv.Itoa(v),
			Err: fmt.Errorf("%w: want [%d, %d]", ErrOutOfRange, d.lo, d.hi)}
	}
	if d.oddOnly && v%2 == 0 {
		return &ParamError{Filter: t, Key: d.key, Value: strconv.Itoa(v),
			Err: fmt.Errorf("%w: must be odd", ErrOutOfRange)}
	}
	return nil
}

// floatParam describes a floating-point parameter.
type floatParam struct {
	key    string
	def    float64
	lo, hi float64
}

func (d floatParam) check(t Type, v float64) error {
	if !(v >= d.lo && v <= d.hi) {
		return &ParamError{Filter: t, Key: d.key, Value: formatFloat(v),
			Err: fmt.Errorf("%w: want [%g, %g]", ErrOutOfRange, d.lo, d.hi)}
	}
	return nil
}

// boolParam describes a boolean parameter.
type boolParam struct {
	key string
	def bool
}

// stringParam describes a free-form string parameter.
type stringParam struct {
	key string
	def string
}

// paramReader parses values out of a Params map, keeping the first error.
// Missing keys and the literal "default" resolve to the default value.
// In editor mode every accessor returns the default.
type paramReader struct {
	t      Type
	p      Params
	editor bool
	err    error
}

func newParamReader(t Type, p Params) *paramReader {
	return &paramReader{t: t, p: p, editor: p.Editor()}
}

// raw returns the trimmed value for key and whether it should be parsed.
func (r *paramReader) raw(key string) (string, bool) {
	if r.err != nil || r.editor {
		return "", false
	}
	v, ok := r.p[key]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == DefaultValue {
		return "", false
	}
	return v, true
}

func (r *paramReader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = &ParamError{Filter: r.t, Key: key, Value: value, Err: err}
	}
}

func (r *paramReader) readInt(d intParam) int {
	s, ok := r.raw(d.key)
	if !ok {
		return d.def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.fail(d.key, s, fmt.Errorf("%w: %v", ErrMalformedParameter, err))
		return d.def
	}
	return v
}

func (r *paramReader) readFloat(d floatParam) float64 {
	s, ok := r.raw(d.key)
	if !ok {
		return d.def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(d.key, s, fmt.Errorf("%w: %v", ErrMalformedParameter, err))
		return d.def
	}
	return v
}

func (r *paramReader) readBool(d boolParam) bool {
	s, ok := r.raw(d.key)
	if !ok {
		return d.def
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	r.fail(d.key, s, fmt.Errorf("%w: want true or false", ErrMalformedParameter))
	return d.def
}

func (r *paramReader) readString(d stringParam) string {
	if r.err != nil || r.editor {
		return d.def
	}
	v, ok := r.p[d.key]
	if !ok || v == DefaultValue {
		return d.def
	}
	return v
}

// paramWriter builds a Params map in a stable format.
type paramWriter Params

func (w paramWriter) putInt(d intParam, v int)          { w[d.key] = strconv.Itoa(v) }
func (w paramWriter) putFloat(d floatParam, v float64)  { w[d.key] = formatFloat(v) }
func (w paramWriter) putBool(d boolParam, v bool)       { w[d.key] = strconv.FormatBool(v) }
func (w paramWriter) putString(d stringParam, v string) { w[d.key] = v }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
