// Package redact reduces a prospect profile to what a delegate agent may
// disclose to its parent.
//
// Redact is pure: it never mutates its inputs and never errors. Shape
// mismatches (a path running through a non-record value, a missing key)
// resolve to "absent", so a misconfigured allowlist under-discloses.
package redact

import (
	"reflect"
	"strings"

	"github.com/agentoven/concierge/pkg/models"
)

// Marker replaces masked values. The key is kept so the parent can see a
// value existed.
const Marker = "<redacted>"

// websiteKey is matched case-insensitively at every depth.
const websiteKey = "website"

// Record is a structured profile. Nested records may be any map keyed by
// strings and lists may be any slice or array; the output always uses Record
// and []any.
type Record map[string]any

// Lookup resolves a dotted path such as "companyOverview.summary". It
// reports false when any segment is missing or an intermediate value is not
// a record.
func (r Record) Lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var cur any = r
	for _, seg := range strings.Split(path, ".") {
		var ok bool
		if cur, ok = field(cur, seg); !ok {
			return nil, false
		}
	}
	return cur, true
}

// Redact applies policy to profile and returns a new record. A nil policy
// behaves like the zero policy: nothing is masked, nothing is allowlisted,
// and website fields are withheld.
func Redact(policy *models.PrivacyPolicy, profile Record) Record {
	var p models.PrivacyPolicy
	if policy != nil {
		p = *policy
	}
	if p.ShareOnlyAllowlist {
		return allowlisted(p.AllowlistKeys, profile)
	}
	v, _ := scrub(map[string]any(profile), p)
	out, _ := v.(Record)
	if out == nil {
		out = Record{}
	}
	return out
}

// allowlisted builds the output path by path. Nested paths are rebuilt as
// nested records; anything not named is dropped.
func allowlisted(keys []string, profile Record) Record {
	out := Record{}
	for _, path := range keys {
		v, ok := profile.Lookup(path)
		if !ok {
			continue
		}
		set(out, strings.Split(path, "."), clone(v))
	}
	return out
}

func set(dst Record, segs []string, v any) {
	for _, seg := range segs[:len(segs)-1] {
		next, ok := dst[seg].(Record)
		if !ok {
			next = Record{}
			dst[seg] = next
		}
		dst = next
	}
	dst[segs[len(segs)-1]] = v
}

// scrub deep-copies v, dropping website fields and masking contact values
// as the policy asks. The second result is false when v must be left out:
// an opaque value (struct, channel, func) that the policy cannot inspect.
func scrub(v any, p models.PrivacyPolicy) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case string:
		return mask(t, p), true
	case bool, float64, int, int64:
		return t, true
	}
	if m, ok := asMap(v); ok {
		out := make(Record, len(m))
		for k, val := range m {
			if !p.AllowWebsite && strings.EqualFold(k, websiteKey) {
				continue
			}
			if sv, keep := scrub(val, p); keep {
				out[k] = sv
			}
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return opaque(v, p)
		}
		out := make(Record, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			if !p.AllowWebsite && strings.EqualFold(k, websiteKey) {
				continue
			}
			if sv, keep := scrub(iter.Value().Interface(), p); keep {
				out[k] = sv
			}
		}
		return out, true
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, true
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return b, true
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if sv, keep := scrub(rv.Index(i).Interface(), p); keep {
				out = append(out, sv)
			}
		}
		return out, true
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, true
		}
		return scrub(rv.Elem().Interface(), p)
	case reflect.String:
		return mask(rv.String(), p), true
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return v, true
	}
	return opaque(v, p)
}

// opaque handles values scrub cannot look inside. They pass through only
// when the policy removes nothing.
func opaque(v any, p models.PrivacyPolicy) (any, bool) {
	if p.AllowWebsite && !p.MaskEmails && !p.MaskPhones {
		return v, true
	}
	return nil, false
}

func mask(s string, p models.PrivacyPolicy) string {
	if p.MaskEmails && IsEmail(s) {
		return Marker
	}
	if p.MaskPhones && IsPhone(s) {
		return Marker
	}
	return s
}

// clone deep-copies records and lists without altering any value.
func clone(v any) any {
	out, _ := scrub(v, models.PrivacyPolicy{AllowWebsite: true})
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

// field returns m[key] for any map keyed by strings.
func field(v any, key string) (any, bool) {
	if m, ok := asMap(v); ok {
		x, ok := m[key]
		return x, ok
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	x := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !x.IsValid() {
		return nil, false
	}
	return x.Interface(), true
}
