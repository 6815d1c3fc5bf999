package node

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// TagKey is the struct tag carrying declarative mapping markers:
//
//	map:"-"          never populate this destination member
//	map:"from=Name"  populate this destination member from source member Name
//	map:"to=Name"    this source member feeds destination member Name
const TagKey = "map"

var ErrBadTag = errors.New("malformed map tag")

// Tag holds the parsed markers of a single struct field.
type Tag struct {
	Ignore bool
	From   string
	To     string
}

func ParseTag(tag reflect.StructTag) (Tag, error) {
	raw, ok := tag.Lookup(TagKey)
	if !ok || raw == "" {
		return Tag{}, nil
	}

	if raw == "-" {
		return Tag{Ignore: true}, nil
	}

	var t Tag
	for opt := range strings.SplitSeq(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(opt), "=")
		if !found || value == "" {
			return Tag{}, fmt.Errorf("%w: %q", ErrBadTag, raw)
		}

		switch key {
		case "from":
			t.From = value
		case "to":
			t.To = value
		default:
			return Tag{}, fmt.Errorf("%w: unknown option %q in %q", ErrBadTag, key, raw)
		}
	}

	return t, nil
}

// Member is a named value slot of a struct type: an exported field or,
// on the source side only, an exported niladic method.
type Member struct {
	Name string
	Type reflect.Type
	Tag  Tag

	// Index is the field index path; nil for methods.
	Index []int
	// Method is the method name; PtrMethod marks a pointer receiver.
	Method    string
	PtrMethod bool
	// Embed is the embedded field path a promoted method is reached through.
	Embed []int
}

func (m Member) IsMethod() bool { return m.Index == nil }

// Read extracts the member value from a struct value. It reports false when a
// promoted field or method sits behind a nil embedded pointer or interface, or
// a pointer method is called on a value that cannot be addressed.
func (m Member) Read(v reflect.Value) (reflect.Value, bool) {
	if !m.IsMethod() {
		f, err := v.FieldByIndexErr(m.Index)
		if err != nil {
			return reflect.Value{}, false
		}

		return f, true
	}

	if !embedded(v, m.Embed) {
		return reflect.Value{}, false
	}

	if m.PtrMethod {
		if !v.CanAddr() {
			return reflect.Value{}, false
		}
		v = v.Addr()
	}

	return v.MethodByName(m.Method).Call(nil)[0], true
}

// embedded reports whether every embedded pointer or interface on path is set.
func embedded(v reflect.Value, path []int) bool {
	for _, i := range path {
		v = v.Field(i)
		switch v.Kind() {
		case reflect.Ptr:
			if v.IsNil() {
				return false
			}
			v = v.Elem()
		case reflect.Interface:
			if v.IsNil() {
				return false
			}
		}
	}

	return true
}

// ReadableMembers lists the exported fields (promoted ones included) and the
// exported niladic single result methods of a struct type, sorted by name.
// Methods are called on every read, so they should be plain accessors;
// methods returning only an error are not members. Tag errors are returned
// alongside the members parsed so far.
func ReadableMembers(t reflect.Type) ([]Member, error) {
	members, err := fields(t, true)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(members))
	for _, m := range members {
		taken[m.Name] = struct{}{}
	}

	ptr := reflect.PointerTo(t)
	for i := range ptr.NumMethod() {
		method := ptr.Method(i)
		if !method.IsExported() {
			continue
		}

		// receiver is the only input
		if method.Type.NumIn() != 1 || method.Type.NumOut() != 1 || isError(method.Type.Out(0)) {
			continue
		}

		if _, exists := taken[method.Name]; exists {
			continue
		}

		_, onValue := t.MethodByName(method.Name)
		members = append(members, Member{
			Name:      method.Name,
			Type:      method.Type.Out(0),
			Method:    method.Name,
			PtrMethod: !onValue,
			Embed:     promotionPath(t, method.Name),
		})
	}

	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	return members, nil
}

// promotionPath returns the embedded field path a method of t is promoted
// through, or nil when no embedded field provides it.
func promotionPath(t reflect.Type, name string) []int {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous || !providesMethod(f.Type, name) {
			continue
		}

		path := []int{i}
		if base := f.Type; base.Kind() == reflect.Ptr && base.Elem().Kind() == reflect.Struct {
			path = append(path, promotionPath(base.Elem(), name)...)
		} else if base.Kind() == reflect.Struct {
			path = append(path, promotionPath(base, name)...)
		}

		return path
	}

	return nil
}

func providesMethod(t reflect.Type, name string) bool {
	if t.Kind() == reflect.Interface || t.Kind() == reflect.Ptr {
		_, ok := t.MethodByName(name)
		return ok
	}

	_, ok := reflect.PointerTo(t).MethodByName(name)

	return ok
}

// WritableMembers lists the exported fields of a struct type that can be set
// without allocating an embedded pointer, in declaration order.
func WritableMembers(t reflect.Type) ([]Member, error) {
	return fields(t, false)
}

func fields(t reflect.Type, throughPointers bool) ([]Member, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", TypeID(t))
	}

	var members []Member
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}

		// ambiguous promoted names are not reachable by name
		if byName, ok := t.FieldByName(f.Name); !ok || !sameIndex(byName.Index, f.Index) {
			continue
		}

		if !throughPointers && viaPointer(t, f.Index) {
			continue
		}

		tag, err := ParseTag(f.Tag)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", TypeID(t), f.Name, err)
		}

		members = append(members, Member{
			Name:  f.Name,
			Type:  f.Type,
			Tag:   tag,
			Index: f.Index,
		})
	}

	return members, nil
}

func sameIndex(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// viaPointer reports whether reaching the field walks through an embedded pointer.
func viaPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Ptr {
			return true
		}
		t = f.Type
	}

	return false
}

// FindMember returns the member with the given name.
func FindMember(members []Member, name string) (Member, bool) {
	for _, m := range members {
		if m.Name == name {
			return m, true
		}
	}

	return Member{}, false
}
