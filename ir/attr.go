package ir

import cil "github.com/keremc/cil"

// Attr is a named attribute with an ordered parameter list. Attribute
// lists throughout the IR are kept sorted by name; AddAttribute maintains
// the invariant.
type Attr struct {
	Name   string
	Params []AttrParam
}

// AttrParam is the small expression sub-language allowed inside attribute
// parameters.
type AttrParam interface {
	isAttrParam()
}

// AInt is an integer parameter.
type AInt struct {
	Value int
}

// AStr is a string parameter.
type AStr struct {
	Value string
}

// AVar references a variable by name.
type AVar struct {
	Name string
}

// ACons is a constructed parameter: a name applied to parameters.
// A name with no parameters is a bare identifier.
type ACons struct {
	Name   string
	Params []AttrParam
}

// ASizeOf is sizeof(type) inside an attribute.
type ASizeOf struct {
	T Type
}

// ASizeOfE is sizeof(param) inside an attribute.
type ASizeOfE struct {
	P AttrParam
}

// AUnOp applies a unary operator to a parameter.
type AUnOp struct {
	Op UnOp
	P  AttrParam
}

// ABinOp applies a binary operator to two parameters.
type ABinOp struct {
	Op    BinOp
	Left  AttrParam
	Right AttrParam
}

func (*AInt) isAttrParam()    {}
func (*AStr) isAttrParam()    {}
func (*AVar) isAttrParam()    {}
func (*ACons) isAttrParam()   {}
func (*ASizeOf) isAttrParam() {}
func (*ASizeOfE) isAttrParam() {}
func (*AUnOp) isAttrParam()   {}
func (*ABinOp) isAttrParam()  {}

// AttrEqual compares attributes structurally. Types inside parameters are
// compared by signature, so aliases of the same type compare equal.
func AttrEqual(a, b Attr) bool {
	if a.Name != b.Name || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !attrParamEqual(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return true
}

func attrParamEqual(a, b AttrParam) bool {
	switch x := a.(type) {
	case *AInt:
		y, ok := b.(*AInt)
		return ok && x.Value == y.Value
	case *AStr:
		y, ok := b.(*AStr)
		return ok && x.Value == y.Value
	case *AVar:
		y, ok := b.(*AVar)
		return ok && x.Name == y.Name
	case *ACons:
		y, ok := b.(*ACons)
		if !ok || x.Name != y.Name || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !attrParamEqual(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	case *ASizeOf:
		y, ok := b.(*ASizeOf)
		return ok && TypeSigEqual(TypeSig(x.T), TypeSig(y.T))
	case *ASizeOfE:
		y, ok := b.(*ASizeOfE)
		return ok && attrParamEqual(x.P, y.P)
	case *AUnOp:
		y, ok := b.(*AUnOp)
		return ok && x.Op == y.Op && attrParamEqual(x.P, y.P)
	case *ABinOp:
		y, ok := b.(*ABinOp)
		return ok && x.Op == y.Op && attrParamEqual(x.Left, y.Left) && attrParamEqual(x.Right, y.Right)
	}
	return false
}

// AddAttribute inserts a into a name-sorted attribute list. An exact
// duplicate is suppressed and the input list returned unchanged; distinct
// attributes with the same name are kept, the new one after the existing
// ones.
func AddAttribute(a Attr, al []Attr) []Attr {
	i := 0
	for i < len(al) && al[i].Name < a.Name {
		i++
	}
	j := i
	for j < len(al) && al[j].Name == a.Name {
		if AttrEqual(al[j], a) {
			return al
		}
		j++
	}
	out := make([]Attr, 0, len(al)+1)
	out = append(out, al[:j]...)
	out = append(out, a)
	out = append(out, al[j:]...)
	return out
}

// AddAttributes folds every attribute of al0 into al.
func AddAttributes(al0, al []Attr) []Attr {
	if len(al0) == 0 {
		return al
	}
	for _, a := range al0 {
		al = AddAttribute(a, al)
	}
	return al
}

// SortAttributes rebuilds the sort invariant on an arbitrary list,
// suppressing exact duplicates.
func SortAttributes(al []Attr) []Attr {
	var out []Attr
	for _, a := range al {
		out = AddAttribute(a, out)
	}
	return out
}

// DropAttribute removes every attribute with the given name. The input
// list is returned unchanged when nothing matches.
func DropAttribute(name string, al []Attr) []Attr {
	n := 0
	for _, a := range al {
		if a.Name == name {
			n++
		}
	}
	if n == 0 {
		return al
	}
	out := make([]Attr, 0, len(al)-n)
	for _, a := range al {
		if a.Name != name {
			out = append(out, a)
		}
	}
	return out
}

// FilterAttributes keeps only the attributes with the given name.
func FilterAttributes(name string, al []Attr) []Attr {
	var out []Attr
	for _, a := range al {
		if a.Name == name {
			out = append(out, a)
		}
	}
	return out
}

// HasAttribute reports whether the list contains an attribute with the
// given name.
func HasAttribute(name string, al []Attr) bool {
	for _, a := range al {
		if a.Name == name {
			return true
		}
	}
	return false
}

// AttrClass says what an attribute associates with when printing a
// declaration.
type AttrClass int

const (
	// AttrName associates the attribute with the name being declared.
	AttrName AttrClass = iota
	// AttrFunType attaches the attribute to the function type.
	AttrFunType
	// AttrType attaches the attribute to the underlying type.
	AttrType
)

type attrClassInfo struct {
	class AttrClass
	// For AttrName: print inside __declspec(...) in MSVC mode.
	// For AttrFunType: print immediately before the function name in MSVC
	// mode.
	flag bool
}

// attrClasses is the classification registry. Names not present use the
// caller-supplied default in PartitionAttributes.
var attrClasses = map[string]attrClassInfo{
	"section":                 {AttrName, true},
	"constructor":             {AttrName, true},
	"destructor":              {AttrName, true},
	"unused":                  {AttrName, false},
	"weak":                    {AttrName, false},
	"no_instrument_function":  {AttrName, false},
	"alias":                   {AttrName, false},
	"no_check_memory_usage":   {AttrName, false},
	"exception":               {AttrName, true},
	"model":                   {AttrName, true},
	"aconst":                  {AttrName, false},
	"boxmodel":                {AttrName, false},
	"thread":                  {AttrName, true},
	"naked":                   {AttrName, true},
	"dllimport":               {AttrName, true},
	"dllexport":               {AttrName, true},
	"selectany":               {AttrName, true},

	"format":   {AttrFunType, false},
	"regparm":  {AttrFunType, false},
	"noreturn": {AttrFunType, false},
	"pure":     {AttrFunType, false},
	"stdcall":  {AttrFunType, true},
	"cdecl":    {AttrFunType, true},
	"fastcall": {AttrFunType, true},

	"const":    {AttrType, false},
	"volatile": {AttrType, false},
	"restrict": {AttrType, false},
	"mode":     {AttrType, false},
}

// RegisterAttrClass adds or overrides a registry entry. Clients register
// their own attributes before printing.
func RegisterAttrClass(name string, class AttrClass, flag bool) {
	attrClasses[name] = attrClassInfo{class, flag}
}

// AttrClassOf looks up the registered class for a name, falling back to
// def for unknown names.
func AttrClassOf(name string, def AttrClass) AttrClass {
	if info, ok := attrClasses[name]; ok {
		return info.class
	}
	return def
}

// AttrClassFlag returns the registry subflag for a name: declspec
// placement for name-class attributes, before-the-name placement for
// function-type-class attributes.
func AttrClassFlag(name string) bool {
	if info, ok := attrClasses[name]; ok {
		return info.flag
	}
	return false
}

// PartitionAttributes splits a list into (name, function-type, type)
// classes using the registry, with def for unknown names.
func PartitionAttributes(def AttrClass, al []Attr) (names, funTypes, types []Attr) {
	for _, a := range al {
		switch AttrClassOf(a.Name, def) {
		case AttrName:
			names = AddAttribute(a, names)
		case AttrFunType:
			funTypes = AddAttribute(a, funTypes)
		default:
			types = AddAttribute(a, types)
		}
	}
	return names, funTypes, types
}

// msvcStorageModifiers are the attribute names that MSVC spells inside
// __declspec(...).
var msvcStorageModifiers = map[string]bool{
	"thread":    true,
	"naked":     true,
	"dllimport": true,
	"dllexport": true,
	"selectany": true,
}

// SeparateStorageModifiers partitions out MSVC storage-modifier names and
// rewraps them as declspec(<name>(...)) entries. A no-op unless the
// target is MSVC.
func SeparateStorageModifiers(m *cil.Machine, al []Attr) []Attr {
	if m == nil || !m.MSVC {
		return al
	}
	changed := false
	for _, a := range al {
		if msvcStorageModifiers[a.Name] {
			changed = true
			break
		}
	}
	if !changed {
		return al
	}
	var out []Attr
	for _, a := range al {
		if msvcStorageModifiers[a.Name] {
			wrapped := Attr{
				Name:   "declspec",
				Params: []AttrParam{&ACons{Name: a.Name, Params: a.Params}},
			}
			out = AddAttribute(wrapped, out)
		} else {
			out = AddAttribute(a, out)
		}
	}
	return out
}
