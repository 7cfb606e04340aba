package ir_test

import (
	"reflect"
	"testing"

	cil "github.com/keremc/cil"
	"github.com/keremc/cil/ir"
)

func attr(name string, params ...ir.AttrParam) ir.Attr {
	return ir.Attr{Name: name, Params: params}
}

func TestAddAttributeSorted(t *testing.T) {
	var al []ir.Attr
	for _, name := range []string{"zeta", "alpha", "mid"} {
		al = ir.AddAttribute(attr(name), al)
	}
	got := make([]string, len(al))
	for i, a := range al {
		got[i] = a.Name
	}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func TestAddAttributeIdempotent(t *testing.T) {
	a := attr("aligned", &ir.AInt{Value: 4})
	once := ir.AddAttribute(a, nil)
	twice := ir.AddAttribute(a, once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("adding the same attribute twice changed the list: %v vs %v", once, twice)
	}
	if len(twice) != 1 {
		t.Errorf("duplicate was not suppressed: %v", twice)
	}
}

func TestAddAttributeSameNameDifferentValue(t *testing.T) {
	al := ir.AddAttribute(attr("aligned", &ir.AInt{Value: 4}), nil)
	al = ir.AddAttribute(attr("aligned", &ir.AInt{Value: 8}), al)
	if len(al) != 2 {
		t.Fatalf("distinct values with the same name must both survive: %v", al)
	}
	if al[0].Params[0].(*ir.AInt).Value != 4 || al[1].Params[0].(*ir.AInt).Value != 8 {
		t.Errorf("insertion order among equal names not preserved: %v", al)
	}
}

func TestAddAttributes(t *testing.T) {
	l := ir.AddAttribute(attr("const"), ir.AddAttribute(attr("volatile"), nil))
	if got := ir.AddAttributes(l, nil); !reflect.DeepEqual(got, l) {
		t.Errorf("addAttributes(L, []) = %v, want %v", got, l)
	}
	m := ir.AddAttribute(attr("restrict"), nil)
	merged := ir.AddAttributes(l, m)
	names := make([]string, len(merged))
	for i, a := range merged {
		names[i] = a.Name
	}
	want := []string{"const", "restrict", "volatile"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("merged names = %v, want %v", names, want)
	}
}

func TestDropFilterHas(t *testing.T) {
	al := ir.AddAttribute(attr("const"), nil)
	al = ir.AddAttribute(attr("aligned", &ir.AInt{Value: 4}), al)
	al = ir.AddAttribute(attr("aligned", &ir.AInt{Value: 8}), al)

	if !ir.HasAttribute("aligned", al) {
		t.Errorf("hasAttribute missed aligned")
	}
	if got := ir.FilterAttributes("aligned", al); len(got) != 2 {
		t.Errorf("filterAttributes kept %d, want 2", len(got))
	}
	dropped := ir.DropAttribute("aligned", al)
	if ir.HasAttribute("aligned", dropped) || len(dropped) != 1 {
		t.Errorf("dropAttribute left %v", dropped)
	}
	// Dropping an absent name keeps the list.
	same := ir.DropAttribute("nosuch", al)
	if len(same) != len(al) {
		t.Errorf("dropping an absent name changed the list")
	}
}

func TestPartitionAttributes(t *testing.T) {
	al := ir.AddAttribute(attr("const"), nil)
	al = ir.AddAttribute(attr("section", &ir.AStr{Value: ".text"}), al)
	al = ir.AddAttribute(attr("stdcall"), al)
	al = ir.AddAttribute(attr("totally_unknown"), al)

	names, funTypes, types := ir.PartitionAttributes(ir.AttrName, al)
	has := func(al []ir.Attr, name string) bool { return ir.HasAttribute(name, al) }

	if !has(names, "section") || !has(names, "totally_unknown") {
		t.Errorf("name class wrong: %v", names)
	}
	if !has(funTypes, "stdcall") {
		t.Errorf("funtype class wrong: %v", funTypes)
	}
	if !has(types, "const") {
		t.Errorf("type class wrong: %v", types)
	}
}

func TestSeparateStorageModifiers(t *testing.T) {
	al := ir.AddAttribute(attr("dllimport"), nil)
	al = ir.AddAttribute(attr("const"), al)

	if got := ir.SeparateStorageModifiers(cil.GCC64(), al); !reflect.DeepEqual(got, al) {
		t.Errorf("gcc mode must be a no-op")
	}

	got := ir.SeparateStorageModifiers(cil.MSVC32(), al)
	if ir.HasAttribute("dllimport", got) {
		t.Errorf("dllimport not rewrapped: %v", got)
	}
	ds := ir.FilterAttributes("declspec", got)
	if len(ds) != 1 {
		t.Fatalf("expected one declspec, got %v", got)
	}
	cons, ok := ds[0].Params[0].(*ir.ACons)
	if !ok || cons.Name != "dllimport" {
		t.Errorf("declspec payload = %v", ds[0].Params)
	}
	if !ir.HasAttribute("const", got) {
		t.Errorf("const must survive separation: %v", got)
	}
}
