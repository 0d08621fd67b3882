package runtime

import (
	"errors"
	"testing"
)

func TestTemplateMethodDispatch(t *testing.T) {
	rt := New()
	defer rt.Close()

	tmpl := rt.NewTemplate()
	tmpl.SetMethod("greet", func(this *Object, args []Value) (Value, error) {
		return String("hello"), nil
	})

	obj := tmpl.NewInstance()
	v, err := obj.Get("greet")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	fn, ok := v.(*Function)
	if !ok {
		t.Fatalf("Get(greet) = %T, want *Function", v)
	}
	if fn.Name() != "greet" {
		t.Errorf("Name() = %q, want greet", fn.Name())
	}

	result, err := fn.Call(obj)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result != String("hello") {
		t.Errorf("Call() = %v, want \"hello\"", result)
	}
}

func TestTemplateInherit(t *testing.T) {
	rt := New()
	defer rt.Close()

	base := rt.NewTemplate()
	base.SetMethod("baseMethod", func(this *Object, args []Value) (Value, error) {
		return Int(1), nil
	})

	derived := rt.NewTemplate()
	derived.Inherit(base)
	derived.SetMethod("derivedMethod", func(this *Object, args []Value) (Value, error) {
		return Int(2), nil
	})

	obj := derived.NewInstance()
	if !obj.Has("derivedMethod") {
		t.Error("instance lacks derivedMethod")
	}
	if !obj.Has("baseMethod") {
		t.Error("instance lacks inherited baseMethod")
	}

	// The chain is instance → derived proto → base proto.
	if obj.Prototype() != derived.PrototypeObject() {
		t.Error("instance prototype is not the derived prototype")
	}
	if obj.Prototype().Prototype() != base.PrototypeObject() {
		t.Error("derived prototype does not chain to the base prototype")
	}
}

func TestTemplateInheritAfterMaterialize(t *testing.T) {
	rt := New()
	defer rt.Close()

	derived := rt.NewTemplate()
	obj := derived.NewInstance() // forces the prototype into existence

	base := rt.NewTemplate()
	base.SetMethod("late", func(this *Object, args []Value) (Value, error) {
		return Int(1), nil
	})
	derived.Inherit(base)

	if !obj.Has("late") {
		t.Error("existing instance does not see method inherited after materialization")
	}
}

func TestTemplateAccessor(t *testing.T) {
	rt := New()
	defer rt.Close()

	backing := Int(5)
	tmpl := rt.NewTemplate()
	tmpl.SetAccessor("value",
		func(this *Object) (Value, error) { return backing, nil },
		func(this *Object, v Value) error { backing = v.(Int); return nil })

	obj := tmpl.NewInstance()
	v, err := obj.Get("value")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != Int(5) {
		t.Errorf("Get(value) = %v, want 5", v)
	}

	if err := obj.Set("value", Int(9)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if backing != Int(9) {
		t.Errorf("setter did not run: backing = %v", backing)
	}
}

func TestTemplateAccessorNilSetterIsReadOnly(t *testing.T) {
	rt := New()
	defer rt.Close()

	tmpl := rt.NewTemplate()
	tmpl.SetAccessor("ro", func(this *Object) (Value, error) { return Int(1), nil }, nil)

	obj := tmpl.NewInstance()
	if err := obj.Set("ro", Int(2)); err == nil {
		t.Fatal("write to read-only accessor succeeded")
	}
}

func TestTemplateConst(t *testing.T) {
	rt := New()
	defer rt.Close()

	tmpl := rt.NewTemplate()
	tmpl.SetConst("answer", Int(42))

	obj := tmpl.NewInstance()
	v, _ := obj.Get("answer")
	if v != Int(42) {
		t.Errorf("Get(answer) = %v, want 42", v)
	}
	if err := tmpl.PrototypeObject().Set("answer", Int(0)); err == nil {
		t.Error("write to const succeeded")
	}
	if tmpl.PrototypeObject().Delete("answer") {
		t.Error("const was deletable")
	}
}

func TestTemplateStatic(t *testing.T) {
	rt := New()
	defer rt.Close()

	tmpl := rt.NewTemplate()
	tmpl.SetStatic("version", String("1.0"))

	v, _ := tmpl.FunctionObject().Get("version")
	if v != String("1.0") {
		t.Errorf("static version = %v, want \"1.0\"", v)
	}

	// Statics live on the function object, not on instances.
	obj := tmpl.NewInstance()
	if obj.Has("version") {
		t.Error("static leaked onto instances")
	}
}

func TestTemplateConstruct(t *testing.T) {
	rt := New()
	defer rt.Close()

	tmpl := rt.NewTemplate()
	tmpl.SetConstruct(func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, NewScriptError("want one argument")
		}
		obj := tmpl.NewInstance()
		obj.DefineProperty("arg", args[0], 0)
		return obj, nil
	})

	v, err := tmpl.Construct(Int(3))
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	obj := AsObject(v)
	if obj == nil {
		t.Fatal("Construct did not return an object")
	}
	if got, _ := obj.Get("arg"); got != Int(3) {
		t.Errorf("arg = %v, want 3", got)
	}
}

func TestTemplateNotConstructible(t *testing.T) {
	rt := New()
	defer rt.Close()

	tmpl := rt.NewTemplate()
	_, err := tmpl.Construct()
	if err == nil {
		t.Fatal("Construct on callback-less template succeeded")
	}
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Errorf("error is %T, want *ScriptError", err)
	}
}
