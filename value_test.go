package lockscript

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

func TestPrimitiveValues(t *testing.T) {
	t.Run("Bool", func(t *testing.T) {
		v := Bool(true)
		if !v.Bool() {
			t.Error("Expected true")
		}
		if v.Type().Kind() != KindBool {
			t.Errorf("Expected bool kind, got %s", v.Type().Kind())
		}
	})

	t.Run("Int copies its input", func(t *testing.T) {
		n := big.NewInt(42)
		v := Int(n)
		n.SetInt64(99)
		if v.Int().Int64() != 42 {
			t.Errorf("Expected 42, got %s", v.Int())
		}
	})

	t.Run("Int accessor returns a copy", func(t *testing.T) {
		v := Int64(7)
		v.Int().SetInt64(100)
		if v.Int().Int64() != 7 {
			t.Errorf("Expected 7, got %s", v.Int())
		}
	})

	t.Run("Bytes copies its input", func(t *testing.T) {
		b := []byte{1, 2, 3}
		v := Bytes(b)
		b[0] = 0xff
		if !bytes.Equal(v.Bytes(), []byte{1, 2, 3}) {
			t.Errorf("Expected 010203, got %x", v.Bytes())
		}
	})

	t.Run("empty bytes is a valid value", func(t *testing.T) {
		v := Bytes(nil)
		if len(v.Bytes()) != 0 {
			t.Errorf("Expected empty, got %x", v.Bytes())
		}
	})
}

func TestNewStruct(t *testing.T) {
	pt := MustStructType("Point",
		Field{Name: "x", Type: IntType()},
		Field{Name: "y", Type: IntType()},
	)

	t.Run("valid", func(t *testing.T) {
		v, err := NewStruct(pt, map[string]Value{
			"x": Int64(1),
			"y": Int64(2),
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		x, ok := v.Field("x")
		if !ok || x.(*IntValue).Int().Int64() != 1 {
			t.Error("Expected field x = 1")
		}
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := NewStruct(pt, map[string]Value{"x": Int64(1)})
		var tme *TypeMismatchError
		if !errors.As(err, &tme) {
			t.Fatalf("Expected TypeMismatchError, got %v", err)
		}
	})

	t.Run("extra field", func(t *testing.T) {
		_, err := NewStruct(pt, map[string]Value{
			"x": Int64(1),
			"y": Int64(2),
			"z": Int64(3),
		})
		if err == nil {
			t.Fatal("Expected error for extra field")
		}
	})

	t.Run("wrong field kind", func(t *testing.T) {
		_, err := NewStruct(pt, map[string]Value{
			"x": Int64(1),
			"y": Bool(true),
		})
		var tme *TypeMismatchError
		if !errors.As(err, &tme) {
			t.Fatalf("Expected TypeMismatchError, got %v", err)
		}
		if tme.Path != "Point.y" {
			t.Errorf("Expected path Point.y, got %s", tme.Path)
		}
	})
}

func TestNewArray(t *testing.T) {
	ty := MustArrayType(IntType(), 3)

	t.Run("valid", func(t *testing.T) {
		v, err := NewArray(ty, Int64(1), Int64(2), Int64(3))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v.Len() != 3 {
			t.Errorf("Expected length 3, got %d", v.Len())
		}
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := NewArray(ty, Int64(1), Int64(2))
		var tme *TypeMismatchError
		if !errors.As(err, &tme) {
			t.Fatalf("Expected TypeMismatchError, got %v", err)
		}
	})

	t.Run("wrong element kind", func(t *testing.T) {
		_, err := NewArray(ty, Int64(1), Bool(false), Int64(3))
		if err == nil {
			t.Fatal("Expected error for wrong element kind")
		}
	})

	t.Run("nested dimensions", func(t *testing.T) {
		grid := MustArrayType(IntType(), 2, 2)
		row := MustArrayType(IntType(), 2)
		v, err := NewArray(grid,
			MustArray(row, Int64(1), Int64(2)),
			MustArray(row, Int64(3), Int64(4)),
		)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		inner := v.At(1).(*ArrayValue)
		if inner.At(0).(*IntValue).Int().Int64() != 3 {
			t.Error("Expected [1][0] = 3")
		}
	})

	t.Run("flat elements for nested shape rejected", func(t *testing.T) {
		grid := MustArrayType(IntType(), 2, 2)
		_, err := NewArray(grid, Int64(1), Int64(2))
		if err == nil {
			t.Fatal("Expected error binding scalars to a nested array shape")
		}
	})
}

func TestNewLibrary(t *testing.T) {
	state := MustStructType("CounterState", Field{Name: "count", Type: IntType()})
	lib := MustLibraryType("Counter", state)

	t.Run("valid", func(t *testing.T) {
		v, err := NewLibrary(lib, MustStruct(state, map[string]Value{"count": Int64(0)}))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		c, _ := v.State().Field("count")
		if c.(*IntValue).Int().Sign() != 0 {
			t.Error("Expected count = 0")
		}
	})

	t.Run("wrong state schema", func(t *testing.T) {
		other := MustStructType("Other", Field{Name: "n", Type: IntType()})
		_, err := NewLibrary(lib, MustStruct(other, map[string]Value{"n": Int64(1)}))
		if err == nil {
			t.Fatal("Expected error for mismatched state schema")
		}
	})
}

func TestFlattenBuildRoundTrip(t *testing.T) {
	meta := MustStructType("Meta",
		Field{Name: "xs", Type: MustArrayType(IntType(), 2)},
		Field{Name: "ok", Type: BoolType()},
	)
	outer := MustStructType("Outer",
		Field{Name: "tag", Type: BytesType()},
		Field{Name: "m", Type: meta},
	)

	v := MustStruct(outer, map[string]Value{
		"tag": Bytes([]byte{0xde, 0xad}),
		"m": MustStruct(meta, map[string]Value{
			"xs": MustArray(MustArrayType(IntType(), 2), Int64(-5), Int64(1000)),
			"ok": Bool(true),
		}),
	})

	flat := flatten(v)
	if len(flat) != 4 {
		t.Fatalf("Expected 4 leaves, got %d", len(flat))
	}

	leaves := make(map[string]Value)
	for i, leaf := range outer.Leaves("c") {
		leaves[leaf.Path] = flat[i]
	}
	rebuilt, err := buildValue(outer, "c", leaves)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !Equal(v, rebuilt) {
		t.Error("Expected flatten/build round trip to preserve the value")
	}
}

func TestValueEqual(t *testing.T) {
	t.Run("ints by numeric value", func(t *testing.T) {
		if !Equal(Int64(5), Int(big.NewInt(5))) {
			t.Error("Expected 5 == 5")
		}
		if Equal(Int64(5), Int64(-5)) {
			t.Error("Expected 5 != -5")
		}
	})

	t.Run("bytes byte-for-byte", func(t *testing.T) {
		if !Equal(Bytes([]byte{1}), Bytes([]byte{1})) {
			t.Error("Expected equal bytes")
		}
		if Equal(Bytes(nil), Bytes([]byte{0})) {
			t.Error("Expected empty != 00")
		}
	})

	t.Run("cross-kind never equal", func(t *testing.T) {
		if Equal(Bool(true), Int64(1)) {
			t.Error("Expected bool != int")
		}
	})
}
