package lockscript

import (
	"strings"
	"testing"
)

func TestNewTemplate(t *testing.T) {
	point := MustStructType("Point",
		Field{Name: "x", Type: IntType()},
		Field{Name: "y", Type: IntType()},
	)

	t.Run("valid", func(t *testing.T) {
		tpl, err := NewTemplate("Demo",
			"$p.x $p.y OP_ADD $limit OP_LESSTHAN OP_VERIFY",
			Param{Name: "p", Type: point},
			Param{Name: "limit", Type: IntType()},
		)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := []string{"p.x", "p.y", "limit"}
		got := tpl.Placeholders()
		if len(got) != len(want) {
			t.Fatalf("Expected %d placeholders, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Placeholder %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("marker appended", func(t *testing.T) {
		tpl, err := NewTemplate("Demo", "$x OP_CHECKSIG", Param{Name: "x", Type: BytesType()})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if tpl.Len() != 3 {
			t.Errorf("Expected 3 tokens with appended marker, got %d", tpl.Len())
		}
	})

	t.Run("explicit marker not duplicated", func(t *testing.T) {
		tpl, err := NewTemplate("Demo", "$x OP_CHECKSIG OP_RETURN", Param{Name: "x", Type: BytesType()})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if tpl.Len() != 3 {
			t.Errorf("Expected 3 tokens, got %d", tpl.Len())
		}
	})

	t.Run("placeholder order must follow traversal order", func(t *testing.T) {
		_, err := NewTemplate("Demo",
			"$p.y $p.x OP_ADD",
			Param{Name: "p", Type: point},
		)
		if err == nil {
			t.Fatal("Expected error for out-of-order placeholders")
		}
	})

	t.Run("missing placeholder", func(t *testing.T) {
		_, err := NewTemplate("Demo",
			"$p.x OP_DROP",
			Param{Name: "p", Type: point},
		)
		if err == nil {
			t.Fatal("Expected error for unbound leaf")
		}
	})

	t.Run("extra placeholder", func(t *testing.T) {
		_, err := NewTemplate("Demo",
			"$p.x $p.y $p.z",
			Param{Name: "p", Type: point},
		)
		if err == nil {
			t.Fatal("Expected error for placeholder beyond the leaf set")
		}
	})

	t.Run("duplicate parameter", func(t *testing.T) {
		_, err := NewTemplate("Demo", "$x $x",
			Param{Name: "x", Type: IntType()},
			Param{Name: "x", Type: IntType()},
		)
		if err == nil {
			t.Fatal("Expected error for duplicate parameter")
		}
	})

	t.Run("literal hex tokens", func(t *testing.T) {
		tpl, err := NewTemplate("Demo", "deadbeef $x OP_EQUAL", Param{Name: "x", Type: BytesType()})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if tpl.Len() != 4 {
			t.Errorf("Expected 4 tokens, got %d", tpl.Len())
		}
	})
}

func TestTemplateCompositePlaceholders(t *testing.T) {
	// Composites never appear as single placeholders: a template for a
	// struct parameter spells out every leaf.
	inner := MustStructType("Inner",
		Field{Name: "ns", Type: MustStructType("NS", Field{Name: "arr", Type: MustArrayType(IntType(), 2)})},
		Field{Name: "flag", Type: BoolType()},
	)
	leaves := inner.Leaves("c")

	paths := make([]string, len(leaves))
	for i, leaf := range leaves {
		paths[i] = "$" + leaf.Path
	}
	asm := strings.Join(paths, " ") + " OP_DROP"

	tpl, err := NewTemplate("Nested", asm, Param{Name: "c", Type: inner})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(tpl.Placeholders()) != 3 {
		t.Errorf("Expected 3 leaf placeholders, got %d", len(tpl.Placeholders()))
	}
}
