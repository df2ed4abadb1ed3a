package lockscript

import (
	"testing"
)

const counterArtifactJSON = `{
	"contract": "Counter",
	"asm": "$owner OP_CHECKSIG",
	"params": [
		{"name": "owner", "type": {"prim": "bytes"}}
	],
	"state": {
		"struct": "CounterState",
		"fields": [
			{"name": "count", "type": {"prim": "int"}},
			{"name": "live", "type": {"prim": "bool"}}
		]
	}
}`

func TestParseArtifact(t *testing.T) {
	a, err := ParseArtifact([]byte(counterArtifactJSON))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	t.Run("shape", func(t *testing.T) {
		if a.Name() != "Counter" {
			t.Errorf("Expected name Counter, got %s", a.Name())
		}
		params := a.Template().Params()
		if len(params) != 1 || params[0].Name != "owner" {
			t.Fatalf("Expected one owner parameter, got %v", params)
		}
		if params[0].Type.Kind() != KindBytes {
			t.Errorf("Expected bytes parameter, got %s", params[0].Type.Kind())
		}
		state := a.StateType()
		if state == nil || state.Kind() != KindStruct || len(state.Fields()) != 2 {
			t.Fatalf("Expected a two-field state struct, got %s", state)
		}
	})

	t.Run("matches the hand-built artifact", func(t *testing.T) {
		built := counterArtifact(t)
		if !a.StateType().Equal(built.StateType()) {
			t.Error("Expected parsed state type to equal the hand-built one")
		}
	})

	t.Run("usable end to end", func(t *testing.T) {
		args := NewArguments().Bind("owner", Bytes(make([]byte, 33)))
		si, err := a.NewInstance(args)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := si.SetState(counterState(5, true)); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, err := a.FromScript(si.LockingScript()); err != nil {
			t.Fatalf("Expected round trip to succeed, got %v", err)
		}
	})
}

func TestParseArtifactComposites(t *testing.T) {
	raw := `{
		"contract": "Grid",
		"asm": "$board[0][0] $board[0][1] $board[1][0] $board[1][1] OP_DROP",
		"params": [
			{"name": "board", "type": {"elem": {"prim": "int"}, "dims": [2, 2]}}
		]
	}`
	a, err := ParseArtifact([]byte(raw))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	ty := a.Template().Params()[0].Type
	if ty.Kind() != KindArray {
		t.Fatalf("Expected array parameter, got %s", ty.Kind())
	}
	if dims := ty.Dims(); len(dims) != 2 || dims[0] != 2 || dims[1] != 2 {
		t.Errorf("Expected 2x2 dims, got %v", dims)
	}
}

func TestParseArtifactErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"contract": `},
		{"unknown primitive", `{"contract": "X", "asm": "$a OP_DROP", "params": [{"name": "a", "type": {"prim": "uint256"}}]}`},
		{"empty type object", `{"contract": "X", "asm": "$a OP_DROP", "params": [{"name": "a", "type": {}}]}`},
		{"library without state", `{"contract": "X", "asm": "OP_NOP", "params": [], "state": {"library": "L"}}`},
		{"placeholder mismatch", `{"contract": "X", "asm": "$b OP_DROP", "params": [{"name": "a", "type": {"prim": "int"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseArtifact([]byte(tt.raw)); err == nil {
				t.Fatal("Expected an error")
			}
		})
	}
}
