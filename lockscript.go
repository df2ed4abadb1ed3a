// Package lockscript provides a typed argument codec and script-template
// engine for contract locking scripts.
//
// A contract compiler produces an asm template: an ordered token skeleton
// where literal opcodes appear verbatim and $-prefixed placeholders mark
// slots for constructor arguments. This library instantiates such templates
// with typed values, serializes the result into binary or textual script
// form, and matches arbitrary on-chain scripts back into the original typed
// arguments.
//
// # Basic Usage
//
// Declare an artifact, bind constructor arguments, and render:
//
//	point := lockscript.MustStructType("Point",
//	    lockscript.Field{Name: "x", Type: lockscript.IntType()},
//	    lockscript.Field{Name: "y", Type: lockscript.IntType()},
//	)
//
//	artifact := lockscript.MustArtifact("Demo",
//	    "$p.x $p.y OP_ADD $limit OP_LESSTHAN OP_VERIFY",
//	    []lockscript.Param{
//	        {Name: "p", Type: point},
//	        {Name: "limit", Type: lockscript.IntType()},
//	    },
//	    nil,
//	)
//
//	args := lockscript.NewArguments().
//	    Bind("p", lockscript.MustStruct(point, map[string]lockscript.Value{
//	        "x": lockscript.Int64(3),
//	        "y": lockscript.Int64(4),
//	    })).
//	    Bind("limit", lockscript.Int64(100))
//
//	instance, err := artifact.NewInstance(args)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	script := instance.LockingScript()
//
// A script observed on-chain round-trips back into typed values:
//
//	recovered, err := artifact.FromScript(script)
//	p, _ := recovered.Args().Arg("p")
//
// # Value Types
//
// Values form a tagged union over booleans, arbitrary-precision signed
// integers, byte strings, fixed-shape arrays, nested structs, and library
// values wrapping a struct as mutable state. Every value is checked
// against its TypeDescriptor at construction; a shape that disagrees with
// the declared type is rejected, never coerced.
//
// # Encoding
//
// Primitives use canonical script encodings: booleans as OP_0/OP_1,
// integers as minimal-length sign-and-magnitude little-endian script
// numbers, byte strings as raw pushes. Composites have no wire form of
// their own - their leaves are flattened in a deterministic traversal
// order (struct fields in declaration order, array elements in index
// order), and structure is rebuilt entirely from the TypeDescriptor. The
// codec is schema-directed, not self-describing: changing a contract's
// declared shape invalidates previously serialized scripts.
//
// # Stateful Contracts
//
// Every code part ends with the OP_RETURN end-of-code marker. Trailing
// tokens after the marker form the data part holding mutable contract
// state; NewStateScript produces the next output's script with a fresh
// data part while leaving the code part byte-identical.
package lockscript
