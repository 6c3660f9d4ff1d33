// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with go/types to build an
// in-memory model of the structs of the loaded packages and their fields,
// which keyed-lint checks against the key rules.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/map/external)
//   - FieldInfo: describes field name, type, tags, embedding and position
package analyze
