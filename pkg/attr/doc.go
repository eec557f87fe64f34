// Package attr maps reactive properties to an external string-keyed
// attribute representation and back.
//
// A [Converter] serializes a property value into its attribute form (or
// reports the attribute absent) and parses it back. Converters must satisfy
// the round-trip law: FromAttribute(ToAttribute(v)) == v for every legal v.
//
// A [Source] is the external attribute store a host reflects into. [MapSource]
// keeps attributes in memory; [FileSource] persists them to a YAML file and
// reports edits made by other processes through [FileSource.Watch].
package attr
