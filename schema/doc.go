// Package schema holds the canonical, source-agnostic schema model shared by
// the normalizer and every emitter.
//
// A [Document] owns an ordered set of named definitions. Each definition is a
// [Node], a recursive JSON-Schema-shaped value whose properties keep their
// insertion order. Serialising a Document produces the schema.json artifact:
//
//	{
//	  "type": "object",
//	  "title": "Schema",
//	  "definitions": { "<Name>": { ... } },
//	  "properties": { "<Name>": { "$ref": "#/definitions/<Name>" } }
//	}
//
// Every $ref inside a document must resolve to one of its definitions;
// [Document.CheckReferences] reports the first one that does not.
package schema
