package modelgen

// Kinds of emitted type declarations.
const (
	KindStruct = "struct"
	KindEnum   = "enum"
	KindAlias  = "alias"
	KindUnion  = "union"
)

// HeaderData contains data for the file header.
type HeaderData struct {
	Comment     string
	PackageName string
	Imports     []string
}

// FieldData contains data for a struct field. An empty Name declares an
// embedded field.
type FieldData struct {
	Comment string
	Name    string
	Type    string
	Tags    string
}

// StructData contains data for a struct type.
type StructData struct {
	Comment             string
	TypeName            string
	OriginalName        string
	Fields              []FieldData
	HasAdditionalProps  bool
	AdditionalPropsType string
}

// EnumValueData contains data for a single enum value.
type EnumValueData struct {
	ConstName string
	Type      string
	Value     string
}

// EnumData contains data for an enum type.
type EnumData struct {
	Comment  string
	TypeName string
	BaseType string
	Values   []EnumValueData
}

// AliasData contains data for a defined type or a type alias.
type AliasData struct {
	Comment    string
	TypeName   string
	TargetType string
	IsAlias    bool // true for type alias (=), false for defined type
}

// UnionVariant is one accessor pair of a union type.
type UnionVariant struct {
	Name string
	Type string
}

// UnionData contains data for an anyOf/oneOf union backed by raw JSON.
type UnionData struct {
	Comment  string
	TypeName string
	Variants []UnionVariant
}

// TypeDefinition is one emitted declaration. Exactly one of the data
// pointers matching Kind is set.
type TypeDefinition struct {
	Kind string

	Struct *StructData
	Enum   *EnumData
	Alias  *AliasData
	Union  *UnionData
}

// TypesFileData contains all data for a models file.
type TypesFileData struct {
	Header HeaderData
	Types  []TypeDefinition
}
