package models

import "strings"

// CanonicalType is the reduced type vocabulary shared by query metadata and
// dashboard field construction.
type CanonicalType string

const (
	CanonicalString  CanonicalType = "String"
	CanonicalNumber  CanonicalType = "Number"
	CanonicalDate    CanonicalType = "Date"
	CanonicalTime    CanonicalType = "Time"
	CanonicalBoolean CanonicalType = "Boolean"
)

var nativeTypes = map[string]CanonicalType{
	// character and text-like
	"character varying": CanonicalString,
	"varchar":           CanonicalString,
	"char":              CanonicalString,
	"character":         CanonicalString,
	"bpchar":            CanonicalString,
	"text":              CanonicalString,
	"citext":            CanonicalString,
	"uuid":              CanonicalString,
	"nvarchar":          CanonicalString,
	"nchar":             CanonicalString,
	"ntext":             CanonicalString,
	"uniqueidentifier":  CanonicalString,
	"string":            CanonicalString,
	"json":              CanonicalString,
	"jsonb":             CanonicalString,
	"xml":               CanonicalString,

	// integers
	"smallint":    CanonicalNumber,
	"integer":     CanonicalNumber,
	"int":         CanonicalNumber,
	"bigint":      CanonicalNumber,
	"tinyint":     CanonicalNumber,
	"mediumint":   CanonicalNumber,
	"hugeint":     CanonicalNumber,
	"int2":        CanonicalNumber,
	"int4":        CanonicalNumber,
	"int8":        CanonicalNumber,
	"smallserial": CanonicalNumber,
	"serial":      CanonicalNumber,
	"bigserial":   CanonicalNumber,

	// floating, decimal and money
	"numeric":          CanonicalNumber,
	"decimal":          CanonicalNumber,
	"real":             CanonicalNumber,
	"double precision": CanonicalNumber,
	"double":           CanonicalNumber,
	"float":            CanonicalNumber,
	"float4":           CanonicalNumber,
	"float8":           CanonicalNumber,
	"money":            CanonicalNumber,
	"smallmoney":       CanonicalNumber,

	// dates and timestamps
	"date":                        CanonicalDate,
	"timestamp":                   CanonicalDate,
	"timestamp without time zone": CanonicalDate,
	"timestamp with time zone":    CanonicalDate,
	"timestamptz":                 CanonicalDate,
	"datetime":                    CanonicalDate,
	"datetime2":                   CanonicalDate,
	"smalldatetime":               CanonicalDate,
	"datetimeoffset":              CanonicalDate,

	// time of day
	"time":                   CanonicalTime,
	"time without time zone": CanonicalTime,
	"time with time zone":    CanonicalTime,
	"timetz":                 CanonicalTime,

	"boolean": CanonicalBoolean,
	"bool":    CanonicalBoolean,
	"bit":     CanonicalBoolean,
}

// MapNativeType maps a database type name to its canonical type.
// Matching is case-insensitive and ignores a length or precision suffix,
// so "VARCHAR(255)" and "numeric(10,2)" resolve like their bare names.
// Unrecognized names map to String.
func MapNativeType(native string) CanonicalType {
	name := strings.ToLower(strings.TrimSpace(native))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if t, ok := nativeTypes[name]; ok {
		return t
	}
	return CanonicalString
}

// Dashboard field kinds.
const (
	FieldKindText   = "text"
	FieldKindNumber = "number"
	FieldKindDate   = "date"
)

// FieldKind returns the dashboard field kind used to render a column of this type.
// Time columns render as dates; Boolean columns render as text.
func (t CanonicalType) FieldKind() string {
	switch t {
	case CanonicalNumber:
		return FieldKindNumber
	case CanonicalDate, CanonicalTime:
		return FieldKindDate
	default:
		return FieldKindText
	}
}
