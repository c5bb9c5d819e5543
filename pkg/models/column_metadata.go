package models

import "encoding/json"

// ColumnMetadata describes one resolved column of a saved query.
type ColumnMetadata struct {
	ColumnName        string        `json:"columnName"`
	DataType          string        `json:"dataType"`
	CanonicalDataType CanonicalType `json:"canonicalDataType"`
}

// NewColumnMetadata maps the native type and returns the column triple.
func NewColumnMetadata(name, nativeType string) ColumnMetadata {
	return ColumnMetadata{
		ColumnName:        name,
		DataType:          nativeType,
		CanonicalDataType: MapNativeType(nativeType),
	}
}

// UnmarshalJSON accepts records written before the canonical type was renamed
// (revealDataType) and fills a missing canonical type from the native one.
func (c *ColumnMetadata) UnmarshalJSON(data []byte) error {
	type plain ColumnMetadata
	var aux struct {
		plain
		RevealDataType CanonicalType `json:"revealDataType"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = ColumnMetadata(aux.plain)
	if c.CanonicalDataType == "" {
		c.CanonicalDataType = aux.RevealDataType
	}
	if c.CanonicalDataType == "" {
		c.CanonicalDataType = MapNativeType(c.DataType)
	}
	return nil
}
