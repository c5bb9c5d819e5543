package models

// TableColumn is a discovered column with its canonical type.
type TableColumn struct {
	ColumnName        string        `json:"columnName"`
	DataType          string        `json:"dataType"`
	IsNullable        bool          `json:"isNullable"`
	MaxLength         *int          `json:"maxLength"`
	CanonicalDataType CanonicalType `json:"canonicalDataType"`
}

// TableSchema is the column listing of one table or view.
type TableSchema struct {
	TableName string        `json:"tableName"`
	Columns   []TableColumn `json:"columns"`
}

// AllowedTable is a table or view offered to users for query building.
type AllowedTable struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description" yaml:"description"`
}
