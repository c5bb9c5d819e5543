package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryRecordVersion is the format version of structured query records.
// Structured records written without a version are read as this version;
// records synthesized from legacy plain-text files carry version 0.
const QueryRecordVersion = 1

// QueryDefinition is a saved single-table projection and the SQL derived from it.
type QueryDefinition struct {
	ID           uuid.UUID        `json:"id"`
	FriendlyName string           `json:"friendlyName"`
	Description  string           `json:"description"`
	TableName    string           `json:"tableName"`
	Fields       []string         `json:"fields"`
	Columns      []ColumnMetadata `json:"columns"`
	Query        string           `json:"query"`
	DateAdded    time.Time        `json:"dateAdded"`
	DateUpdated  time.Time        `json:"dateUpdated"`
	Version      int              `json:"version,omitempty"`
}

// QuerySummary is the lightweight listing projection of a stored query.
type QuerySummary struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"fileName"`
	FriendlyName string    `json:"friendlyName"`
	Description  string    `json:"description"`
	TableName    string    `json:"tableName"`
	DateAdded    time.Time `json:"dateAdded"`
	DateUpdated  time.Time `json:"dateUpdated"`
	FieldCount   int       `json:"fieldCount"`
	Legacy       bool      `json:"legacy"`
}

// Summary projects the definition into a listing entry stored under fileName.
// legacy marks entries read from a plain-text record.
func (q *QueryDefinition) Summary(fileName string, legacy bool) QuerySummary {
	return QuerySummary{
		ID:           q.ID,
		FileName:     fileName,
		FriendlyName: q.FriendlyName,
		Description:  q.Description,
		TableName:    q.TableName,
		DateAdded:    q.DateAdded,
		DateUpdated:  q.DateUpdated,
		FieldCount:   len(q.Fields),
		Legacy:       legacy,
	}
}

// Delete targets reported by a cascading query delete.
const (
	DeleteTargetQuery     = "query"
	DeleteTargetDashboard = "dashboard"
)

// DeleteTargetStatus records whether one file of a cascading delete was removed.
type DeleteTargetStatus struct {
	Target   string `json:"target"`
	FileName string `json:"fileName"`
	Removed  bool   `json:"removed"`
}

// DeleteResult is the outcome of deleting a query and its dashboard artifact.
type DeleteResult struct {
	Targets []DeleteTargetStatus `json:"targets"`
}

// DeletedFiles returns the file names that were actually removed, in target order.
func (r *DeleteResult) DeletedFiles() []string {
	files := make([]string, 0, len(r.Targets))
	for _, t := range r.Targets {
		if t.Removed {
			files = append(files, t.FileName)
		}
	}
	return files
}

// AnyRemoved reports whether at least one target was removed.
func (r *DeleteResult) AnyRemoved() bool {
	for _, t := range r.Targets {
		if t.Removed {
			return true
		}
	}
	return false
}
