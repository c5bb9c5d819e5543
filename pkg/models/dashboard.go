package models

import (
	"time"

	"github.com/google/uuid"
)

// DashboardFilePrefix and DashboardFileExt form the artifact name user_<id>.rdash.
const (
	DashboardFilePrefix = "user_"
	DashboardFileExt    = ".rdash"
)

// DashboardID returns the dashboard id associated with a query id.
func DashboardID(queryID uuid.UUID) string {
	return DashboardFilePrefix + queryID.String()
}

// DashboardFileName returns the artifact file name associated with a query id.
func DashboardFileName(queryID uuid.UUID) string {
	return DashboardID(queryID) + DashboardFileExt
}

// GridDashboard is the renderable grid artifact generated from a query definition.
type GridDashboard struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	DataSource     DashboardSource    `json:"dataSource"`
	DataSourceItem DashboardSourceRef `json:"dataSourceItem"`
	Visualization  GridVisualization  `json:"visualization"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// DashboardSource names the datasource a dashboard reads from.
type DashboardSource struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// DashboardSourceRef binds a dashboard to a saved query by id.
type DashboardSourceRef struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle"`
	Fields   []DashboardField `json:"fields"`
}

// DashboardField is one typed field of a dashboard data source item.
type DashboardField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// GridVisualization is a paged grid bound to a data source item.
type GridVisualization struct {
	Type         string       `json:"type"`
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ColumnSpan   int          `json:"columnSpan"`
	RowSpan      int          `json:"rowSpan"`
	TitleVisible bool         `json:"titleVisible"`
	Columns      []string     `json:"columns"`
	Settings     GridSettings `json:"settings"`
}

// GridSettings holds display options for a grid visualization.
type GridSettings struct {
	FontSize         string `json:"fontSize"`
	PageSize         int    `json:"pageSize"`
	PagingEnabled    bool   `json:"pagingEnabled"`
	FirstColumnFixed bool   `json:"firstColumnFixed"`
}

// DashboardName pairs a dashboard file stem with its title.
type DashboardName struct {
	DashboardFileName string `json:"dashboardFileName"`
	DashboardTitle    string `json:"dashboardTitle"`
}
