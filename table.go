package bigquerystorage

import "fmt"

// Table is a fully qualified BigQuery table reference. Immutable once
// constructed.
type Table struct {
	ProjectID string
	DatasetID string
	TableID   string
}

// NewTable builds a table reference from its three identifiers.
func NewTable(projectID, datasetID, tableID string) Table {
	return Table{ProjectID: projectID, DatasetID: datasetID, TableID: tableID}
}

// Path returns the canonical resource path,
// "projects/<p>/datasets/<d>/tables/<t>".
func (t Table) Path() string {
	return fmt.Sprintf("projects/%s/datasets/%s/tables/%s", t.ProjectID, t.DatasetID, t.TableID)
}

func (t Table) String() string { return t.Path() }
