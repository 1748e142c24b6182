package tableview

import "github.com/easm/dashboard/internal/domain/inventory"

// Column ids that only exist in the table
const (
	ColumnSelect       = "select"
	ColumnCertificates = "certificates"
	ColumnActions      = "actions"
)

// Column describes one column of the asset table
type Column struct {
	ID       string `json:"id"`
	Header   string `json:"header"`
	Sortable bool   `json:"sortable"`
	Hideable bool   `json:"hideable"`
}

// AssetColumns is the column layout of the asset table, in display order
var AssetColumns = []Column{
	{ID: ColumnSelect},
	{ID: inventory.ColumnIdentifier, Header: "Asset", Sortable: true, Hideable: true},
	{ID: inventory.ColumnType, Header: "Type", Sortable: true, Hideable: true},
	{ID: inventory.ColumnStatus, Header: "Status", Sortable: true, Hideable: true},
	{ID: inventory.ColumnPorts, Header: "Ports", Sortable: true, Hideable: true},
	{ID: inventory.ColumnServices, Header: "Services", Sortable: true, Hideable: true},
	{ID: inventory.ColumnEndpoints, Header: "Endpoints", Sortable: true, Hideable: true},
	{ID: ColumnCertificates, Header: "Certificates", Hideable: true},
	{ID: inventory.ColumnLastSeen, Header: "Last Seen", Sortable: true, Hideable: true},
	{ID: ColumnActions},
}

func findColumn(id string) (Column, bool) {
	for _, c := range AssetColumns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}
