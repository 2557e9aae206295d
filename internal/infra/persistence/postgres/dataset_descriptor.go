package postgres

import (
	"sync"
	"time"

	"indicators/internal/domain/entity"
	"indicators/internal/domain/query"
	"indicators/internal/errors"
	"indicators/internal/infra/persistence/model"

	"gorm.io/datatypes"
	"gorm.io/gorm/schema"
)

// FilterSet marks which optional listing filters a kind understands.
type FilterSet uint8

const (
	FilterCustomer FilterSet = 1 << iota
	FilterSector
)

func (f FilterSet) Has(flag FilterSet) bool {
	return f&flag != 0
}

// Column is one exposed column and how to read it from a stored row.
type Column[T any] struct {
	Name  string
	Value func(row *T) any
}

// Descriptor is the table-driven definition of one dataset kind.
// Columns is the closed set used for output, CSV headers and sorting.
type Descriptor[T model.Record] struct {
	Kind          string
	Columns       []Column[T]
	Filters       FilterSet
	ImportColumns []string
	Build         func(r *fieldReader) *T
}

// Validate checks every declared column against the GORM schema of T.
func (d Descriptor[T]) Validate() error {
	sch, err := schema.Parse(new(T), &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return errors.Wrapf(err, "parse schema of %s", d.Kind)
	}

	names := make([]string, 0, len(d.Columns)+len(d.ImportColumns))
	for _, c := range d.Columns {
		names = append(names, c.Name)
	}
	names = append(names, d.ImportColumns...)

	for _, name := range names {
		if sch.LookUpField(name) == nil {
			return errors.Errorf("dataset %s: column %q is not a field of table %s", d.Kind, name, sch.Table)
		}
	}
	if !d.hasColumn("id") {
		return errors.Errorf("dataset %s: id column is required for default ordering", d.Kind)
	}
	if d.Filters.Has(FilterCustomer) && !d.hasColumn("customer") {
		return errors.Errorf("dataset %s: customer filter without customer column", d.Kind)
	}
	if d.Filters.Has(FilterSector) && !d.hasColumn("sector") {
		return errors.Errorf("dataset %s: sector filter without sector column", d.Kind)
	}
	if d.Build == nil {
		return errors.Errorf("dataset %s: missing builder", d.Kind)
	}

	return nil
}

func (d Descriptor[T]) hasColumn(name string) bool {
	for _, c := range d.Columns {
		if c.Name == name {
			return true
		}
	}

	return false
}

func (d Descriptor[T]) columnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}

	return names
}

// flatten renders a stored row as an ordered record.
func (d Descriptor[T]) flatten(row *T) entity.Record {
	rec := make(entity.Record, len(d.Columns))
	for i, c := range d.Columns {
		rec[i] = entity.Field{Name: c.Name, Value: c.Value(row)}
	}

	return rec
}

func (d Descriptor[T]) build(values map[string]any) (*T, error) {
	r := newFieldReader(values)
	row := d.Build(r)
	if err := r.Err(); err != nil {
		return nil, err
	}

	return row, nil
}

func dateValue(d datatypes.Date) any {
	return query.FormatDate(time.Time(d))
}

func optional[V any](p *V) any {
	if p == nil {
		return nil
	}

	return *p
}

func entryDescriptor() Descriptor[model.EntryModel] {
	return Descriptor[model.EntryModel]{
		Kind: entity.KindEntries,
		Columns: []Column[model.EntryModel]{
			{Name: "id", Value: func(m *model.EntryModel) any { return m.ID }},
			{Name: "date", Value: func(m *model.EntryModel) any { return dateValue(m.Date) }},
			{Name: "shift", Value: func(m *model.EntryModel) any { return m.Shift }},
			{Name: "pedidos_m2", Value: func(m *model.EntryModel) any { return m.PedidosM2 }},
			{Name: "forno_m2", Value: func(m *model.EntryModel) any { return m.FornoM2 }},
			{Name: "notes", Value: func(m *model.EntryModel) any { return optional(m.Notes) }},
		},
		ImportColumns: []string{"date", "shift", "pedidos_m2", "forno_m2", "notes"},
		Build: func(r *fieldReader) *model.EntryModel {
			return &model.EntryModel{
				Date:      r.Date("date"),
				Shift:     r.Text("shift"),
				PedidosM2: r.Number("pedidos_m2"),
				FornoM2:   r.Number("forno_m2"),
				Notes:     r.OptionalText("notes"),
			}
		},
	}
}

func delayDescriptor() Descriptor[model.DelayModel] {
	return Descriptor[model.DelayModel]{
		Kind: entity.KindDelays,
		Columns: []Column[model.DelayModel]{
			{Name: "id", Value: func(m *model.DelayModel) any { return m.ID }},
			{Name: "date", Value: func(m *model.DelayModel) any { return dateValue(m.Date) }},
			{Name: "order_code", Value: func(m *model.DelayModel) any { return m.OrderCode }},
			{Name: "customer", Value: func(m *model.DelayModel) any { return m.Customer }},
			{Name: "days_late", Value: func(m *model.DelayModel) any { return m.DaysLate }},
			{Name: "reason", Value: func(m *model.DelayModel) any { return m.Reason }},
			{Name: "order_value", Value: func(m *model.DelayModel) any { return optional(m.OrderValue) }},
		},
		Filters:       FilterCustomer,
		ImportColumns: []string{"date", "order_code", "customer", "days_late", "reason", "order_value"},
		Build: func(r *fieldReader) *model.DelayModel {
			return &model.DelayModel{
				Date:       r.Date("date"),
				OrderCode:  r.Text("order_code"),
				Customer:   r.Text("customer"),
				DaysLate:   r.Number("days_late"),
				Reason:     r.Text("reason"),
				OrderValue: r.OptionalNumber("order_value"),
			}
		},
	}
}

func breakageDescriptor() Descriptor[model.BreakageModel] {
	return Descriptor[model.BreakageModel]{
		Kind: entity.KindBreakages,
		Columns: []Column[model.BreakageModel]{
			{Name: "id", Value: func(m *model.BreakageModel) any { return m.ID }},
			{Name: "date", Value: func(m *model.BreakageModel) any { return dateValue(m.Date) }},
			{Name: "sector", Value: func(m *model.BreakageModel) any { return m.Sector }},
			{Name: "type", Value: func(m *model.BreakageModel) any { return m.Type }},
			{Name: "operator", Value: func(m *model.BreakageModel) any { return optional(m.Operator) }},
			{Name: "qty_m2", Value: func(m *model.BreakageModel) any { return m.QtyM2 }},
			{Name: "notes", Value: func(m *model.BreakageModel) any { return optional(m.Notes) }},
		},
		Filters:       FilterSector,
		ImportColumns: []string{"date", "sector", "type", "operator", "qty_m2", "notes"},
		Build: func(r *fieldReader) *model.BreakageModel {
			return &model.BreakageModel{
				Date:     r.Date("date"),
				Sector:   r.Text("sector"),
				Type:     r.Text("type"),
				Operator: r.OptionalText("operator"),
				QtyM2:    r.Number("qty_m2"),
				Notes:    r.OptionalText("notes"),
			}
		},
	}
}

func complaintDescriptor() Descriptor[model.ComplaintModel] {
	return Descriptor[model.ComplaintModel]{
		Kind: entity.KindComplaints,
		Columns: []Column[model.ComplaintModel]{
			{Name: "id", Value: func(m *model.ComplaintModel) any { return m.ID }},
			{Name: "date", Value: func(m *model.ComplaintModel) any { return dateValue(m.Date) }},
			{Name: "customer", Value: func(m *model.ComplaintModel) any { return m.Customer }},
			{Name: "type", Value: func(m *model.ComplaintModel) any { return m.Type }},
			{Name: "qty", Value: func(m *model.ComplaintModel) any { return m.Qty }},
			{Name: "description", Value: func(m *model.ComplaintModel) any { return optional(m.Description) }},
		},
		ImportColumns: []string{"date", "customer", "type", "qty", "description"},
		Build: func(r *fieldReader) *model.ComplaintModel {
			return &model.ComplaintModel{
				Date:        r.Date("date"),
				Customer:    r.Text("customer"),
				Type:        r.Text("type"),
				Qty:         r.Number("qty"),
				Description: r.OptionalText("description"),
			}
		},
	}
}
