package entity

import (
	"bytes"
	"encoding/json"
)

// Dataset kinds, used as URL segments.
const (
	KindEntries    = "entries"
	KindDelays     = "delays"
	KindBreakages  = "breakages"
	KindComplaints = "complaints"
)

// Field is one named column value of a record.
type Field struct {
	Name  string
	Value any
}

// Record is a flat, ordered view of one stored row.
type Record []Field

// Names returns the column names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}

	return names
}

// Get returns the value of the named column.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}

	return nil, false
}

// MarshalJSON encodes the record as an object keeping column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
