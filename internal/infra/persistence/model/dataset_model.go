package model

import "gorm.io/datatypes"

// Record is implemented by the storage models of every dataset kind.
type Record interface {
	TableName() string
}

// EntryModel is one production entry: m² ordered and m² through the furnace per shift.
type EntryModel struct {
	ID        uint           `gorm:"primaryKey"`
	Date      datatypes.Date `gorm:"index;not null"`
	Shift     string         `gorm:"type:varchar(20);not null"`
	PedidosM2 float64        `gorm:"column:pedidos_m2;not null;default:0"`
	FornoM2   float64        `gorm:"column:forno_m2;not null;default:0"`
	Notes     *string        `gorm:"type:text"`
}

func (EntryModel) TableName() string {
	return "entries"
}

// DelayModel is a late order.
type DelayModel struct {
	ID         uint           `gorm:"primaryKey"`
	Date       datatypes.Date `gorm:"index;not null"`
	OrderCode  string         `gorm:"type:varchar(50);not null"`
	Customer   string         `gorm:"type:varchar(255);not null"`
	DaysLate   float64        `gorm:"not null;default:0"`
	Reason     string         `gorm:"type:varchar(255);not null"`
	OrderValue *float64
}

func (DelayModel) TableName() string {
	return "delays"
}

// BreakageModel is a loss event in a production sector.
type BreakageModel struct {
	ID       uint           `gorm:"primaryKey"`
	Date     datatypes.Date `gorm:"index;not null"`
	Sector   string         `gorm:"type:varchar(100);not null"`
	Type     string         `gorm:"type:varchar(100);not null"`
	Operator *string        `gorm:"type:varchar(100)"`
	QtyM2    float64        `gorm:"column:qty_m2;not null;default:0"`
	Notes    *string        `gorm:"type:text"`
}

func (BreakageModel) TableName() string {
	return "breakages"
}

// ComplaintModel is a customer complaint.
type ComplaintModel struct {
	ID          uint           `gorm:"primaryKey"`
	Date        datatypes.Date `gorm:"index;not null"`
	Customer    string         `gorm:"type:varchar(255);not null"`
	Type        string         `gorm:"type:varchar(100);not null"`
	Qty         float64        `gorm:"not null;default:0"`
	Description *string        `gorm:"type:text"`
}

func (ComplaintModel) TableName() string {
	return "complaints"
}

// All lists every model handled by AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&GoalModel{},
		&EntryModel{},
		&DelayModel{},
		&BreakageModel{},
		&ComplaintModel{},
	}
}
