package model

// GoalModel mirrors the 'goals' table.
type GoalModel struct {
	ID    uint    `gorm:"primaryKey"`
	Key   string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Value float64 `gorm:"not null"`
	Unit  string  `gorm:"type:varchar(20);not null;default:''"`
}

// TableName explicitly sets the table name for GORM.
func (GoalModel) TableName() string {
	return "goals"
}
