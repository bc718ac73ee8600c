package models

import "time"

// ControlAudit records every machine control command dispatched through the
// dashboard, successful or not. Commands move physical machinery, so the
// trail is durable even though report data never is.
type ControlAudit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Machine   string    `gorm:"size:10;index" json:"machine"` // A or B
	Command   string    `gorm:"size:20" json:"command"`       // START, STOP, RESET
	Operator  string    `gorm:"size:100" json:"operator"`
	IP        string    `gorm:"size:50" json:"ip"`
	Success   bool      `json:"success"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ControlAudit) TableName() string { return "control_audits" }
