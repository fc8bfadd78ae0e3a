package models

import "time"

// DigestRun records one batch of weekly digest emails.
type DigestRun struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Trigger    string    `gorm:"type:varchar(20);not null" json:"trigger"`
	StartedAt  time.Time `gorm:"index" json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	EmailsSent int       `json:"emailsSent"`
	Total      int       `json:"total"`
	CreatedAt  time.Time `json:"createdAt"`

	// Relations
	Deliveries []DigestDelivery `gorm:"foreignKey:RunID" json:"deliveries,omitempty"`
}

// DigestDelivery is the outcome for a single contractor within a run.
type DigestDelivery struct {
	ID            uint64 `gorm:"primarykey" json:"id"`
	RunID         uint64 `gorm:"index;not null" json:"runId"`
	Subcontractor string `gorm:"type:varchar(255)" json:"subcontractor"`
	EmailAddress  string `gorm:"type:varchar(255)" json:"emailAddress"`
	TaskCount     int    `json:"taskCount"`
	Success       bool   `json:"success"`
	Skipped       bool   `json:"skipped"`
	Message       string `gorm:"type:text" json:"message"`
}
