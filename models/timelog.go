// models/timelog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Time log entry types.
const (
	ClockIn  = "in"
	ClockOut = "out"
)

// TimeLog is an append-only clock-in/clock-out record for an employee.
type TimeLog struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Type      string             `json:"type" bson:"type"` // "in" or "out"
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// TimeLogRequest is the body for POST /api/timelogs.
type TimeLogRequest struct {
	Type string `json:"type" validate:"required,oneof=in out"`
}
