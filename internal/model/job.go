package model

import "time"

// JobType selects which details table holds a job's type-specific attributes.
type JobType string

const (
	JobWellDrilling     JobType = "well_drilling"
	JobConnection       JobType = "connection"
	JobTreatmentStation JobType = "treatment_station"
	JobService          JobType = "service"
)

// JobTypes lists every supported job type.
var JobTypes = []JobType{JobWellDrilling, JobConnection, JobTreatmentStation, JobService}

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool { return t.NewDetails() != nil }

// NewDetails returns an empty details value of the variant matching t, with
// type defaults applied, or nil for an unknown type.
func (t JobType) NewDetails() JobDetails {
	switch t {
	case JobWellDrilling:
		return &WellDrillingDetails{}
	case JobConnection:
		return &ConnectionDetails{}
	case JobTreatmentStation:
		return &TreatmentStationDetails{ServiceIntervalMonths: DefaultServiceIntervalMonths}
	case JobService:
		return &ServiceDetails{}
	}
	return nil
}

// Job is the header row shared by all job types. DetailsID points into the
// details table chosen by JobType; the type never changes after creation.
type Job struct {
	ID        uint      `gorm:"primaryKey"`
	ClientID  uint      `gorm:"not null;index"`
	JobType   JobType   `gorm:"type:varchar(30);not null"`
	JobDate   time.Time `gorm:"type:date;not null"`
	DetailsID uint      `gorm:"not null"`
	CreatedAt time.Time

	Client  *Client    `gorm:"foreignKey:ClientID"`
	Details JobDetails `gorm:"-"`
}
