package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	UserID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"type:varchar(10)" json:"gender,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User            User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MedicalHistory  []MedicalHistory `gorm:"foreignKey:PatientID" json:"medical_history,omitempty"`
	Allergies       []Allergy        `gorm:"foreignKey:PatientID" json:"allergies,omitempty"`
	FavoriteDoctors []FavoriteDoctor `gorm:"foreignKey:PatientID" json:"favorite_doctors,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// MedicalHistory is a single recorded condition of a patient
type MedicalHistory struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	Condition     string     `gorm:"type:varchar(255);not null" json:"condition"`
	DiagnosisDate *time.Time `gorm:"type:date" json:"diagnosis_date,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (MedicalHistory) TableName() string {
	return "medical_histories"
}

// Allergy is unique per (patient, name)
type Allergy struct {
	PatientID uuid.UUID `gorm:"type:uuid;primaryKey" json:"patient_id"`
	Name      string    `gorm:"type:varchar(100);primaryKey" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Allergy) TableName() string {
	return "patient_allergies"
}

// FavoriteDoctor is unique per (patient, doctor)
type FavoriteDoctor struct {
	PatientID uuid.UUID `gorm:"type:uuid;primaryKey" json:"patient_id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Doctor DoctorProfile `gorm:"foreignKey:DoctorID;references:UserID" json:"doctor,omitempty"`
}

func (FavoriteDoctor) TableName() string {
	return "favorite_doctors"
}
