package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is embedded into doctor profiles with an address_ column prefix
type Address struct {
	Street     string `gorm:"type:varchar(255)" json:"street,omitempty"`
	City       string `gorm:"type:varchar(100);index" json:"city,omitempty"`
	State      string `gorm:"type:varchar(100)" json:"state,omitempty"`
	Country    string `gorm:"type:varchar(100)" json:"country,omitempty"`
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code,omitempty"`
}

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	SpecializationID  int             `gorm:"not null;index" json:"specialization_id"`
	Qualifications    StringList      `gorm:"type:jsonb;not null;default:'[]'" json:"qualifications"`
	YearsOfExperience int             `gorm:"not null;default:0" json:"years_of_experience"`
	ConsultationFee   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"consultation_fee"`
	Bio               string          `gorm:"type:varchar(500)" json:"bio,omitempty"`
	ProfilePicture    string          `gorm:"type:text" json:"profile_picture,omitempty"`
	Hospitals         StringList      `gorm:"type:jsonb;not null;default:'[]'" json:"hospitals"`
	Address           Address         `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Rating            float64         `gorm:"not null;default:0" json:"rating"`
	ReviewsCount      int             `gorm:"not null;default:0" json:"reviews_count"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User           User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Specialization Specialization       `gorm:"foreignKey:SpecializationID" json:"specialization,omitempty"`
	Availability   []DoctorAvailability `gorm:"foreignKey:DoctorID" json:"availability,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// DoctorFilter narrows the doctor directory listing
type DoctorFilter struct {
	SpecializationID int
	Hospital         string
	City             string
	State            string
	Country          string
	Search           string
	Page             int
	Limit            int
}
