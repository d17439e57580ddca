package validator

import (
	"testing"
	"time"
)

type availabilityInput struct {
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
}

type profileInput struct {
	FullName    string `json:"full_name" validate:"required,min=3,max=30"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,notfuture"`
}

func TestValidateClock(t *testing.T) {
	v := NewValidator()

	valid := []string{"00:00", "9:30", "09:30", "23:59"}
	for _, s := range valid {
		if err := v.Validate(&availabilityInput{StartTime: s}); err != nil {
			t.Errorf("expected %q to be valid, got %v", s, err)
		}
	}

	invalid := []string{"24:00", "12:60", "1230", "noon"}
	for _, s := range invalid {
		err := v.Validate(&availabilityInput{StartTime: s})
		if err == nil {
			t.Errorf("expected %q to be invalid", s)
			continue
		}
		msgs := v.FormatValidationErrors(err)
		if msgs["start_time"] != "start_time must be in HH:MM 24-hour format" {
			t.Errorf("unexpected message for %q: %v", s, msgs)
		}
	}
}

func TestValidateDayOfWeekRange(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&availabilityInput{DayOfWeek: 7, StartTime: "09:00"})
	if err == nil {
		t.Fatal("expected day_of_week 7 to be rejected")
	}
	if _, ok := v.FormatValidationErrors(err)["day_of_week"]; !ok {
		t.Fatal("expected error keyed by json field name")
	}
}

func TestValidateProfile(t *testing.T) {
	v := NewValidator()
	tomorrow := time.Now().AddDate(0, 0, 1).Format(DateLayout)

	tests := []struct {
		name  string
		input profileInput
		field string
	}{
		{name: "valid", input: profileInput{FullName: "Jane Doe", Phone: "+8801712345678", Gender: "female", DateOfBirth: "1990-05-01"}},
		{name: "short name", input: profileInput{FullName: "Jo"}, field: "full_name"},
		{name: "phone without plus", input: profileInput{FullName: "Jane Doe", Phone: "8801712345678"}, field: "phone"},
		{name: "short phone", input: profileInput{FullName: "Jane Doe", Phone: "+12345"}, field: "phone"},
		{name: "unknown gender", input: profileInput{FullName: "Jane Doe", Gender: "x"}, field: "gender"},
		{name: "future birth date", input: profileInput{FullName: "Jane Doe", DateOfBirth: tomorrow}, field: "date_of_birth"},
		{name: "malformed birth date", input: profileInput{FullName: "Jane Doe", DateOfBirth: "01/05/1990"}, field: "date_of_birth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.input)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error on %s", tt.field)
			}
			if _, ok := v.FormatValidationErrors(err)[tt.field]; !ok {
				t.Fatalf("expected error on %s, got %v", tt.field, v.FormatValidationErrors(err))
			}
		})
	}
}
