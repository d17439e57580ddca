package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/usecase"
	"doctor-appointment-api/pkg/response"
	"doctor-appointment-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// stubAppointmentUsecase returns err from every call when set
type stubAppointmentUsecase struct {
	err   error
	slots []time.Time
	total int64
	page  int
	limit int
}

func (s *stubAppointmentUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]time.Time, error) {
	return s.slots, s.err
}

func (s *stubAppointmentUsecase) CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	doctorID, _ := uuid.Parse(req.DoctorID)
	return &dto.AppointmentResponse{
		ID:              uuid.New(),
		DoctorID:        doctorID,
		PatientID:       patientID,
		DateTime:        req.DateTime,
		DurationMinutes: 30,
		Status:          string(entity.AppointmentStatusScheduled),
	}, nil
}

func (s *stubAppointmentUsecase) CancelAppointment(ctx context.Context, appointmentID, patientID uuid.UUID) (*dto.AppointmentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AppointmentResponse{ID: appointmentID, PatientID: patientID, Status: string(entity.AppointmentStatusCancelled)}, nil
}

func (s *stubAppointmentUsecase) RescheduleAppointment(ctx context.Context, appointmentID, patientID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AppointmentResponse{ID: appointmentID, DateTime: req.NewDateTime, Status: string(entity.AppointmentStatusRescheduled)}, nil
}

func (s *stubAppointmentUsecase) GetUpcomingAppointments(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error) {
	return []dto.AppointmentResponse{}, s.err
}

func (s *stubAppointmentUsecase) GetPatientAppointments(ctx context.Context, patientID uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	s.page, s.limit = page, limit
	return []dto.AppointmentResponse{}, s.total, s.err
}

func newAppointmentHandler(stub *stubAppointmentUsecase) *AppointmentHandler {
	return NewAppointmentHandler(stub, validator.NewValidator())
}

func authed(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), uuid.New(), "patient@example.com", entity.RoleIDPatient, "tid"))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestGetAvailableSlotsHandler(t *testing.T) {
	doctorID := uuid.New()
	nine := time.Date(2030, time.March, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query string
		err   error
		want  int
	}{
		{"ok", "?doctorId=" + doctorID.String() + "&date=2030-03-04", nil, http.StatusOK},
		{"bad doctor id", "?doctorId=nope&date=2030-03-04", nil, http.StatusBadRequest},
		{"missing date", "?doctorId=" + doctorID.String(), nil, http.StatusBadRequest},
		{"bad date", "?doctorId=" + doctorID.String() + "&date=04-03-2030", usecase.ErrInvalidDateFormat, http.StatusBadRequest},
		{"no availability", "?doctorId=" + doctorID.String() + "&date=2030-03-05", usecase.ErrAvailabilityNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAppointmentHandler(&stubAppointmentUsecase{err: tt.err, slots: []time.Time{nine}})
			rec := httptest.NewRecorder()
			h.GetAvailableSlots(rec, httptest.NewRequest(http.MethodGet, "/api/v1/appointments/available-slots"+tt.query, nil))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusOK {
				data, _ := decodeBody(t, rec).Data.(map[string]interface{})
				slots, _ := data["available_slots"].([]interface{})
				if len(slots) != 1 {
					t.Errorf("expected one slot in available_slots, got %v", data)
				}
			}
		})
	}
}

func TestCreateAppointmentHandler(t *testing.T) {
	valid := `{"doctor_id":"` + uuid.NewString() + `","date_time":"2030-03-04T09:00:00Z"}`

	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"created", valid, nil, http.StatusCreated},
		{"malformed json", `{"doctor_id":`, nil, http.StatusBadRequest},
		{"validation", `{"doctor_id":"not-a-uuid","date_time":"2030-03-04T09:00:00Z"}`, nil, http.StatusBadRequest},
		{"slot booked", valid, usecase.ErrSlotAlreadyBooked, http.StatusBadRequest},
		{"slot being booked", valid, usecase.ErrSlotBeingBooked, http.StatusConflict},
		{"unknown doctor", valid, usecase.ErrDoctorNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAppointmentHandler(&stubAppointmentUsecase{err: tt.err})
			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString(tt.body)))
			rec := httptest.NewRecorder()
			h.CreateAppointment(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateAppointmentRequiresPrincipal(t *testing.T) {
	h := newAppointmentHandler(&stubAppointmentUsecase{})
	rec := httptest.NewRecorder()
	h.CreateAppointment(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString(`{}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestCancelAppointmentHandler(t *testing.T) {
	tests := []struct {
		name string
		id   string
		err  error
		want int
	}{
		{"cancelled", uuid.NewString(), nil, http.StatusOK},
		{"bad id", "123", nil, http.StatusBadRequest},
		{"not found", uuid.NewString(), usecase.ErrAppointmentNotFound, http.StatusNotFound},
		{"not active", uuid.NewString(), usecase.ErrCannotCancel, http.StatusBadRequest},
		{"storage failure", uuid.NewString(), context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAppointmentHandler(&stubAppointmentUsecase{err: tt.err})
			req := authed(httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+tt.id+"/cancel", nil))
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()
			h.CancelAppointment(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestRescheduleAppointmentHandler(t *testing.T) {
	body := `{"new_date_time":"2030-03-04T10:00:00Z"}`

	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"rescheduled", body, nil, http.StatusOK},
		{"missing time", `{}`, nil, http.StatusBadRequest},
		{"conflict", body, usecase.ErrSlotAlreadyBooked, http.StatusBadRequest},
		{"not active", body, usecase.ErrCannotReschedule, http.StatusBadRequest},
		{"lock busy", body, usecase.ErrSlotBeingBooked, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.NewString()
			h := newAppointmentHandler(&stubAppointmentUsecase{err: tt.err})
			req := authed(httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+id+"/reschedule", bytes.NewBufferString(tt.body)))
			req = mux.SetURLVars(req, map[string]string{"id": id})
			rec := httptest.NewRecorder()
			h.RescheduleAppointment(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetPatientAppointmentsHandlerMeta(t *testing.T) {
	stub := &stubAppointmentUsecase{total: 45}
	h := newAppointmentHandler(stub)
	rec := httptest.NewRecorder()
	h.GetPatientAppointments(rec, authed(httptest.NewRequest(http.MethodGet, "/api/v1/patients/appointments?page=2&limit=500", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.page != 2 || stub.limit != usecase.MaxLimit {
		t.Errorf("expected page 2 limit %d, got %d %d", usecase.MaxLimit, stub.page, stub.limit)
	}
	body := decodeBody(t, rec)
	if body.Meta == nil || body.Meta.Total != 45 || body.Meta.TotalPages != 1 {
		t.Errorf("unexpected meta %+v", body.Meta)
	}
}
