package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/appointment"
	"github.com/hackgods/medicare-hms/internal/dashboard"
	"github.com/hackgods/medicare-hms/internal/doctor"
	"github.com/hackgods/medicare-hms/internal/message"
	"github.com/hackgods/medicare-hms/internal/user"
)

// Requests. Unknown fields such as role, userId or status on create are
// accepted and ignored.

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateAdminRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Password  string `json:"password" validate:"omitempty,min=6,max=72"`
}

type CreateDoctorRequest struct {
	FirstName  string  `json:"firstName" validate:"required,max=100"`
	LastName   string  `json:"lastName" validate:"required,max=100"`
	Email      string  `json:"email" validate:"required,email,max=254"`
	Specialty  string  `json:"specialty" validate:"required,specialty"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
	Experience *int    `json:"experience" validate:"omitempty,min=0,max=70"`
}

type UpdateDoctorRequest struct {
	FirstName  *string     `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName   *string     `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email      *string     `json:"email" validate:"omitempty,email,max=254"`
	Specialty  *string     `json:"specialty" validate:"omitempty,specialty"`
	Phone      *string     `json:"phone" validate:"omitempty,max=32"`
	Experience OptionalInt `json:"experience" validate:"-"` // range checked by the doctor service
	IsActive   *bool       `json:"isActive"`
}

// OptionalInt tells an omitted field apart from an explicit null.
type OptionalInt struct {
	Set   bool
	Value *int
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Reason   string `json:"reason" validate:"required,max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CreateMessageRequest struct {
	Subject *string `json:"subject" validate:"omitempty,max=100"`
	Content string  `json:"content" validate:"required,max=5000"`
}

// Responses

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateAdminResponse struct {
	User              UserResponse `json:"user"`
	TemporaryPassword string       `json:"temporaryPassword,omitempty"`
}

type DoctorResponse struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Specialty  string    `json:"specialty"`
	Phone      *string   `json:"phone,omitempty"`
	Experience *int      `json:"experience,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type AppointmentResponse struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	DoctorID  uuid.UUID       `json:"doctorId"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Reason    string          `json:"reason"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	User      *UserResponse   `json:"user,omitempty"`
	Doctor    *DoctorResponse `json:"doctor,omitempty"`
}

type MessageResponse struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	Subject   *string       `json:"subject,omitempty"`
	Content   string        `json:"content"`
	IsRead    bool          `json:"isRead"`
	CreatedAt time.Time     `json:"createdAt"`
	User      *UserResponse `json:"user,omitempty"`
}

type StatsResponse struct {
	TotalAppointments   int `json:"totalAppointments"`
	ActiveDoctors       int `json:"activeDoctors"`
	PendingAppointments int `json:"pendingAppointments"`
	UnreadMessages      int `json:"unreadMessages"`
}

type MetaResponse struct {
	Specialties []string `json:"specialties"`
	TimeSlots   []string `json:"timeSlots"`
}

type MessageOnlyResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Mapping

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toDoctorResponse(d *doctor.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:         d.ID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Specialty:  d.Specialty,
		Phone:      d.Phone,
		Experience: d.Experience,
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func toDoctorResponses(list []doctor.Doctor) []DoctorResponse {
	out := make([]DoctorResponse, 0, len(list))
	for i := range list {
		out = append(out, toDoctorResponse(&list[i]))
	}
	return out
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		DoctorID:  a.DoctorID,
		Date:      a.Date,
		Time:      a.Time,
		Reason:    a.Reason,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAppointmentDetailResponse(d *appointment.AppointmentDetail) AppointmentResponse {
	resp := toAppointmentResponse(&d.Appointment)
	if d.User != nil {
		u := toUserResponse(d.User)
		resp.User = &u
	}
	if d.Doctor != nil {
		doc := toDoctorResponse(d.Doctor)
		resp.Doctor = &doc
	}
	return resp
}

func toAppointmentDetailResponses(list []appointment.AppointmentDetail) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(list))
	for i := range list {
		out = append(out, toAppointmentDetailResponse(&list[i]))
	}
	return out
}

func toMessageResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Subject:   m.Subject,
		Content:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func toMessageDetailResponses(list []message.MessageDetail) []MessageResponse {
	out := make([]MessageResponse, 0, len(list))
	for i := range list {
		resp := toMessageResponse(&list[i].Message)
		if list[i].User != nil {
			u := toUserResponse(list[i].User)
			resp.User = &u
		}
		out = append(out, resp)
	}
	return out
}

func toStatsResponse(s dashboard.Stats) StatsResponse {
	return StatsResponse{
		TotalAppointments:   s.TotalAppointments,
		ActiveDoctors:       s.ActiveDoctors,
		PendingAppointments: s.PendingAppointments,
		UnreadMessages:      s.UnreadMessages,
	}
}
