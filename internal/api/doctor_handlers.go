package api

import (
	"net/http"

	"github.com/hackgods/medicare-hms/internal/appointment"
	"github.com/hackgods/medicare-hms/internal/doctor"
)

func listDoctorsHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListActive(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponses(doctors))
	}
}

func listAllDoctorsHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListAll(r.Context(), CurrentUser(r.Context()))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponses(doctors))
	}
}

func createDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDoctorRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		d, err := svc.Create(r.Context(), CurrentUser(r.Context()), doctor.CreateInput{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			Specialty:  req.Specialty,
			Phone:      req.Phone,
			Experience: req.Experience,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDoctorResponse(d))
	}
}

func updateDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req UpdateDoctorRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		d, err := svc.Update(r.Context(), CurrentUser(r.Context()), id, doctor.UpdateInput{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			Specialty:       req.Specialty,
			Phone:           req.Phone,
			Experience:      req.Experience.Value,
			ClearExperience: req.Experience.Set && req.Experience.Value == nil,
			IsActive:        req.IsActive,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponse(d))
	}
}

func metaHandler() http.HandlerFunc {
	resp := MetaResponse{
		Specialties: doctor.Specialties,
		TimeSlots:   appointment.TimeSlots,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}
