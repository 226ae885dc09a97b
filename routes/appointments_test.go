package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-server/database"
	"clinic-server/models"
)

func bookingBody(patientID, practitionerID uint, day, clock string) map[string]interface{} {
	return map[string]interface{}{
		"patient_id":      patientID,
		"practitioner_id": practitionerID,
		"day":             day,
		"time":            clock,
	}
}

func TestCreateAppointment(t *testing.T) {
	r := setupTestServer(t)
	patient := createTestUser(t, "Alice", "alice@clinic.test", "longenough", models.RolePatient, true)
	practitioner := createTestUser(t, "Dr Grey", "grey@clinic.test", "longenough", models.RolePractitioner, true)

	body := bookingBody(patient.ID, practitioner.ID, "2024-06-01", "09:00")
	body["details"] = "first visit"
	w := performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, patient), body)
	mustStatus(t, w, http.StatusCreated)

	var resp struct {
		Appointment models.Appointment `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, patient.ID, resp.Appointment.PatientID)
	assert.Equal(t, practitioner.ID, resp.Appointment.PractitionerID)
	assert.Equal(t, "09:00", resp.Appointment.Time)
	assert.Equal(t, models.BookingStatusScheduled, resp.Appointment.Status)
	require.NotNil(t, resp.Appointment.Details)
	assert.Equal(t, "first visit", *resp.Appointment.Details)
	assert.Equal(t, "Dr Grey", resp.Appointment.Practitioner.Name)
}

func TestCreateAppointment_SlotTaken(t *testing.T) {
	r := setupTestServer(t)
	patient := createTestUser(t, "Alice", "alice@clinic.test", "longenough", models.RolePatient, true)
	other := createTestUser(t, "Bob", "bob@clinic.test", "longenough", models.RolePatient, true)
	practitioner := createTestUser(t, "Dr Grey", "grey@clinic.test", "longenough", models.RolePractitioner, true)

	w := performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, patient),
		bookingBody(patient.ID, practitioner.ID, "2024-06-01", "09:00"))
	mustStatus(t, w, http.StatusCreated)

	w = performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, other),
		bookingBody(other.ID, practitioner.ID, "2024-06-01", "09:00"))
	mustStatus(t, w, http.StatusConflict)
	assert.Equal(t, "SLOT_UNAVAILABLE", errorCode(t, w))

	// The next half-hour slot is free
	w = performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, other),
		bookingBody(other.ID, practitioner.ID, "2024-06-01", "09:30"))
	mustStatus(t, w, http.StatusCreated)
}

func TestCreateAppointment_PatientForOtherPatient(t *testing.T) {
	r := setupTestServer(t)
	patient := createTestUser(t, "Alice", "alice@clinic.test", "longenough", models.RolePatient, true)
	other := createTestUser(t, "Bob", "bob@clinic.test", "longenough", models.RolePatient, true)
	practitioner := createTestUser(t, "Dr Grey", "grey@clinic.test", "longenough", models.RolePractitioner, true)

	w := performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, patient),
		bookingBody(other.ID, practitioner.ID, "2024-06-01", "09:00"))
	mustStatus(t, w, http.StatusForbidden)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))
}

func TestCreateAppointment_BadSlot(t *testing.T) {
	r := setupTestServer(t)
	patient := createTestUser(t, "Alice", "alice@clinic.test", "longenough", models.RolePatient, true)
	practitioner := createTestUser(t, "Dr Grey", "grey@clinic.test", "longenough", models.RolePractitioner, true)

	w := performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, patient),
		bookingBody(patient.ID, practitioner.ID, "01/06/2024", "09:00"))
	mustStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestListAppointments_Scoping(t *testing.T) {
	r := setupTestServer(t)
	alice := createTestUser(t, "Alice", "alice@clinic.test", "longenough", models.RolePatient, true)
	bob := createTestUser(t, "Bob", "bob@clinic.test", "longenough", models.RolePatient, true)
	grey := createTestUser(t, "Dr Grey", "grey@clinic.test", "longenough", models.RolePractitioner, true)
	house := createTestUser(t, "Dr House", "house@clinic.test", "longenough", models.RolePractitioner, true)
	attendant := createTestUser(t, "Front Desk", "desk@clinic.test", "longenough", models.RoleAttendant, true)

	mustStatus(t, performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, alice),
		bookingBody(alice.ID, grey.ID, "2024-06-01", "09:00")), http.StatusCreated)
	mustStatus(t, performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, bob),
		bookingBody(bob.ID, house.ID, "2024-06-01", "09:00")), http.StatusCreated)

	count := func(token string) int {
		w := performJSON(t, r, http.MethodGet, "/api/v1/consultas", token, nil)
		mustStatus(t, w, http.StatusOK)
		var resp struct {
			Appointments []models.Appointment `json:"appointments"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return len(resp.Appointments)
	}

	assert.Equal(t, 1, count(tokenFor(t, alice)))
	assert.Equal(t, 1, count(tokenFor(t, grey)))
	assert.Equal(t, 2, count(tokenFor(t, attendant)))
}

func TestGetAppointment(t *testing.T) {
	r := setupTestServer(t)
	alice := createTestUser(t, "Alice", "alice@clinic.test", "longenough", models.RolePatient, true)
	bob := createTestUser(t, "Bob", "bob@clinic.test", "longenough", models.RolePatient, true)
	grey := createTestUser(t, "Dr Grey", "grey@clinic.test", "longenough", models.RolePractitioner, true)

	created := performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, alice),
		bookingBody(alice.ID, grey.ID, "2024-06-01", "09:00"))
	mustStatus(t, created, http.StatusCreated)
	var resp struct {
		Appointment models.Appointment `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))
	path := fmt.Sprintf("/api/v1/consultas/%d", resp.Appointment.ID)

	mustStatus(t, performJSON(t, r, http.MethodGet, path, tokenFor(t, alice), nil), http.StatusOK)
	mustStatus(t, performJSON(t, r, http.MethodGet, path, tokenFor(t, grey), nil), http.StatusOK)

	// Another patient may not see it
	w := performJSON(t, r, http.MethodGet, path, tokenFor(t, bob), nil)
	mustStatus(t, w, http.StatusForbidden)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))

	w = performJSON(t, r, http.MethodGet, "/api/v1/consultas/9999", tokenFor(t, alice), nil)
	mustStatus(t, w, http.StatusNotFound)
	assert.Equal(t, "RESOURCE_NOT_FOUND", errorCode(t, w))
}

func TestUpdateAppointment_Status(t *testing.T) {
	r := setupTestServer(t)
	alice := createTestUser(t, "Alice", "alice@clinic.test", "longenough", models.RolePatient, true)
	grey := createTestUser(t, "Dr Grey", "grey@clinic.test", "longenough", models.RolePractitioner, true)

	created := performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, alice),
		bookingBody(alice.ID, grey.ID, "2024-06-01", "09:00"))
	mustStatus(t, created, http.StatusCreated)
	var resp struct {
		Appointment models.Appointment `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))
	path := fmt.Sprintf("/api/v1/consultas/%d", resp.Appointment.ID)

	w := performJSON(t, r, http.MethodPut, path, tokenFor(t, grey),
		map[string]string{"status": "COMPLETED"})
	mustStatus(t, w, http.StatusOK)

	var appointment models.Appointment
	require.NoError(t, database.DB.First(&appointment, resp.Appointment.ID).Error)
	assert.Equal(t, models.BookingStatusCompleted, appointment.Status)

	w = performJSON(t, r, http.MethodPut, path, tokenFor(t, grey),
		map[string]string{"status": "DONE"})
	mustStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestCancelAppointment_FreesSlot(t *testing.T) {
	r := setupTestServer(t)
	alice := createTestUser(t, "Alice", "alice@clinic.test", "longenough", models.RolePatient, true)
	bob := createTestUser(t, "Bob", "bob@clinic.test", "longenough", models.RolePatient, true)
	grey := createTestUser(t, "Dr Grey", "grey@clinic.test", "longenough", models.RolePractitioner, true)

	created := performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, alice),
		bookingBody(alice.ID, grey.ID, "2024-06-01", "09:00"))
	mustStatus(t, created, http.StatusCreated)
	var resp struct {
		Appointment models.Appointment `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := performJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/v1/consultas/%d", resp.Appointment.ID), tokenFor(t, alice), nil)
	mustStatus(t, w, http.StatusOK)

	// Soft delete: the row survives with a flipped status
	var cancelled models.Appointment
	require.NoError(t, database.DB.First(&cancelled, resp.Appointment.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	// The slot is open again
	w = performJSON(t, r, http.MethodPost, "/api/v1/consultas", tokenFor(t, bob),
		bookingBody(bob.ID, grey.ID, "2024-06-01", "09:00"))
	mustStatus(t, w, http.StatusCreated)
}
