package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danprat/ABSEN-DESA/internal/attendance"
	"github.com/danprat/ABSEN-DESA/internal/recognize"
	"github.com/danprat/ABSEN-DESA/internal/store"
)

// maxUploadSize caps kiosk frame uploads at 10 MB.
const maxUploadSize = 10 << 20

// AttendanceHandler handles the kiosk recognition endpoint and the
// attendance listing/sweep endpoints.
type AttendanceHandler struct {
	recognizer *recognize.Recognizer
	service    *attendance.Service
	store      store.Store
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(recognizer *recognize.Recognizer, service *attendance.Service, st store.Store) *AttendanceHandler {
	return &AttendanceHandler{
		recognizer: recognizer,
		service:    service,
		store:      st,
	}
}

// recognizeRequest is the JSON alternative to a multipart upload.
type recognizeRequest struct {
	Image string `json:"image"` // base64-encoded JPEG/PNG
}

// attendanceResponse is the kiosk-facing view of a state machine result.
type attendanceResponse struct {
	Success          bool       `json:"success"`
	Mode             string     `json:"mode"`
	Reason           string     `json:"reason,omitempty"`
	Message          string     `json:"message"`
	Status           string     `json:"status,omitempty"`
	CheckInAt        *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt       *time.Time `json:"check_out_at,omitempty"`
	MinutesRemaining int        `json:"minutes_remaining,omitempty"`
}

type employeeView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

func toAttendanceResponse(res attendance.Result) attendanceResponse {
	out := attendanceResponse{
		Success:          res.Accepted(),
		Mode:             res.Mode.String(),
		Reason:           string(res.Reason),
		Message:          res.Message,
		MinutesRemaining: res.MinutesRemaining,
	}
	if res.Record != nil {
		out.Status = string(res.Record.Status)
		out.CheckInAt = res.Record.CheckInAt
		out.CheckOutAt = res.Record.CheckOutAt
	}
	return out
}

// readImage accepts either a multipart form with an "image" file field or
// a JSON body carrying base64 image data.
func readImage(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var req recognizeRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&req); err != nil {
			return nil, errors.New(errInvalidRequestBody)
		}
		if req.Image == "" {
			return nil, errors.New("image is required")
		}
		data, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			return nil, errors.New("image is not valid base64")
		}
		return data, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, errors.New("failed to parse multipart form")
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, errors.New("image file field is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return nil, errors.New("failed to read image")
	}
	return data, nil
}

// Recognize handles one kiosk frame: extract a face, match it against
// enrolled employees, and drive the attendance state machine.
func (h *AttendanceHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	image, err := readImage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.recognizer.Recognize(r.Context(), image)
	if errors.Is(err, recognize.ErrNoFaceDetected) {
		respondError(w, http.StatusUnprocessableEntity, "no face detected")
		return
	}
	if err != nil {
		log.Printf("recognize: %v", err)
		respondError(w, http.StatusBadGateway, "face recognition unavailable")
		return
	}

	if rec.Employee == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"recognized": false,
			"score":      rec.Score,
		})
		return
	}

	result, err := h.service.ProcessAttendance(r.Context(), rec.Employee, rec.Score, time.Now())
	if err != nil {
		log.Printf("process attendance for employee %d: %v", rec.Employee.ID, err)
		respondError(w, http.StatusInternalServerError, "failed to record attendance")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"recognized": true,
		"score":      rec.Score,
		"employee": employeeView{
			ID:       rec.Employee.ID,
			Name:     rec.Employee.Name,
			Position: rec.Employee.Position,
			PhotoURL: rec.Employee.PhotoURL,
		},
		"attendance": toAttendanceResponse(result),
	})
}

// todayRecord is one row of the daily attendance listing.
type todayRecord struct {
	EmployeeID int64      `json:"employee_id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	CheckInAt  *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
}

// parseDateParam reads an optional YYYY-MM-DD "date" query parameter,
// defaulting to today.
func parseDateParam(r *http.Request) (time.Time, error) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return store.DateOf(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	return t, nil
}

// Today lists attendance records for one date joined with employee names.
func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.store.ListByDate(r.Context(), date)
	if err != nil {
		log.Printf("list attendance for %s: %v", date.Format("2006-01-02"), err)
		respondError(w, http.StatusInternalServerError, "failed to list attendance")
		return
	}

	out := make([]todayRecord, 0, len(records))
	for _, rec := range records {
		row := todayRecord{
			EmployeeID: rec.EmployeeID,
			Status:     string(rec.Status),
			CheckInAt:  rec.CheckInAt,
			CheckOutAt: rec.CheckOutAt,
			Confidence: rec.Confidence,
		}
		emp, err := h.store.GetEmployee(r.Context(), rec.EmployeeID)
		if err == nil && emp != nil {
			row.Name = emp.Name
		}
		out = append(out, row)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"date":    date.Format("2006-01-02"),
		"records": out,
	})
}

// Sweep marks every active employee without a record as absent for the
// given date (default today). Re-running is a no-op.
func (h *AttendanceHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.SweepAbsences(r.Context(), date)
	if err != nil {
		log.Printf("absence sweep for %s: %v", date.Format("2006-01-02"), err)
		respondError(w, http.StatusInternalServerError, "absence sweep failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"date":    date.Format("2006-01-02"),
		"created": created,
	})
}

// ScheduleToday reports the resolved attendance windows for one date, so
// the kiosk can display opening hours and holiday notices.
func (h *AttendanceHandler) ScheduleToday(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dc, err := h.service.ResolveDate(r.Context(), date)
	if err != nil {
		log.Printf("resolve schedule for %s: %v", date.Format("2006-01-02"), err)
		respondError(w, http.StatusInternalServerError, "failed to resolve schedule")
		return
	}

	resp := map[string]any{
		"date":            date.Format("2006-01-02"),
		"is_workday":      dc.Day.IsWorkday,
		"check_in_start":  dc.Day.CheckInStart.String(),
		"check_in_end":    dc.Day.CheckInEnd.String(),
		"check_out_start": dc.Day.CheckOutStart.String(),
	}
	if dc.Holiday.Active() {
		resp["holiday"] = dc.Holiday.Name
	}
	respondJSON(w, http.StatusOK, resp)
}

// parseYearParam reads an optional "year" query parameter, defaulting to
// the current year.
func parseYearParam(r *http.Request) (int, error) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 2000 || year > 2200 {
		return 0, errors.New("year must be a four-digit number")
	}
	return year, nil
}
