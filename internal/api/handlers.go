// Package api exposes HTTP handlers for the exercise tracker.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/observability"
)

// dateLayout matches the calendar string the original API exposed,
// e.g. "Thu Jan 05 2023".
const dateLayout = "Mon Jan 02 2006"

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	logger  zerolog.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes wires endpoints to the mux. The root pattern doubles as the
// fallback for unmatched routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", h.users)
	mux.HandleFunc("/api/users/", h.userSubresource)
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/", notFound)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// notFound answers every unmatched route with a fixed body.
func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"status":  http.StatusNotFound,
		"message": "not found",
	})
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createUser(w, r)
	case http.MethodGet:
		h.listUsers(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) userSubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		notFound(w, r)
		return
	}

	userID := parts[0]
	switch parts[1] {
	case "exercises":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "unsupported method")
			return
		}
		h.logExercise(w, r, userID)
	case "logs":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "unsupported method")
			return
		}
		h.getLogs(w, r, userID)
	default:
		notFound(w, r)
	}
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Username)
	if err != nil {
		var validation domain.ValidationError
		if errors.As(err, &validation) {
			writeError(w, http.StatusBadRequest, validation.Reason)
			return
		}
		h.logger.Error().Err(err).Msg("failed to create user")
		writeError(w, http.StatusInternalServerError, "there was an error creating the user")
		return
	}

	observability.RecordUserCreated()
	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		writeError(w, http.StatusInternalServerError, "there was an error listing users")
		return
	}

	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) logExercise(w http.ResponseWriter, r *http.Request, userID string) {
	var req LogExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var date *time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be a calendar date (YYYY-MM-DD)")
			return
		}
		date = &parsed
	}

	logged, err := h.service.LogExercise(r.Context(), domain.LogExerciseInput{
		UserID:      userID,
		Description: req.Description,
		DurationMin: int(req.Duration),
		Date:        date,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			var validation domain.ValidationError
			if errors.As(err, &validation) {
				writeError(w, http.StatusBadRequest, validation.Reason)
				return
			}
			h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to save exercise")
			writeError(w, http.StatusInternalServerError, "there was an error saving the exercise")
		}
		return
	}

	writeJSON(w, http.StatusOK, ExerciseView{
		UserID:      logged.User.ID,
		Username:    logged.User.Username,
		Description: logged.Exercise.Description,
		Duration:    logged.Exercise.DurationMin,
		Date:        logged.Exercise.Date.Format(dateLayout),
	})
}

func (h *Handler) getLogs(w http.ResponseWriter, r *http.Request, userID string) {
	query := domain.LogQuery{}

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be a calendar date (YYYY-MM-DD)")
			return
		}
		query.From = &parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be a calendar date (YYYY-MM-DD)")
			return
		}
		// An inclusive upper bound covers the whole named day.
		end := parsed.Add(24*time.Hour - time.Nanosecond)
		query.To = &end
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			query.Limit = parsed
		}
	}

	log, err := h.service.GetLogs(r.Context(), userID, query)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to retrieve logs")
		writeError(w, http.StatusInternalServerError, "there was an error retrieving the logs")
		return
	}

	entries := make([]LogEntry, 0, len(log.Entries))
	for _, ex := range log.Entries {
		entries = append(entries, LogEntry{
			Description: ex.Description,
			Duration:    ex.DurationMin,
			Date:        ex.Date.Format(dateLayout),
		})
	}

	observability.RecordLogQueryResultSize(len(entries))
	writeJSON(w, http.StatusOK, LogsResponse{
		UserID:   log.User.ID,
		Username: log.User.Username,
		Count:    len(entries),
		Log:      entries,
	})
}

// parseDate accepts a calendar date, with RFC 3339 tolerated as a superset.
func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed.UTC(), nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", value)
}

// CreateUserRequest is the payload for POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
}

// Duration decodes a JSON number or a numeric string, the two shapes clients
// send for exercise duration. It always surfaces as an integer.
type Duration int

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	value := strings.TrimSpace(string(data))
	if value == "null" {
		return nil
	}
	value = strings.Trim(value, `"`)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("duration must be an integer")
	}
	*d = Duration(parsed)
	return nil
}

// LogExerciseRequest is the payload for POST /api/users/{id}/exercises.
type LogExerciseRequest struct {
	Description string   `json:"description"`
	Duration    Duration `json:"duration"`
	Date        string   `json:"date"`
}

// Validate ensures request correctness.
func (r LogExerciseRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required")
	}
	if r.Duration == 0 {
		return errors.New("duration is required")
	}
	return nil
}

// UserView projects a user to the two exposed fields.
type UserView struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// ExerciseView is the response body for a logged exercise. The ID is the
// owning user's, matching the original API shape.
type ExerciseView struct {
	UserID      string `json:"_id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogEntry is one exercise in a user's log.
type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogsResponse packages the filtered, capped log for one user. Count is the
// number of entries actually returned, post-limit.
type LogsResponse struct {
	UserID   string     `json:"_id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

func toUserView(user domain.User) UserView {
	return UserView{ID: user.ID, Username: user.Username}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
