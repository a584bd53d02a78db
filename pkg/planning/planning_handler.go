package planning

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dayflow-app/dayflow-backend/pkg/auth"
	"github.com/dayflow-app/dayflow-backend/pkg/communication"
	"github.com/dayflow-app/dayflow-backend/pkg/date"
	"github.com/dayflow-app/dayflow-backend/pkg/locking"
	"github.com/dayflow-app/dayflow-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Handler is the handler for planning API calls
type Handler struct {
	Service         *PlanningService
	SyncTarget      SyncTargetInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

// AutoFit packs the user's open tasks into the requested day
func (handler *Handler) AutoFit(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	body := struct {
		Date               string             `json:"date" validate:"required,datetime=2006-01-02"`
		TimeZone           string             `json:"timeZone"`
		WorkingHourFilters map[string]*Filter `json:"workingHourFilters"`
	}{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(body)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	result, err := handler.Service.PlanDay(request.Context(), userID, body.Date, body.TimeZone, body.WorkingHourFilters)
	if err != nil {
		handler.respondWithPlanningError(writer, err)
		return
	}

	handler.ResponseManager.Respond(writer, result)
}

// PlacementsGet lists all placements of a day
func (handler *Handler) PlacementsGet(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	day := mux.Vars(request)["date"]
	if _, err := date.ParseDay(day); err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("Date %s is invalid", day), err)
		return
	}

	placements, err := handler.Service.PlacementsForDay(request.Context(), userID, day)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not load placements", err)
		return
	}

	var response = map[string]interface{}{
		"results": placements,
	}

	handler.ResponseManager.Respond(writer, response)
}

// PlacementAdd places a single task at the time the user dragged it to
func (handler *Handler) PlacementAdd(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	day := mux.Vars(request)["date"]
	if _, err := date.ParseDay(day); err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("Date %s is invalid", day), err)
		return
	}

	body := struct {
		TaskID          string `json:"taskId" validate:"required"`
		Start           string `json:"start" validate:"required"`
		DurationMinutes int    `json:"durationMinutes"`
		TimeZone        string `json:"timeZone"`
	}{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(body)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	placement, err := handler.Service.PlaceTask(request.Context(), userID, day, body.TaskID, body.Start, body.TimeZone, body.DurationMinutes)
	if err != nil {
		handler.respondWithPlanningError(writer, err)
		return
	}

	handler.ResponseManager.RespondWithStatus(writer, placement, http.StatusCreated)
}

// PlacementDelete removes a single placement from a day
func (handler *Handler) PlacementDelete(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	day := mux.Vars(request)["date"]
	placementID := mux.Vars(request)["placementID"]

	err := handler.Service.RemovePlacement(request.Context(), userID, day, placementID)
	if err != nil {
		handler.respondWithPlanningError(writer, err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

// SnapshotRefresh drops the cached task and event state for a day
func (handler *Handler) SnapshotRefresh(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	day := mux.Vars(request)["date"]
	if _, err := date.ParseDay(day); err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("Date %s is invalid", day), err)
		return
	}

	err := handler.Service.RefreshSnapshot(request.Context(), userID, day)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not refresh snapshot", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

// SyncTasks replaces the user's synced tasks and task lists wholesale
func (handler *Handler) SyncTasks(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	body := struct {
		Tasks []*Task     `json:"tasks"`
		Lists []*TaskList `json:"lists"`
	}{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	err = handler.SyncTarget.ReplaceTasks(request.Context(), userID, body.Tasks, body.Lists)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not store tasks", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

// SyncEvents replaces the user's synced calendar events wholesale
func (handler *Handler) SyncEvents(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	body := struct {
		Events []*Event `json:"events"`
	}{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	err = handler.SyncTarget.ReplaceEvents(request.Context(), userID, body.Events)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not store events", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

func (handler *Handler) respondWithPlanningError(writer http.ResponseWriter, err error) {
	var resolutionError *date.TimezoneResolutionError
	if errors.As(err, &resolutionError) {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, resolutionError.Error(), err)
		return
	}

	if errors.Is(err, locking.ErrLockNotObtained) {
		handler.ResponseManager.RespondWithError(writer, http.StatusConflict,
			"Another planning run for this day is still in progress", err)
		return
	}

	if errors.Is(err, ErrTaskNotFound) {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Task wasn't found", err)
		return
	}

	if errors.Is(err, ErrPlacementNotFound) {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Placement wasn't found", err)
		return
	}

	handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
		"Could not plan the day", err)
}
