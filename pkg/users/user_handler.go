package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/auth"
	"github.com/dayflow-app/dayflow-backend/pkg/auth/jwt"
	"github.com/dayflow-app/dayflow-backend/pkg/communication"
	"github.com/dayflow-app/dayflow-backend/pkg/date"
	"github.com/dayflow-app/dayflow-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Handler is the handler for user API calls
type Handler struct {
	UserRepository  UserRepositoryInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
	Secret          string
}

// UserRegister is the route for registering a user
func (handler *Handler) UserRegister(writer http.ResponseWriter, request *http.Request) {
	registration := UserRegister{}

	err := json.NewDecoder(request.Body).Decode(&registration)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(registration)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	presentUser, _ := handler.UserRepository.FindByEmail(request.Context(), registration.Email)
	if presentUser != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusConflict,
			"User with email "+presentUser.Email+" already exists", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem hashing password", err)
		return
	}

	user := User{
		Firstname: registration.Firstname,
		Lastname:  registration.Lastname,
		Email:     registration.Email,
		Password:  string(hashedPassword),
	}
	user.Settings.Scheduling = SchedulingSettings{}.WithDefaults()

	err = handler.UserRepository.Add(request.Context(), &user)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			handler.ResponseManager.RespondWithError(writer, http.StatusConflict,
				"User with email "+user.Email+" already exists", err)
			return
		}

		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"User couldn't be persisted in the database", err)
		return
	}

	handler.generateAndRespondWithTokens(&user, writer)
}

// UserGet retrieves a single user
func (handler *Handler) UserGet(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	u, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			"User wasn't found", err)
		return
	}

	handler.ResponseManager.Respond(writer, u)
}

// UserLogin is the route for user authentication
func (handler *Handler) UserLogin(writer http.ResponseWriter, request *http.Request) {
	userLogin := UserLogin{}
	err := json.NewDecoder(request.Body).Decode(&userLogin)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(userLogin)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	user, err := handler.UserRepository.FindByEmail(request.Context(), userLogin.Email)
	if err != nil || user == nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong credentials", err)
		return
	}

	hashedPassword := []byte(user.Password)
	inputPassword := []byte(userLogin.Password)
	err = bcrypt.CompareHashAndPassword(hashedPassword, inputPassword)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong credentials", err)
		return
	}

	handler.generateAndRespondWithTokens(user, writer)
}

func (handler *Handler) generateAndRespondWithTokens(user *User, writer http.ResponseWriter) {
	accessClaims := jwt.Claims{
		Subject:        user.ID,
		Issuer:         "dayflow",
		IssuedAt:       time.Now().Unix(),
		ExpirationTime: time.Now().AddDate(0, 0, 1).Unix(),
		TokenType:      jwt.TokenTypeAccess,
	}
	accessToken := jwt.New(jwt.AlgHS256, accessClaims)

	refreshTokenClaims := jwt.Claims{
		Subject:   user.ID,
		Issuer:    "dayflow",
		IssuedAt:  time.Now().Unix(),
		TokenType: jwt.TokenTypeRefresh,
	}
	refreshToken := jwt.New(jwt.AlgHS256, refreshTokenClaims)

	accessTokenString, err := accessToken.Sign(handler.Secret)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Problem signing access token", err)
		return
	}

	refreshTokenString, err := refreshToken.Sign(handler.Secret)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Problem signing refresh token", err)
		return
	}

	var response = map[string]interface{}{
		"result":       user,
		"accessToken":  accessTokenString,
		"refreshToken": refreshTokenString,
	}

	handler.ResponseManager.Respond(writer, response)
}

// UserRefresh exchanges a refresh token for a fresh access token
func (handler *Handler) UserRefresh(writer http.ResponseWriter, request *http.Request) {
	body := struct {
		RefreshToken string `json:"refreshToken"`
	}{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	if body.RefreshToken == "" {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"No refresh token specified", err)
		return
	}

	refreshToken, err := jwt.Verify(body.RefreshToken, jwt.TokenTypeRefresh, handler.Secret, jwt.AlgHS256, jwt.Claims{})
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Token invalid", err)
		return
	}

	userID := refreshToken.Payload.Subject

	u, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "User not found", err)
		return
	}

	accessClaims := jwt.Claims{
		Subject:        u.ID,
		Issuer:         "dayflow",
		IssuedAt:       time.Now().Unix(),
		ExpirationTime: time.Now().AddDate(0, 0, 1).Unix(),
		TokenType:      jwt.TokenTypeAccess,
	}
	accessToken := jwt.New(jwt.AlgHS256, accessClaims)

	accessTokenString, err := accessToken.Sign(handler.Secret)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Problem signing access token", err)
		return
	}

	var response = map[string]interface{}{
		"accessToken": accessTokenString,
	}

	handler.ResponseManager.Respond(writer, response)
}

// UserSettingsPatch updates specific values of a user
func (handler *Handler) UserSettingsPatch(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	user, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, fmt.Sprintf("Could not find user %s", userID), err)
		return
	}

	userSettings := user.Settings
	originalSettings := userSettings

	err = json.NewDecoder(request.Body).Decode(&userSettings)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if userSettings.Scheduling.TimeZone != originalSettings.Scheduling.TimeZone {
		_, err := time.LoadLocation(userSettings.Scheduling.TimeZone)
		if err != nil {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, fmt.Sprintf("Timezone %s does not exist", userSettings.Scheduling.TimeZone), err)
			return
		}
	}

	userSettings.Scheduling = userSettings.Scheduling.WithDefaults()

	slotMin, err := date.ParseClock(userSettings.Scheduling.SlotMinTime)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, fmt.Sprintf("SlotMinTime %s is invalid", userSettings.Scheduling.SlotMinTime), err)
		return
	}

	slotMax, err := date.ParseClock(userSettings.Scheduling.SlotMaxTime)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, fmt.Sprintf("SlotMaxTime %s is invalid", userSettings.Scheduling.SlotMaxTime), err)
		return
	}

	if slotMin >= slotMax {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "SlotMinTime must be before SlotMaxTime", nil)
		return
	}

	if userSettings.Scheduling.DefaultTaskDurationMinutes > 480 {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "DefaultTaskDuration is invalid", nil)
		return
	}

	if userSettings.Scheduling.MinTimeBetweenTasksMinutes > 120 {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "MinTimeBetweenTasks is invalid", nil)
		return
	}

	for index, period := range userSettings.Scheduling.WorkingHours {
		start, err := date.ParseClock(period.Start)
		if err != nil {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, fmt.Sprintf("Working hour start %s is invalid", period.Start), err)
			return
		}

		end, err := date.ParseClock(period.End)
		if err != nil {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, fmt.Sprintf("Working hour end %s is invalid", period.End), err)
			return
		}

		if start >= end {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, fmt.Sprintf("Working hours %s - %s are invalid", period.Start, period.End), nil)
			return
		}

		if period.ID == "" {
			userSettings.Scheduling.WorkingHours[index].ID = uuid.New().String()
		}
	}

	v := validator.New()
	err = v.Struct(userSettings)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	user.Settings = userSettings
	err = handler.UserRepository.Update(request.Context(), user)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, fmt.Sprintf("Couldn't update user settings for %s", userID), err)
		return
	}

	handler.ResponseManager.Respond(writer, user)
}
