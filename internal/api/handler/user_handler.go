package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/service"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService service.IUserService
	validate    *validator.Validate
}

func NewUserHandler(userService service.IUserService) *UserHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

type registerUserDTO struct {
	UserName  string `json:"user_name" validate:"required,max=100"`
	UserEmail string `json:"user_email" validate:"required,email,max=100"`
	Phone     string `json:"phone" validate:"max=50"`
	Address   string `json:"address" validate:"max=255"`
	City      string `json:"city" validate:"max=100"`
	State     string `json:"state" validate:"max=100"`
	Zip       string `json:"zip" validate:"max=20"`
	Country   string `json:"country" validate:"max=100"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerDTO registerUserDTO
	if err := json.NewDecoder(r.Body).Decode(&registerDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := h.validate.Struct(registerDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "")
		return
	}

	user := &model.User{
		UserName:    registerDTO.UserName,
		UserEmail:   registerDTO.UserEmail,
		UserPhone:   registerDTO.Phone,
		UserAddress: registerDTO.Address,
		UserCity:    registerDTO.City,
		UserState:   registerDTO.State,
		UserZip:     registerDTO.Zip,
		UserCountry: registerDTO.Country,
	}
	if err := h.userService.Register(r.Context(), user); err != nil {
		if errors.Is(err, service.ErrValidation) {
			api.ErrorJSON(w, http.StatusBadRequest, err, "")
			return
		}
		api.ErrorJSON(w, http.StatusInternalServerError, nil, "internal server error")
		return
	}

	api.CreatedJSON(w, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUintParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid user id")
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotExist) {
			api.ErrorJSON(w, http.StatusNotFound, err, "")
			return
		}
		api.ErrorJSON(w, http.StatusInternalServerError, nil, "internal server error")
		return
	}

	api.SuccessJSON(w, user, "")
}
