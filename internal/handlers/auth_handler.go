package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	logger *zap.Logger

	// trocado nos testes; em produção consulta DNS
	emailDomainValid func(email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		db:               db,
		config:           cfg,
		logger:           logger,
		emailDomainValid: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=doctor patient"`
	Phone    string `json:"phone"`

	// médico
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`

	// paciente
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,isodate"`
	Gender      string `json:"gender"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.emailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "Email domain does not look valid.")
		return
	}

	if req.Role == models.RoleDoctor && strings.TrimSpace(req.LicenseNumber) == "" {
		httperr.BadRequest(c, "invalid_request", "license_number is required for doctors.")
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		writeError(c, h.logger, "failed_to_register", err)
		return
	}
	if count > 0 {
		httperr.BadRequest(c, "email_already_exists", "Email is already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, h.logger, "failed_to_hash_password", err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         req.Role,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		switch req.Role {
		case models.RoleDoctor:
			doctor := models.Doctor{
				Name:                       req.Name,
				Specialization:             req.Specialization,
				LicenseNumber:              req.LicenseNumber,
				Phone:                      req.Phone,
				IsAvailableForAppointments: true,
			}
			if err := tx.Create(&doctor).Error; err != nil {
				return err
			}
			user.DoctorID = &doctor.ID

		case models.RolePatient:
			patient := models.Patient{
				Name:   req.Name,
				Phone:  req.Phone,
				Email:  email,
				Gender: req.Gender,
			}
			if req.DateOfBirth != "" {
				dob, _ := time.Parse("2006-01-02", req.DateOfBirth)
				patient.DateOfBirth = &dob
			}
			if err := tx.Create(&patient).Error; err != nil {
				return err
			}
			user.PatientID = &patient.ID
		}

		return tx.Create(&user).Error
	})
	if err != nil {
		writeError(c, h.logger, "failed_to_create_user", err)
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		writeError(c, h.logger, "failed_to_generate_token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userPayload(&user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		writeError(c, h.logger, "internal_error", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		writeError(c, h.logger, "failed_to_generate_token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userPayload(&user),
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	if user.DoctorID != nil {
		claims["doctorId"] = *user.DoctorID
	}
	if user.PatientID != nil {
		claims["patientId"] = *user.PatientID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"doctor_id":  user.DoctorID,
		"patient_id": user.PatientID,
	}
}
