package transport

import (
	"net/http"

	"ostro-bazar/internal/middleware"
	"ostro-bazar/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	Admin       AdminProfile `json:"admin"`
}

// AdminProfile represents admin profile data
type AdminProfile struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AdminHandler handles HTTP requests for admin authentication
type AdminHandler struct {
	adminService service.AdminService
	logger       *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers admin routes
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/login", h.Login)
}

// Login handles the admin credential check
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "email and password required")
		return
	}

	token, admin, err := h.adminService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.logger.Info("Admin logged in", zap.String("email", admin.Email))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Success:     true,
		Message:     "Login successful",
		AccessToken: token,
		Admin: AdminProfile{
			Email: admin.Email,
			Role:  admin.Role,
		},
	})
}
