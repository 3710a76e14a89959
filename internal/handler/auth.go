package handler

import (
	"context"  // context with timeout for DB lookups
	"errors"   // errors.Is comparisons
	"net/http" // HTTP status codes
	"strings"  // input normalization
	"time"     // lookup timeout

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/school-seat-booking/internal/booking"
	"github.com/iliyamo/school-seat-booking/internal/config"
	"github.com/iliyamo/school-seat-booking/internal/repository"
	"github.com/iliyamo/school-seat-booking/internal/utils"
)

// AuthHandler issues access tokens for students and admins.  The seat
// subsystem only needs authentication to attribute claims and scope
// admin actions to a school, so the surface is a single login
// endpoint; account management lives elsewhere.
type AuthHandler struct {
	Cfg      config.Config
	Students *repository.StudentRepo
	Admins   *repository.AdminRepo
}

// NewAuthHandler constructs an AuthHandler with its repositories.
func NewAuthHandler(cfg config.Config, students *repository.StudentRepo, admins *repository.AdminRepo) *AuthHandler {
	if students == nil || admins == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Students: students, Admins: admins}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // STUDENT | ADMIN
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type accountPart struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	SchoolID uint64 `json:"school_id"`
}

type loginResp struct {
	Account accountPart `json:"account"`
	Access  tokenPart   `json:"access"`
}

// Login handles POST /v1/auth/login.  The role field selects which
// account table is consulted; both paths answer invalid credentials
// with the same 401 body so the endpoint does not leak which emails
// exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != "ADMIN" {
		role = "STUDENT"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		account accountPart
		hash    string
	)
	if role == "ADMIN" {
		a, err := h.Admins.GetByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, repository.ErrAdminNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
		}
		account = accountPart{ID: a.ID, Name: a.Name, Email: a.Email, Role: role, SchoolID: a.SchoolID}
		hash = a.PasswordHash
	} else {
		s, err := h.Students.GetByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, booking.ErrStudentNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
		}
		account = accountPart{ID: s.ID, Name: s.Name, Email: s.Email, Role: role, SchoolID: s.SchoolID}
		hash = s.PasswordHash
	}

	if !utils.VerifyPassword(hash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, account.ID, role, account.SchoolID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		Account: account,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
	})
}
