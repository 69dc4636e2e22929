package controllers

import (
	"errors"
	"net/http"

	"github.com/sohan0019/PlantNet/middleware"
	"github.com/sohan0019/PlantNet/models"
	"github.com/sohan0019/PlantNet/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserController serves user and role-management endpoints.
type UserController struct {
	Users          repository.UserRepository
	SellerRequests repository.SellerRequestRepository
	Logger         *zap.Logger
}

// UpsertUser creates a user on first login (role customer) or
// refreshes the login timestamp on subsequent logins.
func (uc *UserController) UpsertUser(c *gin.Context) {
	var req models.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, uc.Logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, Image: req.Image}
	created, err := uc.Users.Upsert(c.Request.Context(), user)
	if err != nil {
		respondError(c, uc.Logger, http.StatusInternalServerError, "failed to save user", err)
		return
	}

	if created {
		uc.Logger.Info("User created", zap.String("email", req.Email))
		c.JSON(http.StatusCreated, gin.H{"created": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": false})
}

// GetUserRole returns the authenticated user's role.
func (uc *UserController) GetUserRole(c *gin.Context) {
	email := middleware.GetEmail(c)
	role, err := uc.Users.RoleOf(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, uc.Logger, http.StatusNotFound, "user not found", nil)
			return
		}
		respondError(c, uc.Logger, http.StatusInternalServerError, "failed to fetch role", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// BecomeSeller records a pending seller-upgrade request.
func (uc *UserController) BecomeSeller(c *gin.Context) {
	email := middleware.GetEmail(c)
	if err := uc.SellerRequests.Create(c.Request.Context(), email); err != nil {
		if errors.Is(err, repository.ErrAlreadyRequested) {
			respondError(c, uc.Logger, http.StatusConflict, "already requested, please wait", nil)
			return
		}
		respondError(c, uc.Logger, http.StatusInternalServerError, "failed to save request", err)
		return
	}

	uc.Logger.Info("Seller request created", zap.String("email", email))
	c.JSON(http.StatusCreated, gin.H{"requested": true})
}

// GetSellerRequests lists pending seller requests (admin).
func (uc *UserController) GetSellerRequests(c *gin.Context) {
	requests, err := uc.SellerRequests.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, uc.Logger, http.StatusInternalServerError, "failed to fetch requests", err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetUsers lists every user except the requesting admin.
func (uc *UserController) GetUsers(c *gin.Context) {
	email := middleware.GetEmail(c)
	users, err := uc.Users.FindAllExcept(c.Request.Context(), email)
	if err != nil {
		respondError(c, uc.Logger, http.StatusInternalServerError, "failed to fetch users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateRole changes a user's role and clears any pending seller
// request for that email (admin).
func (uc *UserController) UpdateRole(c *gin.Context) {
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, uc.Logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := uc.Users.UpdateRole(c.Request.Context(), req.Email, req.Role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, uc.Logger, http.StatusNotFound, "user not found", nil)
			return
		}
		respondError(c, uc.Logger, http.StatusInternalServerError, "failed to update role", err)
		return
	}

	if err := uc.SellerRequests.DeleteByEmail(c.Request.Context(), req.Email); err != nil {
		uc.Logger.Warn("Failed to clear seller request", zap.String("email", req.Email), zap.Error(err))
	}

	uc.Logger.Info("User role updated", zap.String("email", req.Email), zap.String("role", req.Role))
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
