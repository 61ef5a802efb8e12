package server

import (
	stderrors "errors"
	"net/http"
	"strings"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const minPasswordLen = 6

func (api *API) register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = models.NormalizeEmail(req.Email)
	if err := api.validate.Struct(req); err != nil {
		fail(ctx, validationErrorToErrorResponse(err))
		return
	}

	if _, err := api.store.GetUserByEmail(ctx, req.Email); err == nil {
		fail(ctx, errors.ErrDuplicateEmail)
		return
	} else if !stderrors.Is(err, errors.ErrUserNotFound) {
		fail(ctx, err)
		return
	}

	hash, err := api.hasher.Hash(req.Password)
	if err != nil {
		fail(ctx, err)
		return
	}

	now := api.now()
	user := models.User{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Email:      req.Email,
		Password:   hash,
		Avatar:     models.DefaultAvatar(req.Name),
		Settings:   models.DefaultSettings(),
		IsActive:   true,
		LastActive: now,
		CreatedAt:  now,
	}
	if err := api.store.CreateUser(ctx, &user); err != nil {
		fail(ctx, err)
		return
	}

	token, err := api.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		fail(ctx, err)
		return
	}

	logger.Info("user registered", "id", user.ID)
	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

func (api *API) login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}
	if err := api.validate.Struct(req); err != nil {
		fail(ctx, validationErrorToErrorResponse(err))
		return
	}

	user, err := api.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			fail(ctx, errors.ErrInvalidCredentials)
			return
		}
		fail(ctx, err)
		return
	}
	if !user.IsActive || !api.hasher.Compare(user.Password, req.Password) {
		fail(ctx, errors.ErrInvalidCredentials)
		return
	}

	now := api.now()
	if err := api.store.TouchLastActive(ctx, user.ID, now); err != nil {
		logger.Warn("failed to update last active", "id", user.ID, "err", err)
	} else {
		user.LastActive = now
	}

	token, err := api.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (api *API) currentUser(ctx *gin.Context) (*models.User, bool) {
	user, err := api.store.GetUserByID(ctx, principal(ctx).UserID)
	if err != nil {
		fail(ctx, err)
		return nil, false
	}
	return user, true
}

func (api *API) me(ctx *gin.Context) {
	user, ok := api.currentUser(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (api *API) updateSettings(ctx *gin.Context) {
	var patch models.SettingsPatch
	if err := bindJSON(ctx, &patch); err != nil {
		fail(ctx, err)
		return
	}
	if patch.Theme.Present() {
		if err := api.validate.Var(patch.Theme.Value, "oneof=dark light"); err != nil {
			fail(ctx, invalidField(errors.ErrInvalidTheme))
			return
		}
	}

	user, ok := api.currentUser(ctx)
	if !ok {
		return
	}
	user.Settings = patch.Merge(user.Settings)
	if err := api.store.UpdateUser(ctx, user); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Settings updated successfully",
		"settings": user.Settings,
	})
}

func (api *API) validateProfile(patch models.ProfilePatch) error {
	if patch.Name.Set {
		if err := api.validate.Var(strings.TrimSpace(patch.Name.Value), "required,max=50"); err != nil {
			return invalidField(errors.ErrInvalidName)
		}
	}
	if patch.Avatar.Present() && strings.TrimSpace(patch.Avatar.Value) != "" {
		if err := api.validate.Var(strings.TrimSpace(patch.Avatar.Value), "url"); err != nil {
			return invalidField(errors.ErrInvalidAvatar)
		}
	}
	return nil
}

func (api *API) updateProfile(ctx *gin.Context) {
	var patch models.ProfilePatch
	if err := bindJSON(ctx, &patch); err != nil {
		fail(ctx, err)
		return
	}
	if err := api.validateProfile(patch); err != nil {
		fail(ctx, err)
		return
	}

	user, ok := api.currentUser(ctx)
	if !ok {
		return
	}
	patch.Apply(user)
	if err := api.store.UpdateUser(ctx, user); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (api *API) changePassword(ctx *gin.Context) {
	var req models.ChangePasswordRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}
	if err := api.validate.Struct(req); err != nil {
		fail(ctx, validationErrorToErrorResponse(err))
		return
	}

	user, ok := api.currentUser(ctx)
	if !ok {
		return
	}
	if !api.hasher.Compare(user.Password, req.CurrentPassword) {
		fail(ctx, errors.ErrInvalidCredentials)
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		fail(ctx, errors.ErrWeakPassword)
		return
	}

	hash, err := api.hasher.Hash(req.NewPassword)
	if err != nil {
		fail(ctx, err)
		return
	}
	user.Password = hash
	if err := api.store.UpdateUser(ctx, user); err != nil {
		fail(ctx, err)
		return
	}

	logger.Info("password changed", "id", user.ID)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

func (api *API) checkEmail(ctx *gin.Context) {
	var req models.CheckEmailRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}
	req.Email = models.NormalizeEmail(req.Email)
	if err := api.validate.Struct(req); err != nil {
		fail(ctx, validationErrorToErrorResponse(err))
		return
	}

	_, err := api.store.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, gin.H{"success": true, "available": false, "message": "Email is already registered"})
	case stderrors.Is(err, errors.ErrUserNotFound):
		ctx.JSON(http.StatusOK, gin.H{"success": true, "available": true, "message": "Email is available"})
	default:
		fail(ctx, err)
	}
}

// logout is stateless; tokens are not tracked server-side.
func (api *API) logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}
