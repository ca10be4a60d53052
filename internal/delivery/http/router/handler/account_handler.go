// Package handler contains the HTTP handlers for the application.
package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"userhub/internal/delivery/http/response"
	"userhub/internal/domain/entity"
	"userhub/internal/errors"
	"userhub/internal/usecase"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, logger: logger}
}

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "invalid account id")
	}

	return id, nil
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	input := new(usecase.RegisterAccountInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	account, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newAccountView(account), "Account registered successfully")
}

// GetByID handles the request for a single account.
func (h *AccountHandler) GetByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	account, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAccountView(account), "")
}

// GetByUsername handles the public username lookup.
func (h *AccountHandler) GetByUsername(c echo.Context) error {
	account, err := h.uc.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAccountView(account), "")
}

// Update handles a partial profile update.
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	input := new(usecase.UpdateProfileInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	input.ID = id

	account, err := h.uc.UpdateProfile(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAccountView(account), "Profile updated successfully")
}

// ChangePassword handles the password change request.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	input := new(usecase.ChangePasswordInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	input.ID = id

	if err := h.uc.ChangePassword(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed successfully")
}

// Activate re-enables an account.
func (h *AccountHandler) Activate(c echo.Context) error {
	return h.toggle(c, h.uc.Activate, "Account activated")
}

// Deactivate disables an account.
func (h *AccountHandler) Deactivate(c echo.Context) error {
	return h.toggle(c, h.uc.Deactivate, "Account deactivated")
}

// VerifyEmail marks the account email as verified.
func (h *AccountHandler) VerifyEmail(c echo.Context) error {
	return h.toggle(c, h.uc.VerifyEmail, "Email verified")
}

// ChangeRoleInput carries the new role for an account.
type ChangeRoleInput struct {
	Role string `json:"role"`
}

// ChangeRole assigns a new role to an account.
func (h *AccountHandler) ChangeRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	input := new(ChangeRoleInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid role input")
	}

	account, err := h.uc.ChangeRole(c.Request().Context(), &usecase.ChangeRoleInput{
		ID:   id,
		Role: entity.Role(input.Role),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAccountView(account), "Role changed successfully")
}

func (h *AccountHandler) toggle(c echo.Context, op func(ctx context.Context, id uint64) error, message string) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := op(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, message)
}

// Delete removes one account.
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}

// BulkDeleteInput carries the target IDs for a bulk delete.
type BulkDeleteInput struct {
	IDs []uint64 `json:"ids"`
}

// BulkDelete removes every listed account, skipping missing IDs.
func (h *AccountHandler) BulkDelete(c echo.Context) error {
	input := new(BulkDeleteInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid bulk delete input")
	}
	if len(input.IDs) == 0 {
		return response.BadRequest(c, "INVALID_INPUT", "No account ids given")
	}

	output, err := h.uc.BulkDelete(c.Request().Context(), input.IDs)
	if err != nil {
		return errors.WithStack(err)
	}

	if len(output.Skipped) > 0 {
		h.logger.Warn("Bulk delete skipped missing accounts", slog.Any("skipped", output.Skipped))
	}

	return response.NoContent(c)
}

// List handles the filtered account listing.
func (h *AccountHandler) List(c echo.Context) error {
	input, err := listInputFromQuery(c)
	if err != nil {
		return err
	}

	page, err := h.uc.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPageView(page), "")
}

// AdvancedSearch handles the per-column account search.
func (h *AccountHandler) AdvancedSearch(c echo.Context) error {
	page, err := h.uc.AdvancedSearch(c.Request().Context(), &usecase.AdvancedSearchInput{
		FirstName: c.QueryParam("firstName"),
		LastName:  c.QueryParam("lastName"),
		Email:     c.QueryParam("email"),
		Page:      intQueryParam(c, "page"),
		PerPage:   intQueryParam(c, "perPage"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPageView(page), "")
}

// Stats handles the aggregate statistics request.
func (h *AccountHandler) Stats(c echo.Context) error {
	stats, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

// Export streams every account in the requested format.
func (h *AccountHandler) Export(c echo.Context) error {
	format := usecase.ExportFormat(strings.ToLower(c.QueryParam("format")))
	if format == "" {
		format = usecase.ExportCSV
	}

	output, err := h.uc.Export(c.Request().Context(), format)
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", output.Filename))

	return c.Blob(http.StatusOK, output.ContentType, output.Content)
}

// UploadAvatar handles the multipart avatar upload.
func (h *AccountHandler) UploadAvatar(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Missing avatar file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return errors.Wrap(err, "failed to read uploaded file")
	}

	account, err := h.uc.UploadAvatar(c.Request().Context(), &usecase.UploadAvatarInput{
		AccountID:   id,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Content:     content,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAccountView(account), "Avatar uploaded successfully")
}

func listInputFromQuery(c echo.Context) (*usecase.ListAccountsInput, error) {
	input := &usecase.ListAccountsInput{
		Term:    c.QueryParam("q"),
		Page:    intQueryParam(c, "page"),
		PerPage: intQueryParam(c, "perPage"),
	}

	if raw := c.QueryParam("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid active filter")
		}
		input.Active = &active
	}

	if raw := c.QueryParam("role"); raw != "" {
		role := entity.Role(strings.ToUpper(raw))
		if !role.IsValid() {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid role filter")
		}
		input.Role = &role
	}

	return input, nil
}

func intQueryParam(c echo.Context, name string) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}

	return value
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
