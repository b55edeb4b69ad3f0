package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

const userTypeFlow = "user_type"

type adminService struct {
	gateway ports.Gateway
	drafts  ports.DraftRepository
	log     zerolog.Logger
}

// NewAdminService returns the administrator's user management service.
func NewAdminService(gateway ports.Gateway, drafts ports.DraftRepository, log zerolog.Logger) ports.AdminService {
	return &adminService{gateway: gateway, drafts: drafts, log: log.With().Str("component", "admin").Logger()}
}

func (s *adminService) loadDraft(ctx context.Context, sess *domain.Session) (*domain.UserTypeDraft, error) {
	d := domain.NewUserTypeDraft()
	if _, err := s.drafts.Load(ctx, sess.ID, userTypeFlow, d); err != nil {
		return nil, fmt.Errorf("load user type draft: %w", err)
	}
	return d, nil
}

func (s *adminService) saveDraft(ctx context.Context, sess *domain.Session, d *domain.UserTypeDraft) error {
	if err := s.drafts.Save(ctx, sess.ID, userTypeFlow, d); err != nil {
		return fmt.Errorf("save user type draft: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// CreateUser creates the account first and then the role profile. A failed
// profile step keeps the account and reports a warning.
func (s *adminService) CreateUser(ctx context.Context, sess *domain.Session, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
	userType := in.UserType
	if userType == "" {
		d, err := s.loadDraft(ctx, sess)
		if err != nil {
			return nil, err
		}
		userType = d.CreateType
	}
	if !userType.Valid() {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrInvalidRole)
	}

	body := domain.NewUser{
		Username:  strings.TrimSpace(in.Username),
		Password:  in.Password,
		Email:     nullable(in.Email),
		FirstName: nullable(in.FirstName),
		LastName:  nullable(in.LastName),
		UserType:  userType,
	}
	var user domain.UserAccount
	err := s.gateway.Do(ctx, domain.BackendAdministrator, sess.ID, ports.Request{
		Method: http.MethodPost,
		Path:   "/users/create/",
		Body:   body,
	}, &user)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.WithFallbackMessage(err, "Username already exists. Please choose a different username.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	result := &ports.CreateUserResult{User: user}
	spec := domain.ProfileSpecs[userType]
	var profile domain.Profile
	err = s.gateway.Do(ctx, spec.Backend, sess.ID, ports.Request{
		Method: http.MethodPost,
		Path:   spec.CreatePath(),
		Body:   spec.Payload(user.ID, in.Profile),
	}, &profile)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
		s.log.Warn().Err(err).Str("user_id", user.ID).Str("role", string(userType)).Msg("profile creation failed")
		result.Warning = fmt.Sprintf("User created but the %s profile could not be created.", userType)
	} else {
		result.Profile = profile
	}

	if err := s.drafts.Delete(ctx, sess.ID, userTypeFlow); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to reset user type draft")
	}
	return result, nil
}

// GetUser loads a user for editing and seeds the edit form's type.
func (s *adminService) GetUser(ctx context.Context, sess *domain.Session, userID string) (*domain.UserAccount, error) {
	var user domain.UserAccount
	err := s.gateway.Do(ctx, domain.BackendIdentity, sess.ID, ports.Request{
		Path: "/users/" + url.PathEscape(userID) + "/",
	}, &user)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	d, err := s.loadDraft(ctx, sess)
	if err != nil {
		return nil, err
	}
	role := user.Role
	d.EditType = &role
	if err := s.saveDraft(ctx, sess, d); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser patches a user. A missing user_type falls back to the value
// committed through the user-type picker.
func (s *adminService) UpdateUser(ctx context.Context, sess *domain.Session, userID string, in domain.UserUpdate) (*domain.UserAccount, error) {
	if in.UserType == nil {
		d, err := s.loadDraft(ctx, sess)
		if err != nil {
			return nil, err
		}
		in.UserType = d.EditType
	}
	if in.UserType != nil && !in.UserType.Valid() {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrInvalidRole)
	}

	var user domain.UserAccount
	err := s.gateway.Do(ctx, domain.BackendIdentity, sess.ID, ports.Request{
		Method: http.MethodPatch,
		Path:   "/users/" + url.PathEscape(userID) + "/",
		Body:   in,
	}, &user)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.WithFallbackMessage(err, "Username is already taken.")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	d, err := s.loadDraft(ctx, sess)
	if err == nil {
		d.EditType = nil
		err = s.saveDraft(ctx, sess, d)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to reset edit form")
	}
	return &user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, sess *domain.Session, userID string) error {
	if userID == sess.Identity.ID {
		return fmt.Errorf("%w: administrators cannot delete their own account", domain.ErrValidation)
	}
	err := s.gateway.Do(ctx, domain.BackendAdministrator, sess.ID, ports.Request{
		Method: http.MethodDelete,
		Path:   "/users/" + url.PathEscape(userID) + "/",
	}, nil)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *adminService) UserTypeDraft(ctx context.Context, sess *domain.Session) (*domain.UserTypeDraft, error) {
	return s.loadDraft(ctx, sess)
}

// UserTypeStep applies one picker transition. ctxName is only used by open.
func (s *adminService) UserTypeStep(ctx context.Context, sess *domain.Session, action domain.WizardAction, ctxName domain.UserTypeContext, value string) (*domain.UserTypeDraft, error) {
	d, err := s.loadDraft(ctx, sess)
	if err != nil {
		return nil, err
	}

	switch action {
	case domain.ActionOpen:
		err = d.Open(ctxName)
	case domain.ActionSelect:
		role := domain.Role(value)
		if !role.Valid() {
			err = fmt.Errorf("%w: %w", domain.ErrUnknownOption, domain.ErrInvalidRole)
			break
		}
		err = d.Picker.Select(role)
	case domain.ActionConfirm:
		err = d.Confirm()
	case domain.ActionCancel:
		d.Cancel()
	default:
		err = fmt.Errorf("%w: action %q", domain.ErrUnknownOption, action)
	}
	if err != nil {
		return nil, err
	}

	if err := s.saveDraft(ctx, sess, d); err != nil {
		return nil, err
	}
	return d, nil
}
