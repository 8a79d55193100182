package pages

import (
	"context"
	"fmt"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

var (
	adminUsernameInput  = entities.XPath("//input[@placeholder='Username']")
	adminPasswordInput  = entities.XPath("//input[@placeholder='Password']")
	adminLoginButton    = entities.XPath("//button[normalize-space()='Log in' or @type='submit']")
	adminDashboardTitle = entities.XPath("//h1[@class='h4 m-0 pr-3 mr-3 border-right']")
	adminLoginError     = entities.XPath("//p[contains(text(),'Please enter the correct username and password for')]")
	adminProfileMenu    = entities.XPath("//i[@class='far fa-user']")
	adminLogoutButton   = entities.XPath("//button[@type='submit' and normalize-space()='Log out']")
)

// AdminLoginPage is the back office login under admin/
type AdminLoginPage struct {
	*automation.Session
}

func NewAdminLoginPage(s *automation.Session) *AdminLoginPage {
	return &AdminLoginPage{Session: s}
}

// Login - signs in to the back office. The result is false when the
// credentials are rejected or neither outcome is rendered.
func (p *AdminLoginPage) Login(ctx context.Context, username, password string) (bool, error) {
	log := p.Logger().WithField("username", username)
	log.Info("Logging in to admin")

	if err := p.Open(ctx, "admin/"); err != nil {
		return false, err
	}
	if err := fill(ctx, p.Session, []field{
		{adminUsernameInput, username},
		{adminPasswordInput, password},
	}); err != nil {
		return false, err
	}
	if err := p.Click(ctx, adminLoginButton); err != nil {
		return false, err
	}

	rejected, err := p.Within(errorProbeTimeout).IsVisible(ctx, adminLoginError)
	if err != nil {
		return false, err
	}
	if rejected {
		log.Warn("Admin login rejected")
		return false, nil
	}

	ok, err := p.IsLoggedIn(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		log.Error("Neither dashboard nor error message shown after admin login")
		p.Screenshot(ctx, "admin_login_unknown_state")
	}
	return ok, nil
}

// IsLoggedIn - the dashboard header is only rendered for staff users
func (p *AdminLoginPage) IsLoggedIn(ctx context.Context) (bool, error) {
	return p.IsVisible(ctx, adminDashboardTitle)
}

// ErrorMessage - text of the login error, empty when none is shown
func (p *AdminLoginPage) ErrorMessage(ctx context.Context) (string, error) {
	s := p.Within(errorProbeTimeout)
	shown, err := s.IsVisible(ctx, adminLoginError)
	if err != nil || !shown {
		return "", err
	}
	return s.Text(ctx, adminLoginError)
}

// Logout - signs out through the profile menu and waits for the login form
func (p *AdminLoginPage) Logout(ctx context.Context) error {
	if err := p.Click(ctx, adminProfileMenu); err != nil {
		return fmt.Errorf("failed to open profile menu: %w", err)
	}
	if err := p.Click(ctx, adminLogoutButton); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	back, err := p.IsVisible(ctx, adminUsernameInput)
	if err != nil {
		return err
	}
	if !back {
		p.Screenshot(ctx, "logout_redirection_failure")
		return entities.MarkFailure(entities.FailureTimeout, fmt.Errorf("login form not shown after logout"))
	}
	return nil
}
