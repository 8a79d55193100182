package pages

import (
	"context"
	"fmt"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

var (
	loginLink         = entities.XPath("//a[normalize-space()='Login']")
	logoutLink        = entities.XPath("//a[normalize-space()='Logout']")
	usernameInput     = entities.ID("id_username")
	passwordInput     = entities.ID("id_password")
	loginButton       = entities.XPath("//button[normalize-space()='Login']")
	loginErrorMessage = entities.XPath("//li[@class='error approval-message']")
)

// LoginPage is the site login used by students and teachers
type LoginPage struct {
	*automation.Session
}

func NewLoginPage(s *automation.Session) *LoginPage {
	return &LoginPage{Session: s}
}

// Login - opens the landing page and signs in
func (p *LoginPage) Login(ctx context.Context, username, password string) error {
	p.Logger().WithField("username", username).Info("Logging in")

	if err := p.Open(ctx, ""); err != nil {
		return err
	}
	if err := p.Click(ctx, loginLink); err != nil {
		return fmt.Errorf("failed to open login form: %w", err)
	}
	if err := p.Type(ctx, usernameInput, username); err != nil {
		return err
	}
	if err := p.Type(ctx, passwordInput, password); err != nil {
		return err
	}
	if err := p.Click(ctx, loginButton); err != nil {
		return err
	}
	return p.WaitForPageLoad(ctx)
}

// VerifyLoginSuccess - the logout link is only rendered for signed in users
func (p *LoginPage) VerifyLoginSuccess(ctx context.Context) (bool, error) {
	return p.IsVisible(ctx, logoutLink)
}

// VerifyLoginFailed - reports whether the login error message is shown
func (p *LoginPage) VerifyLoginFailed(ctx context.Context) (bool, error) {
	return p.IsVisible(ctx, loginErrorMessage)
}

// Logout - signs out and waits for the logout link to disappear
func (p *LoginPage) Logout(ctx context.Context) error {
	if err := p.Click(ctx, logoutLink); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return p.WaitInvisible(ctx, logoutLink)
}
