package pages

import (
	"context"
	"fmt"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

var (
	signupLink          = entities.XPath("//a[normalize-space()='Sign Up']")
	signupUsername      = entities.ID("id_username")
	signupEmail         = entities.ID("id_email")
	signupFullNameEN    = entities.ID("id_full_name_en")
	signupFullNameAR    = entities.ID("id_full_name_ar")
	signupPassword      = entities.ID("id_password1")
	signupPasswordAgain = entities.ID("id_password2")
	signupPicture       = entities.ID("id_profile_picture")
	signupBio           = entities.ID("id_bio")
	submitButton        = entities.XPath("//button[@type='submit']")
)

// StudentSignupPage is the student registration form, reached from the login form
type StudentSignupPage struct {
	*automation.Session
}

func NewStudentSignupPage(s *automation.Session) *StudentSignupPage {
	return &StudentSignupPage{Session: s}
}

// Signup - fills and submits the registration form
func (p *StudentSignupPage) Signup(ctx context.Context, profile entities.StudentProfile) error {
	p.Logger().WithField("username", profile.Username).Info("Signing up student")

	if err := p.Open(ctx, ""); err != nil {
		return err
	}
	if err := p.Click(ctx, loginLink); err != nil {
		return fmt.Errorf("failed to open login form: %w", err)
	}
	if err := p.Click(ctx, signupLink); err != nil {
		return fmt.Errorf("failed to open sign up form: %w", err)
	}

	if err := fill(ctx, p.Session, []field{
		{signupUsername, profile.Username},
		{signupEmail, profile.Email},
		{signupFullNameEN, profile.FullNameEN},
		{signupFullNameAR, profile.FullNameAR},
		{signupPassword, profile.Password},
		{signupPasswordAgain, profile.Password},
	}); err != nil {
		return err
	}

	if profile.ProfileImage != "" {
		if err := p.UploadFile(ctx, signupPicture, profile.ProfileImage); err != nil {
			return err
		}
	}
	if profile.Bio != "" {
		if err := p.Type(ctx, signupBio, profile.Bio); err != nil {
			return err
		}
	}

	if err := p.Click(ctx, submitButton); err != nil {
		return err
	}
	return p.WaitForPageLoad(ctx)
}
