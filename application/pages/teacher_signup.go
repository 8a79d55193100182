package pages

import (
	"context"
	"fmt"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

var (
	teacherFullNameEN     = entities.ID("id_full_name_en")
	teacherFullNameAR     = entities.ID("id_full_name_ar")
	teacherEmail          = entities.ID("id_email")
	teacherPhone          = entities.ID("id_phone_number")
	nextTeachingInfo      = entities.XPath("//button[normalize-space()='Next: Teaching Info']")
	teacherExperience     = entities.ID("id_experience_years")
	teacherUniversity     = entities.ID("id_university")
	teacherGraduationYear = entities.ID("id_graduation_year")
	teacherMajor          = entities.ID("id_major")
	teacherBio            = entities.ID("id_bio")
	nextReview            = entities.XPath("//button[normalize-space()='Next']")
	submitApplication     = entities.XPath("//button[normalize-space()='Submit Application']")
	teacherPassword       = entities.ID("id_password")
	teacherPasswordAgain  = entities.ID("id_password_confirm")
	setPasswordAndSubmit  = entities.XPath("//button[normalize-space()='Set Password & Submit Application']")
	applicationSubmitted  = entities.XPath("//h2[normalize-space()='Application Submitted Successfully!']")

	welcomePopupClose = entities.CSS("div.alert.alert-success button.close")
)

// TeacherSignupPage is the multi-step teacher application
type TeacherSignupPage struct {
	*automation.Session
}

func NewTeacherSignupPage(s *automation.Session) *TeacherSignupPage {
	return &TeacherSignupPage{Session: s}
}

// Apply - walks the basic info, teaching info, review and password steps
func (p *TeacherSignupPage) Apply(ctx context.Context, app entities.TeacherApplication) error {
	log := p.Logger().WithField("email", app.Email)

	log.Info("Step 1: basic information")
	if err := fill(ctx, p.Session, []field{
		{teacherFullNameEN, app.FullNameEN},
		{teacherFullNameAR, app.FullNameAR},
		{teacherEmail, app.Email},
		{teacherPhone, app.Phone},
	}); err != nil {
		return fmt.Errorf("basic information: %w", err)
	}
	if err := p.Click(ctx, nextTeachingInfo); err != nil {
		return fmt.Errorf("basic information: %w", err)
	}

	log.Info("Step 2: teaching information")
	if err := fill(ctx, p.Session, []field{
		{teacherExperience, app.ExperienceYears},
		{teacherUniversity, app.University},
		{teacherGraduationYear, app.GraduationYear},
		{teacherMajor, app.Major},
		{teacherBio, app.Bio},
	}); err != nil {
		return fmt.Errorf("teaching information: %w", err)
	}
	if err := p.Click(ctx, nextReview); err != nil {
		return fmt.Errorf("teaching information: %w", err)
	}

	log.Info("Step 3: review")
	if err := p.Click(ctx, submitApplication); err != nil {
		return fmt.Errorf("review: %w", err)
	}

	log.Info("Step 4: password")
	if err := fill(ctx, p.Session, []field{
		{teacherPassword, app.Password},
		{teacherPasswordAgain, app.Password},
	}); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	if err := p.Click(ctx, setPasswordAndSubmit); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	return p.WaitForPageLoad(ctx)
}

// DismissWelcomePopup - closes the welcome banner if one is shown
func (p *TeacherSignupPage) DismissWelcomePopup(ctx context.Context) error {
	shown, err := p.Within(welcomeProbeTimeout).IsVisible(ctx, welcomePopupClose)
	if err != nil || !shown {
		return err
	}
	return p.Click(ctx, welcomePopupClose)
}

// VerifyApplicationSubmitted - reports whether the confirmation heading is shown
func (p *TeacherSignupPage) VerifyApplicationSubmitted(ctx context.Context) (bool, error) {
	return p.IsVisible(ctx, applicationSubmitted)
}
