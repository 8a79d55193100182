package pages

import (
	"context"
	"fmt"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

var (
	courseCards        = entities.XPath("//div[@class='course-card']")
	viewDetailsButton  = entities.CSS("a.course-action")
	registerButton     = entities.XPath("//button[normalize-space()='Register for Course']")
	cardNumberInput    = entities.ID("id_card_number")
	expiryMonthSelect  = entities.ID("id_expiry_month")
	expiryYearSelect   = entities.ID("id_expiry_year")
	payButton          = entities.XPath("//button[normalize-space()='Pay Now']")
	enrollErrorMessage = entities.XPath("//div[@role='alert']")
)

// CoursesPage is the course listing and the enrollment form behind it
type CoursesPage struct {
	*automation.Session
}

func NewCoursesPage(s *automation.Session) *CoursesPage {
	return &CoursesPage{Session: s}
}

// CourseCount - number of course cards currently listed
func (p *CoursesPage) CourseCount(ctx context.Context) (int, error) {
	return p.Count(ctx, courseCards)
}

// SelectCourse - opens the course whose title contains name
func (p *CoursesPage) SelectCourse(ctx context.Context, name string) error {
	p.Logger().WithField("course", name).Info("Selecting course")
	if err := p.Click(ctx, courseHeading(name)); err != nil {
		return fmt.Errorf("failed to select course %q: %w", name, err)
	}
	return nil
}

// ViewCourseDetails - opens the details of the first listed course
func (p *CoursesPage) ViewCourseDetails(ctx context.Context) error {
	if err := p.Click(ctx, viewDetailsButton); err != nil {
		return fmt.Errorf("failed to open course details: %w", err)
	}
	return p.WaitForPageLoad(ctx)
}

// Enroll - registers for the open course and pays with card
func (p *CoursesPage) Enroll(ctx context.Context, card entities.Card) error {
	if err := p.Click(ctx, registerButton); err != nil {
		return fmt.Errorf("failed to start enrollment: %w", err)
	}
	if err := p.Type(ctx, cardNumberInput, card.Number); err != nil {
		return err
	}
	if err := p.SelectByValue(ctx, expiryMonthSelect, card.ExpiryMonth); err != nil {
		return err
	}
	if err := p.SelectByValue(ctx, expiryYearSelect, card.ExpiryYear); err != nil {
		return err
	}
	if err := p.Scroll(ctx, automation.ScrollDown); err != nil {
		return err
	}
	return p.Click(ctx, payButton)
}

// EnrollmentError - reports whether the payment was rejected
func (p *CoursesPage) EnrollmentError(ctx context.Context) (bool, error) {
	return p.IsVisible(ctx, enrollErrorMessage)
}
