package pages

import (
	"context"
	"fmt"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

var (
	coursesMenuLink       = entities.XPath("//a[normalize-space()='Courses']")
	teacherDashboardLink  = entities.XPath("//a[normalize-space()='Teacher Dashboard' or normalize-space()='My Courses']")
	teacherSignupMenuLink = entities.XPath("//a[normalize-space()='Join as Teacher' or normalize-space()='Become a Teacher']")
)

// courseHeading matches a course card by its title
func courseHeading(title string) entities.Locator {
	return entities.XPath(fmt.Sprintf("//h2[contains(normalize-space(.), %s)]", entities.XPathLiteral(title)))
}

// HomePage is the landing page with the main menu
type HomePage struct {
	*automation.Session
}

func NewHomePage(s *automation.Session) *HomePage {
	return &HomePage{Session: s}
}

// GoToHome - opens the landing page
func (p *HomePage) GoToHome(ctx context.Context) error {
	return p.Open(ctx, "")
}

// GoToCourses - opens the course listing through the menu
func (p *HomePage) GoToCourses(ctx context.Context) error {
	p.Logger().Info("Navigating to Courses page")
	if err := p.Click(ctx, coursesMenuLink); err != nil {
		return fmt.Errorf("failed to open courses page: %w", err)
	}
	return p.WaitForPageLoad(ctx)
}

// GoToTeacherDashboard - opens the dashboard of the logged in teacher
func (p *HomePage) GoToTeacherDashboard(ctx context.Context) error {
	if err := p.Click(ctx, teacherDashboardLink); err != nil {
		return fmt.Errorf("failed to open teacher dashboard: %w", err)
	}
	return p.WaitForPageLoad(ctx)
}

// GoToTeacherSignup - opens the teacher application form
func (p *HomePage) GoToTeacherSignup(ctx context.Context) error {
	if err := p.Click(ctx, teacherSignupMenuLink); err != nil {
		return fmt.Errorf("failed to open teacher application: %w", err)
	}
	return p.WaitForPageLoad(ctx)
}

// IsCourseVisible - reports whether a course card with title is shown
func (p *HomePage) IsCourseVisible(ctx context.Context, title string) (bool, error) {
	return p.IsVisible(ctx, courseHeading(title))
}
