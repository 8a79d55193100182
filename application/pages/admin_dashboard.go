package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

var (
	teachersMenuLink    = entities.XPath("//a[contains(., 'User Profiles') or contains(., 'Teachers')]")
	usersMenuLink       = entities.XPath("//a[normalize-space()='Users']")
	resultsTable        = entities.XPath("//table[@id='result_list' or @class='results_list']")
	approveButton       = entities.XPath(".//button[text()='Approve']")
	approvalSuccess     = entities.XPath("//div[@class='alert alert-success' or contains(@class, 'message success')]")
	rowChangeLink       = entities.XPath(".//th/a")
	rowSelectCheckbox   = entities.Name("_selected_action")
	rowStatusCell       = entities.CSS("td.field-status")
	rowPublishedIcon    = entities.CSS("td.field-is_published img")
	userStatusSelect    = entities.ID("id_status")
	saveButton          = entities.Name("_save")
	changelistAction    = entities.Name("action")
	changelistRunAction = entities.Name("index")
)

const (
	publishCourseAction = "make_published"
	adminCourseListPath = "admin/courses/course/"
)

// rowContaining matches the changelist row whose cells contain text
func rowContaining(text string) entities.Locator {
	return entities.XPath(fmt.Sprintf("//table//td[contains(text(), %s)]/ancestor::tr", entities.XPathLiteral(text)))
}

// courseRow matches the changelist row linking to the course title
func courseRow(title string) entities.Locator {
	return entities.XPath(fmt.Sprintf("//table//tr[.//a[normalize-space()=%s]]", entities.XPathLiteral(title)))
}

// AdminDashboardPage covers teacher approval, user management and course
// publishing in the back office
type AdminDashboardPage struct {
	*automation.Session
}

func NewAdminDashboardPage(s *automation.Session) *AdminDashboardPage {
	return &AdminDashboardPage{Session: s}
}

// GoToTeachers - opens the teacher profile list
func (p *AdminDashboardPage) GoToTeachers(ctx context.Context) error {
	p.Logger().Info("Navigating to Teachers section")
	if err := p.Click(ctx, teachersMenuLink); err != nil {
		return fmt.Errorf("failed to open teachers section: %w", err)
	}
	if err := p.WaitForPageLoad(ctx); err != nil {
		return err
	}
	_, err := p.GetElement(ctx, resultsTable, entities.ConditionPresent)
	return err
}

// ApproveTeacher - approves the pending teacher registered with email
func (p *AdminDashboardPage) ApproveTeacher(ctx context.Context, email string) error {
	log := p.Logger().WithField("email", email)
	log.Info("Approving teacher")

	if err := p.GoToTeachers(ctx); err != nil {
		return err
	}
	row := rowContaining(email)
	if err := p.Click(ctx, approveButton.Within(row)); err != nil {
		return fmt.Errorf("failed to approve teacher %s: %w", email, err)
	}
	confirmed, err := p.IsVisible(ctx, approvalSuccess)
	if err != nil {
		return err
	}
	if !confirmed {
		log.Error("No approval confirmation shown")
		p.Screenshot(ctx, "approve_teacher_unconfirmed")
		return entities.MarkFailure(entities.FailureTimeout, fmt.Errorf("approval of teacher %s not confirmed", email))
	}
	log.Info("Teacher approved")
	return nil
}

// IsTeacherPending - reports whether email is still listed for approval
func (p *AdminDashboardPage) IsTeacherPending(ctx context.Context, email string) (bool, error) {
	if err := p.GoToTeachers(ctx); err != nil {
		return false, err
	}
	return p.Within(pendingProbeTimeout).IsPresent(ctx, rowContaining(email))
}

// IsTeacherApproved - an approved teacher drops out of the pending list
func (p *AdminDashboardPage) IsTeacherApproved(ctx context.Context, email string) (bool, error) {
	pending, err := p.IsTeacherPending(ctx, email)
	if err != nil {
		return false, err
	}
	return !pending, nil
}

// GoToUserManagement - opens the user list
func (p *AdminDashboardPage) GoToUserManagement(ctx context.Context) error {
	if err := p.Click(ctx, usersMenuLink); err != nil {
		return fmt.Errorf("failed to open user management: %w", err)
	}
	return p.WaitForPageLoad(ctx)
}

// UserStatus - status column of the user registered with email
func (p *AdminDashboardPage) UserStatus(ctx context.Context, email string) (string, error) {
	return p.Text(ctx, rowStatusCell.Within(rowContaining(email)))
}

// ChangeUserStatus - opens the user and saves it with a new status
func (p *AdminDashboardPage) ChangeUserStatus(ctx context.Context, email, status string) error {
	p.Logger().WithFields(logrus.Fields{"email": email, "status": status}).Info("Changing user status")

	if err := p.Click(ctx, rowChangeLink.Within(rowContaining(email))); err != nil {
		return fmt.Errorf("failed to open user %s: %w", email, err)
	}
	if err := p.SelectByValue(ctx, userStatusSelect, status); err != nil {
		return err
	}
	if err := p.Click(ctx, saveButton); err != nil {
		return err
	}
	return p.WaitForPageLoad(ctx)
}

// GoToCourses - opens the course changelist
func (p *AdminDashboardPage) GoToCourses(ctx context.Context) error {
	return p.Open(ctx, adminCourseListPath)
}

// PublishCourse - runs the publish bulk action on the course titled title
func (p *AdminDashboardPage) PublishCourse(ctx context.Context, title string) error {
	p.Logger().WithField("course", title).Info("Publishing course")

	if err := p.Click(ctx, rowSelectCheckbox.Within(courseRow(title))); err != nil {
		return fmt.Errorf("failed to select course %q: %w", title, err)
	}
	if err := p.SelectByValue(ctx, changelistAction, publishCourseAction); err != nil {
		return err
	}
	if err := p.Click(ctx, changelistRunAction); err != nil {
		return err
	}
	return p.WaitForPageLoad(ctx)
}

// IsCoursePublished - the published column renders a boolean icon
func (p *AdminDashboardPage) IsCoursePublished(ctx context.Context, title string) (bool, error) {
	alt, err := p.Attribute(ctx, rowPublishedIcon.Within(courseRow(title)), "alt")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(alt, "true"), nil
}
