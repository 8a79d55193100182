package pages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course_e2e/domain/entities"
)

func TestAdminLoginRejected(t *testing.T) {
	b := newFakeBrowser()
	b.texts[adminLoginError.String()] = " Please enter the correct username and password for a staff account. "
	p := NewAdminLoginPage(newPageSession(t, b))
	ctx := context.Background()

	ok, err := p.Login(ctx, "admin", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []string{
		"open http://shop.test/admin/",
		typed(adminUsernameInput, "admin"),
		typed(adminPasswordInput, "wrong"),
		clicked(adminLoginButton),
	}, b.recorded())

	msg, err := p.ErrorMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Please enter the correct username and password for a staff account.", msg)
}

func TestAdminLogout(t *testing.T) {
	b := newFakeBrowser()
	p := NewAdminLoginPage(newPageSession(t, b))

	require.NoError(t, p.Logout(context.Background()))
	assert.Equal(t, []string{clicked(adminProfileMenu), clicked(adminLogoutButton)}, b.recorded())
}

func TestAdminLogoutWithoutLoginForm(t *testing.T) {
	b := newFakeBrowser()
	b.hide(adminUsernameInput.String())
	p := NewAdminLoginPage(newPageSession(t, b))

	err := p.Logout(context.Background())
	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.NotEmpty(t, p.Artifacts())
}

func TestAdminApproveTeacher(t *testing.T) {
	b := newFakeBrowser()
	p := NewAdminDashboardPage(newPageSession(t, b))
	ctx := context.Background()

	require.NoError(t, p.ApproveTeacher(ctx, "teacher1@example.com"))

	approve := approveButton.Within(rowContaining("teacher1@example.com"))
	assert.Equal(t, []string{clicked(teachersMenuLink), clicked(approve)}, b.recorded())
	assert.Equal(t,
		`xpath=//table//td[contains(text(), 'teacher1@example.com')]/ancestor::tr >> xpath=.//button[text()='Approve']`,
		approve.String())

	// still listed, so not approved yet
	approved, err := p.IsTeacherApproved(ctx, "teacher1@example.com")
	require.NoError(t, err)
	assert.False(t, approved)
}

func TestAdminApproveTeacherRequiresConfirmation(t *testing.T) {
	b := newFakeBrowser()
	b.missing[approvalSuccess.String()] = true
	p := NewAdminDashboardPage(newPageSession(t, b))

	err := p.ApproveTeacher(context.Background(), "teacher1@example.com")
	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.Contains(t, err.Error(), "teacher1@example.com not confirmed")
	assert.NotEmpty(t, p.Artifacts())
}

func TestAdminUserManagement(t *testing.T) {
	b := newFakeBrowser()
	row := rowContaining("student1@example.com")
	b.texts[rowStatusCell.Within(row).String()] = "Active"
	p := NewAdminDashboardPage(newPageSession(t, b))
	ctx := context.Background()

	require.NoError(t, p.GoToUserManagement(ctx))

	status, err := p.UserStatus(ctx, "student1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Active", status)

	require.NoError(t, p.ChangeUserStatus(ctx, "student1@example.com", "suspended"))
	assert.Equal(t, []string{
		clicked(usersMenuLink),
		clicked(rowChangeLink.Within(row)),
		"select " + userStatusSelect.String() + " suspended",
		clicked(saveButton),
	}, b.recorded())
}

func TestAdminPublishCourse(t *testing.T) {
	b := newFakeBrowser()
	row := courseRow("testing_course")
	b.attrs[rowPublishedIcon.Within(row).String()] = map[string]string{"alt": "True"}
	p := NewAdminDashboardPage(newPageSession(t, b))
	ctx := context.Background()

	require.NoError(t, p.GoToCourses(ctx))
	require.NoError(t, p.PublishCourse(ctx, "testing_course"))

	assert.Equal(t, []string{
		"open http://shop.test/admin/courses/course/",
		clicked(rowSelectCheckbox.Within(row)),
		"select " + changelistAction.String() + " make_published",
		clicked(changelistRunAction),
	}, b.recorded())

	published, err := p.IsCoursePublished(ctx, "testing_course")
	require.NoError(t, err)
	assert.True(t, published)

	published, err = p.IsCoursePublished(ctx, "other_course")
	require.NoError(t, err)
	assert.False(t, published)
}
