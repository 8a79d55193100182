package pages

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course_e2e/domain/entities"
)

func clicked(l entities.Locator) string {
	return "click " + l.String()
}

func typed(l entities.Locator, text string) string {
	return "type " + l.String() + " " + text
}

func TestLoginPageLogin(t *testing.T) {
	b := newFakeBrowser()
	p := NewLoginPage(newPageSession(t, b))

	require.NoError(t, p.Login(context.Background(), "student1", "Secret12@"))

	assert.Equal(t, []string{
		"open http://shop.test/",
		clicked(loginLink),
		typed(usernameInput, "student1"),
		typed(passwordInput, "Secret12@"),
		clicked(loginButton),
	}, b.recorded())
}

func TestLoginPageVerifyOutcome(t *testing.T) {
	b := newFakeBrowser()
	b.missing[loginErrorMessage.String()] = true
	p := NewLoginPage(newPageSession(t, b))
	ctx := context.Background()

	ok, err := p.VerifyLoginSuccess(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	failed, err := p.VerifyLoginFailed(ctx)
	require.NoError(t, err)
	assert.False(t, failed)
}

func TestLoginPageMissingLinkFails(t *testing.T) {
	b := newFakeBrowser()
	b.missing[loginLink.String()] = true
	p := NewLoginPage(newPageSession(t, b))

	err := p.Login(context.Background(), "student1", "Secret12@")
	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.Contains(t, err.Error(), "failed to open login form")
	assert.NotEmpty(t, p.Artifacts())
}

func TestLoginPageLogoutWaitsForLinkToDisappear(t *testing.T) {
	b := newFakeBrowser()
	b.onClick[logoutLink.String()] = func(b *fakeBrowser) { b.hide(logoutLink.String()) }
	p := NewLoginPage(newPageSession(t, b))

	require.NoError(t, p.Logout(context.Background()))
	assert.Equal(t, []string{clicked(logoutLink)}, b.recorded())
}

func TestStudentSignup(t *testing.T) {
	b := newFakeBrowser()
	p := NewStudentSignupPage(newPageSession(t, b))

	profile := entities.StudentProfile{
		Username:     "student1",
		Email:        "student1@example.com",
		FullNameEN:   "Student One",
		FullNameAR:   "طالب واحد",
		Password:     "Secret12@",
		ProfileImage: "testdata/avatar.png",
		Bio:          "Learning Go",
	}
	require.NoError(t, p.Signup(context.Background(), profile))

	avatar, err := filepath.Abs("testdata/avatar.png")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"open http://shop.test/",
		clicked(loginLink),
		clicked(signupLink),
		typed(signupUsername, "student1"),
		typed(signupEmail, "student1@example.com"),
		typed(signupFullNameEN, "Student One"),
		typed(signupFullNameAR, "طالب واحد"),
		typed(signupPassword, "Secret12@"),
		typed(signupPasswordAgain, "Secret12@"),
		"upload " + signupPicture.String() + " " + avatar,
		typed(signupBio, "Learning Go"),
		clicked(submitButton),
	}, b.recorded())
}

func TestStudentSignupSkipsOptionalFields(t *testing.T) {
	b := newFakeBrowser()
	p := NewStudentSignupPage(newPageSession(t, b))

	require.NoError(t, p.Signup(context.Background(), entities.StudentProfile{Username: "s2", Password: "x"}))

	for _, action := range b.recorded() {
		assert.NotContains(t, action, signupPicture.String())
		assert.NotContains(t, action, signupBio.String())
	}
}

func TestCoursesEnroll(t *testing.T) {
	b := newFakeBrowser()
	b.missing[enrollErrorMessage.String()] = true
	p := NewCoursesPage(newPageSession(t, b))
	ctx := context.Background()

	require.NoError(t, p.SelectCourse(ctx, "Go for testers"))
	require.NoError(t, p.Enroll(ctx, entities.Card{Number: "4242424242424242", ExpiryMonth: "12", ExpiryYear: "2030"}))

	assert.Equal(t, []string{
		clicked(courseHeading("Go for testers")),
		clicked(registerButton),
		typed(cardNumberInput, "4242424242424242"),
		"select " + expiryMonthSelect.String() + " 12",
		"select " + expiryYearSelect.String() + " 2030",
		"script window.scrollBy(0, 800)",
		clicked(payButton),
	}, b.recorded())

	rejected, err := p.EnrollmentError(ctx)
	require.NoError(t, err)
	assert.False(t, rejected)

	n, err := p.CourseCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCourseHeadingQuotesTitle(t *testing.T) {
	assert.Equal(t, `xpath=//h2[contains(normalize-space(.), "Teacher's Go")]`, courseHeading("Teacher's Go").String())
}

func TestHomePageNavigation(t *testing.T) {
	b := newFakeBrowser()
	p := NewHomePage(newPageSession(t, b))
	ctx := context.Background()

	require.NoError(t, p.GoToCourses(ctx))
	require.NoError(t, p.GoToTeacherDashboard(ctx))
	require.NoError(t, p.GoToTeacherSignup(ctx))

	visible, err := p.IsCourseVisible(ctx, "Go for testers")
	require.NoError(t, err)
	assert.True(t, visible)

	assert.Equal(t, []string{
		clicked(coursesMenuLink),
		clicked(teacherDashboardLink),
		clicked(teacherSignupMenuLink),
	}, b.recorded())
}
