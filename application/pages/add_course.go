package pages

import (
	"context"
	"fmt"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

var (
	addNewCourseButton = entities.XPath("//a[@class='btn btn-success']")
	courseTitleInput   = entities.ID("id_title")
	courseDescription  = entities.ID("id_description")
	coursePriceInput   = entities.ID("id_price")
	courseLanguage     = entities.ID("id_language")
	courseLevel        = entities.ID("id_level")
	courseImageInput   = entities.ID("id_image")
	courseVideoInput   = entities.ID("id_video_url")
	courseAddedMessage = entities.XPath("//div[contains(@class, 'alert-success')]")
)

// AddCoursePage is the course form of the teacher dashboard
type AddCoursePage struct {
	*automation.Session
}

func NewAddCoursePage(s *automation.Session) *AddCoursePage {
	return &AddCoursePage{Session: s}
}

// AddNewCourse - opens the form, fills it and submits
func (p *AddCoursePage) AddNewCourse(ctx context.Context, course entities.Course) error {
	p.Logger().WithField("course", course.Title).Info("Adding course")

	if err := p.Click(ctx, addNewCourseButton); err != nil {
		return fmt.Errorf("failed to open course form: %w", err)
	}
	if err := fill(ctx, p.Session, []field{
		{courseTitleInput, course.Title},
		{courseDescription, course.Description},
		{coursePriceInput, course.Price},
	}); err != nil {
		return err
	}
	if err := p.SelectByValue(ctx, courseLanguage, course.Language); err != nil {
		return err
	}
	if err := p.SelectByValue(ctx, courseLevel, course.Level); err != nil {
		return err
	}
	if course.ImagePath != "" {
		if err := p.UploadFile(ctx, courseImageInput, course.ImagePath); err != nil {
			return err
		}
	}
	if course.VideoURL != "" {
		if err := p.Type(ctx, courseVideoInput, course.VideoURL); err != nil {
			return err
		}
	}
	if err := p.Click(ctx, submitButton); err != nil {
		return err
	}
	return p.WaitForPageLoad(ctx)
}

// VerifyCourseAdded - the success banner is shown and the course is listed
func (p *AddCoursePage) VerifyCourseAdded(ctx context.Context, title string) (bool, error) {
	shown, err := p.IsVisible(ctx, courseAddedMessage)
	if err != nil || !shown {
		return false, err
	}
	return p.IsPresent(ctx, entities.XPath(fmt.Sprintf("//*[contains(normalize-space(.), %s)]", entities.XPathLiteral(title))))
}
