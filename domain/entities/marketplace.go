package entities

// StudentProfile is the data entered on the student sign-up form
type StudentProfile struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullNameEN   string `json:"full_name_en"`
	FullNameAR   string `json:"full_name_ar"`
	Password     string `json:"password"`
	ProfileImage string `json:"profile_image,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

// TeacherApplication is the data entered across the teacher application steps
type TeacherApplication struct {
	FullNameEN      string `json:"full_name_en"`
	FullNameAR      string `json:"full_name_ar"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ExperienceYears string `json:"experience_years"`
	University      string `json:"university"`
	GraduationYear  string `json:"graduation_year"`
	Major           string `json:"major"`
	Bio             string `json:"bio"`
	Password        string `json:"password"`
}

// Card is the payment card used to enroll in a course
type Card struct {
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
}

// Course is a course created by a teacher
type Course struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Language    string `json:"language"`
	Level       string `json:"level"`
	ImagePath   string `json:"image_path,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
}
