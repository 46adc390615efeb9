package domain

// PersonalDetails identifies the résumé candidate.
type PersonalDetails struct {
	FullName         string `json:"Full_Name"`
	EmailAddress     string `json:"Email_Address"`
	PhoneNumber      string `json:"Phone_Number"`
	LinkedInProfile  string `json:"LinkedIn_Profile"`
	GitHubProfile    string `json:"GitHub_Profile"`
	PortfolioWebsite string `json:"Portfolio_Website"`
	Address          string `json:"Address"`
	City             string `json:"City"`
	State            string `json:"State"`
	Country          string `json:"Country"`
	Pincode          string `json:"Pincode"`
}

// ProfessionalSummary is the overview of the candidate's profile.
type ProfessionalSummary struct {
	Summary           string   `json:"Summary"`
	Objective         string   `json:"Objective"`
	YearsOfExperience *int     `json:"Years_of_Experience"`
	IndustryFocus     []string `json:"Industry_Focus"`
}

// Experience is one position held.
type Experience struct {
	Company          string   `json:"company"`
	Title            string   `json:"title"`
	Location         string   `json:"location"`
	Duration         string   `json:"duration"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	TechnologiesUsed []string `json:"technologies_used"`
}

// ExperienceList is the Work_Experience section.
type ExperienceList struct {
	Items []Experience `json:"list_of_experience"`
}

// Education is one degree or programme.
type Education struct {
	Degree             string   `json:"degree"`
	Institution        string   `json:"institution"`
	Years              string   `json:"years"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	Percentage         *float64 `json:"percentage"`
	Specialization     string   `json:"specialization"`
	RelevantCoursework []string `json:"relevant_coursework"`
	Achievements       []string `json:"achievements"`
}

// EducationList is the Education_Details section.
type EducationList struct {
	Items []Education `json:"list_of_education"`
}

// SkillsDetails categorises the candidate's capabilities.
type SkillsDetails struct {
	TechnicalSkills      []string `json:"Technical_skills"`
	SoftSkills           []string `json:"Soft_Skills"`
	ProgrammingLanguages []string `json:"Programming_Languages"`
	FrameworksLibraries  []string `json:"Frameworks_Libraries"`
	ToolsSoftware        []string `json:"Tools_Software"`
	Methodologies        []string `json:"Methodologies"`
	Languages            []string `json:"Languages"`
}

// Certification is one professional qualification.
type Certification struct {
	Name                string `json:"Certification_name"`
	IssuingOrganization string `json:"Issuing_organization"`
}

// CertificationsList is the Certifications_Details section.
type CertificationsList struct {
	Items []Certification `json:"list_of_certificates"`
}

// Project is one project the candidate worked on.
type Project struct {
	Name             string   `json:"Project_name"`
	Description      string   `json:"Project_description"`
	Role             string   `json:"Role"`
	Duration         string   `json:"Duration"`
	TechnologiesUsed []string `json:"Technologies_used"`
	TeamSize         *int     `json:"Team_size"`
	URL              string   `json:"URL"`
	KeyAchievements  []string `json:"Key_achievements"`
}

// ProjectList is the Projects_Details section.
type ProjectList struct {
	Items []Project `json:"list_of_projects"`
}

// AdditionalInformation holds context that fits no other section.
type AdditionalInformation struct {
	Hobbies      []string `json:"Hobbies"`
	Interests    []string `json:"Interests"`
	Languages    []string `json:"Languages"`
	Availability string   `json:"Availability"`
}

// Achievement is one award, honour or publication.
type Achievement struct {
	Description          string `json:"Achievement_description"`
	Date                 string `json:"Date"`
	AwardingOrganization string `json:"Awarding_organization"`
	Impact               string `json:"Impact"`
}

// AchievementsList is the Achievements_Details section.
type AchievementsList struct {
	Items []Achievement `json:"list_of_achievements"`
}

// Classification assigns the résumé to one of ClassificationCategories.
type Classification struct {
	Category        string  `json:"category"`
	ConfidenceScore float64 `json:"confidence_score"`
	Description     string  `json:"description"`
}

// ClassifierInput is the compact summary the classifier is given.
// Sections that failed contribute zero values.
type ClassifierInput struct {
	Summary         string       `json:"Summary"`
	WorkExperience  []Experience `json:"Work_Experience"`
	Education       []Education  `json:"Education_Details"`
	TechnicalSkills []string     `json:"Technical_skills"`
}

// HasClassifierInput reports whether at least one section the classifier
// reads was extracted successfully.
func HasClassifierInput(sections map[SchemaName]ExtractionResult) bool {
	for _, name := range []SchemaName{
		SchemaProfessionalSummary, SchemaWorkExperience, SchemaEducationDetails, SchemaSkillsDetails,
	} {
		if res, ok := sections[name]; ok && res.OK() {
			return true
		}
	}
	return false
}

// NewClassifierInput assembles the classifier input from extracted sections.
func NewClassifierInput(sections map[SchemaName]ExtractionResult) ClassifierInput {
	var in ClassifierInput
	if v, ok := sections[SchemaProfessionalSummary].Value.(*ProfessionalSummary); ok && v != nil {
		in.Summary = v.Summary
	}
	if v, ok := sections[SchemaWorkExperience].Value.(*ExperienceList); ok && v != nil {
		in.WorkExperience = v.Items
	}
	if v, ok := sections[SchemaEducationDetails].Value.(*EducationList); ok && v != nil {
		in.Education = v.Items
	}
	if v, ok := sections[SchemaSkillsDetails].Value.(*SkillsDetails); ok && v != nil {
		in.TechnicalSkills = v.TechnicalSkills
	}
	if in.WorkExperience == nil {
		in.WorkExperience = []Experience{}
	}
	if in.Education == nil {
		in.Education = []Education{}
	}
	if in.TechnicalSkills == nil {
		in.TechnicalSkills = []string{}
	}
	return in
}
