package cleaner

import "strings"

// Canonical section headers.
const (
	HeaderIntroduction          = "INTRODUCTION"
	HeaderWorkExperience        = "WORK EXPERIENCE"
	HeaderEducation             = "EDUCATION"
	HeaderSkills                = "SKILLS"
	HeaderPersonalInformation   = "PERSONAL INFORMATION"
	HeaderProjects              = "PROJECTS"
	HeaderCertifications        = "CERTIFICATIONS"
	HeaderHobbies               = "HOBBIES"
	HeaderAchievements          = "ACHIEVEMENTS"
	HeaderAdditionalInformation = "ADDITIONAL INFORMATION"
	HeaderLanguages             = "LANGUAGES"
	HeaderVolunteerExperience   = "VOLUNTEER EXPERIENCE"
	HeaderReferences            = "REFERENCES"
)

var headerSynonyms = map[string][]string{
	HeaderIntroduction:          {"about me", "profile", "summary", "professional summary"},
	HeaderWorkExperience:        {"work history", "employment history", "professional experience"},
	HeaderEducation:             {"academic background", "educational qualifications", "academic qualifications"},
	HeaderSkills:                {"technical skills", "core competencies", "key skills", "professional skills"},
	HeaderPersonalInformation:   {"personal details", "contact details", "contact information"},
	HeaderProjects:              {"key projects", "project experience", "technical projects"},
	HeaderCertifications:        {"certificates", "courses", "training", "professional development"},
	HeaderHobbies:               {"interests", "activities", "extracurricular activities"},
	HeaderAchievements:          {"awards", "honors", "accomplishments", "publications"},
	HeaderAdditionalInformation: {"other information", "miscellaneous"},
	HeaderLanguages:             {"language proficiency"},
	HeaderVolunteerExperience:   {"community service"},
	HeaderReferences:            {"professional references"},
}

// headerKeys maps a folded header spelling to its canonical form.
var headerKeys = buildHeaderKeys()

func buildHeaderKeys() map[string]string {
	keys := make(map[string]string)
	for canonical, synonyms := range headerSynonyms {
		keys[foldHeader(canonical)] = canonical
		for _, s := range synonyms {
			keys[foldHeader(s)] = canonical
		}
	}
	return keys
}

// foldHeader lowercases s and drops spaces and a trailing colon.
func foldHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":")
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), "")
}

// CanonicalHeader returns the canonical header a line spells, if any.
func CanonicalHeader(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	h, ok := headerKeys[foldHeader(line)]
	return h, ok
}

// IsCanonicalHeader reports whether line is exactly a canonical header.
func IsCanonicalHeader(line string) bool {
	_, ok := headerSynonyms[line]
	return ok
}

// CanonicalHeaders returns the canonical header vocabulary.
func CanonicalHeaders() []string {
	return []string{
		HeaderIntroduction,
		HeaderWorkExperience,
		HeaderEducation,
		HeaderSkills,
		HeaderPersonalInformation,
		HeaderProjects,
		HeaderCertifications,
		HeaderHobbies,
		HeaderAchievements,
		HeaderAdditionalInformation,
		HeaderLanguages,
		HeaderVolunteerExperience,
		HeaderReferences,
	}
}
