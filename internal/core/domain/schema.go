package domain

// SchemaName identifies a target field set the extractor must populate.
type SchemaName string

// Section schemas, in extraction order.
const (
	SchemaPersonalDetails       SchemaName = "Personal_Details"
	SchemaProfessionalSummary   SchemaName = "Professional_Summary"
	SchemaWorkExperience        SchemaName = "Work_Experience"
	SchemaEducationDetails      SchemaName = "Education_Details"
	SchemaSkillsDetails         SchemaName = "Skills_Details"
	SchemaCertifications        SchemaName = "Certifications_Details"
	SchemaProjectsDetails       SchemaName = "Projects_Details"
	SchemaAdditionalInformation SchemaName = "Additional_Information"
	SchemaAchievementsDetails   SchemaName = "Achievements_Details"

	// SchemaClassification runs after the sections and takes no retrieval.
	SchemaClassification SchemaName = "Classification"

	// SchemaMeeting is used by the meeting extractor over the full request text.
	SchemaMeeting SchemaName = "Meeting"
)

// String returns the schema name.
func (n SchemaName) String() string {
	return string(n)
}

// DefaultK is used when a descriptor does not specify a retrieval count.
const DefaultK = 5

// SchemaQuery is the retrieval request issued for one schema.
type SchemaQuery struct {
	Schema SchemaName
	Text   string
	K      int
}

// SchemaDescriptor describes one closed-enumeration schema: how to retrieve
// context for it, what to tell the model, and what shape the answer takes.
type SchemaDescriptor struct {
	// Name is the schema identifier and the key in the aggregated record.
	Name SchemaName

	// Query is the retrieval query text.
	Query string

	// Instruction is the default system instruction for extraction.
	Instruction string

	// K is the number of chunks retrieved. Zero means no retrieval.
	K int

	// JSONSchema is the JSON Schema of the field set.
	JSONSchema map[string]any

	// New returns a pointer to a zero value of the typed section struct.
	New func() any
}

// SchemaQuery returns the retrieval request for this descriptor.
func (d SchemaDescriptor) SchemaQuery() SchemaQuery {
	k := d.K
	if k <= 0 {
		k = DefaultK
	}
	return SchemaQuery{Schema: d.Name, Text: d.Query, K: k}
}

// Retrieves reports whether the descriptor takes retrieved context.
func (d SchemaDescriptor) Retrieves() bool {
	return d.Query != ""
}

// Schemas returns the section descriptors in extraction order.
// The returned slice is a copy and may be modified by the caller.
func Schemas() []SchemaDescriptor {
	out := make([]SchemaDescriptor, len(sectionSchemas))
	copy(out, sectionSchemas)
	return out
}

// LookupSchema returns the descriptor with the given name, including the
// classification and meeting descriptors.
func LookupSchema(name SchemaName) (SchemaDescriptor, bool) {
	switch name {
	case SchemaClassification:
		return ClassificationSchema(), true
	case SchemaMeeting:
		return MeetingSchema(), true
	}
	for _, d := range sectionSchemas {
		if d.Name == name {
			return d, true
		}
	}
	return SchemaDescriptor{}, false
}

// AllSchemaNames returns every schema name that has a descriptor.
func AllSchemaNames() []SchemaName {
	names := make([]SchemaName, 0, len(sectionSchemas)+2)
	for _, d := range sectionSchemas {
		names = append(names, d.Name)
	}
	return append(names, SchemaClassification, SchemaMeeting)
}

// ClassificationCategories is the closed set of résumé categories.
var ClassificationCategories = []string{
	"Computer Science / IT / Software Engineering",
	"Data Science / AI / Machine Learning",
	"Electrical Engineering",
	"Mechanical Engineering",
	"Civil Engineering",
	"Marketing",
	"Finance",
	"Human Resources (HR)",
	"Sales",
	"Business Administration",
	"Legal / Law",
	"Graphic Design / UX/UI",
	"Biomedical Science",
	"Education / Teaching",
	"Psychology",
}

// ClassificationSchema returns the descriptor for the résumé classifier.
func ClassificationSchema() SchemaDescriptor {
	return SchemaDescriptor{
		Name:        SchemaClassification,
		Instruction: classificationInstruction(),
		JSONSchema: object(map[string]any{
			"category":         enumField("The classified category of the resume.", ClassificationCategories),
			"confidence_score": unitField("Confidence level (0 to 1) for classification."),
			"description":      optional(stringField("Additional details or reasoning for the classification.")),
		}, "category", "confidence_score"),
		New: func() any { return &Classification{} },
	}
}

// MeetingSchema returns the descriptor for meeting extraction.
func MeetingSchema() SchemaDescriptor {
	return SchemaDescriptor{
		Name:        SchemaMeeting,
		Instruction: meetingInstruction,
		JSONSchema: object(map[string]any{
			"meeting_description":  stringField("Brief description of the meeting purpose."),
			"is_calendar_event":    boolField("Indicates if the input is a calendar event."),
			"confidence_score":     unitField("Confidence level (0 to 1) for meeting detection."),
			"title":                stringField("The title or subject of the meeting."),
			"datetime":             stringField("The date and time of the meeting, e.g. 2025-03-26T14:00:00."),
			"date":                 stringField("The date of the meeting as 'Day, YYYY-MM-DD'."),
			"time":                 stringField("The time of the meeting as HH:MM:SS."),
			"duration_of_meeting":  minField(numberField("Duration of the meeting in hours."), 0),
			"participants":         stringList("List of participants attending the meeting."),
			"confirmation_message": stringField("Natural language confirmation message for the user."),
			"calendar_link":        optional(stringField("Generated calendar link, if applicable.")),
			"notes":                optional(stringField("Additional notes or details about the meeting.")),
			"location":             optional(stringField("Location of the meeting.")),
		},
			"meeting_description", "is_calendar_event", "confidence_score", "title",
			"datetime", "date", "time", "duration_of_meeting", "participants",
			"confirmation_message",
		),
		New: func() any { return &MeetingCandidate{} },
	}
}

var sectionSchemas = []SchemaDescriptor{
	{
		Name:        SchemaPersonalDetails,
		Query:       personalDetailsPrompt,
		Instruction: personalDetailsPrompt,
		K:           5,
		JSONSchema: object(map[string]any{
			"Full_Name":         stringField("Full name of resume candidate"),
			"Email_Address":     stringField("Email address of resume candidate"),
			"Phone_Number":      optional(stringField("Phone number of resume candidate")),
			"LinkedIn_Profile":  optional(stringField("LinkedIn profile URL or username")),
			"GitHub_Profile":    optional(stringField("GitHub profile URL or username")),
			"Portfolio_Website": optional(stringField("Personal or portfolio website URL")),
			"Address":           optional(stringField("Address of resume candidate")),
			"City":              optional(stringField("City where candidate resides")),
			"State":             optional(stringField("State or province where candidate resides")),
			"Country":           optional(stringField("Country where candidate resides")),
			"Pincode":           optional(stringField("Postal/Zip code of address")),
		}, "Full_Name", "Email_Address"),
		New: func() any { return &PersonalDetails{} },
	},
	{
		Name:        SchemaProfessionalSummary,
		Query:       professionalSummaryPrompt,
		Instruction: professionalSummaryPrompt,
		K:           5,
		JSONSchema: object(map[string]any{
			"Summary":             stringField("Professional summary highlighting experience, skills and achievements"),
			"Objective":           optional(stringField("Career objective or professional goals")),
			"Years_of_Experience": optional(integerField("Total years of professional experience")),
			"Industry_Focus":      optional(stringList("Primary industries or sectors of expertise")),
		}, "Summary"),
		New: func() any { return &ProfessionalSummary{} },
	},
	{
		Name:        SchemaWorkExperience,
		Query:       workExperiencePrompt,
		Instruction: workExperiencePrompt,
		K:           5,
		JSONSchema: object(map[string]any{
			"list_of_experience": arrayOf(object(map[string]any{
				"company":           stringField("Company name"),
				"title":             stringField("Job title"),
				"location":          optional(stringField("Location of the position")),
				"duration":          stringField("Duration of employment"),
				"start_date":        optional(stringField("Start date of employment")),
				"end_date":          optional(stringField("End date of employment or 'Present' if current")),
				"technologies_used": optional(stringList("Technologies or tools used in this role")),
			}, "company", "title", "duration")),
		}, "list_of_experience"),
		New: func() any { return &ExperienceList{} },
	},
	{
		Name:        SchemaEducationDetails,
		Query:       educationPrompt,
		Instruction: educationPrompt,
		K:           5,
		JSONSchema: object(map[string]any{
			"list_of_education": arrayOf(object(map[string]any{
				"degree":              stringField("Full degree name"),
				"institution":         stringField("Institution name"),
				"years":               stringField("Years of attendance"),
				"start_date":          optional(stringField("Start date of education")),
				"end_date":            optional(stringField("End date of education or 'Present' if current")),
				"percentage":          optional(numberField("GPA, percentage or other academic score")),
				"specialization":      optional(stringField("Major, specialization or focus area")),
				"relevant_coursework": optional(stringList("Relevant courses completed")),
				"achievements":        optional(stringList("Academic achievements or honors")),
			}, "degree", "institution", "years")),
		}, "list_of_education"),
		New: func() any { return &EducationList{} },
	},
	{
		Name:        SchemaSkillsDetails,
		Query:       skillsPrompt,
		Instruction: skillsPrompt,
		K:           7,
		JSONSchema: object(map[string]any{
			"Technical_skills":      stringList("List of technical skills"),
			"Soft_Skills":           optional(stringList("List of soft/interpersonal skills")),
			"Programming_Languages": optional(stringList("Programming languages with proficiency level when available")),
			"Frameworks_Libraries":  optional(stringList("Frameworks and libraries the candidate is familiar with")),
			"Tools_Software":        optional(stringList("Tools, software or platforms the candidate has used")),
			"Methodologies":         optional(stringList("Methodologies, processes or approaches the candidate is familiar with")),
			"Languages":             optional(stringList("Human languages spoken with proficiency level")),
		}, "Technical_skills"),
		New: func() any { return &SkillsDetails{} },
	},
	{
		Name:        SchemaCertifications,
		Query:       certificationsPrompt,
		Instruction: certificationsPrompt,
		K:           4,
		JSONSchema: object(map[string]any{
			"list_of_certificates": arrayOf(object(map[string]any{
				"Certification_name":   stringField("Name of the certification or course"),
				"Issuing_organization": stringField("Organization that issued the certification"),
			}, "Certification_name", "Issuing_organization")),
		}, "list_of_certificates"),
		New: func() any { return &CertificationsList{} },
	},
	{
		Name:        SchemaProjectsDetails,
		Query:       projectsPrompt,
		Instruction: projectsPrompt,
		K:           6,
		JSONSchema: object(map[string]any{
			"list_of_projects": arrayOf(object(map[string]any{
				"Project_name":        stringField("Project name"),
				"Project_description": stringField("Comprehensive project description"),
				"Role":                optional(stringField("Role in the project")),
				"Duration":            optional(stringField("Duration of project involvement")),
				"Technologies_used":   optional(stringList("Technologies, tools or methods used")),
				"Team_size":           optional(integerField("Size of the project team")),
				"URL":                 optional(stringField("Project URL or repository link")),
				"Key_achievements":    optional(stringList("Notable achievements or outcomes")),
			}, "Project_name", "Project_description")),
		}, "list_of_projects"),
		New: func() any { return &ProjectList{} },
	},
	{
		Name:        SchemaAdditionalInformation,
		Query:       additionalInformationPrompt,
		Instruction: additionalInformationPrompt,
		K:           4,
		JSONSchema: object(map[string]any{
			"Hobbies":      optional(stringList("List of hobbies")),
			"Interests":    optional(stringList("List of professional or personal interests")),
			"Languages":    optional(stringList("Languages spoken with proficiency level")),
			"Availability": optional(stringField("Availability for work, notice period, etc.")),
		}),
		New: func() any { return &AdditionalInformation{} },
	},
	{
		Name:        SchemaAchievementsDetails,
		Query:       achievementsPrompt,
		Instruction: achievementsPrompt,
		K:           4,
		JSONSchema: object(map[string]any{
			"list_of_achievements": arrayOf(object(map[string]any{
				"Achievement_description": stringField("Description of the achievement"),
				"Date":                    optional(stringField("Date of achievement")),
				"Awarding_organization":   optional(stringField("Organization that gave the award/recognition")),
				"Impact":                  optional(stringField("Impact or significance of the achievement")),
			}, "Achievement_description")),
		}, "list_of_achievements"),
		New: func() any { return &AchievementsList{} },
	},
}

func object(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func stringField(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func numberField(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

// unitField is a number in [0, 1].
func unitField(desc string) map[string]any {
	f := minField(numberField(desc), 0)
	f["maximum"] = 1
	return f
}

func minField(field map[string]any, minimum float64) map[string]any {
	field["minimum"] = minimum
	return field
}

// enumField is a string restricted to values.
func enumField(desc string, values []string) map[string]any {
	f := stringField(desc)
	f["enum"] = values
	return f
}

func integerField(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func boolField(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}

func stringList(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// optional lets a field be null in addition to its declared type.
func optional(field map[string]any) map[string]any {
	out := make(map[string]any, len(field))
	for k, v := range field {
		out[k] = v
	}
	out["type"] = []any{field["type"], "null"}
	return out
}
