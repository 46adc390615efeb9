package domain

import "strings"

// Default extraction instructions. Section instructions double as the
// retrieval query for their schema.
const (
	personalDetailsPrompt = `Extract all personal details from the resume with high precision, including:
- Full name (exact spelling and format)
- Email address (complete and accurate)
- Phone number (with correct formatting)
- LinkedIn profile URL or handle
- GitHub profile URL or username
- Portfolio website if available
- Complete address details including city, state, country, and postal/zip code
Look for these details typically found at the top of the resume or in a dedicated contact section. If certain information is not present, indicate this rather than making assumptions.`

	professionalSummaryPrompt = `Extract the professional summary section with careful attention to detail:
- Main professional summary paragraph highlighting experience and skills
- Career objective or professional goals statement if present
- Key qualifications or core competencies listed
- Implied years of total experience (look for phrases like "X years of experience")
- Primary industries or sectors where the candidate has worked
Pay attention to the language used to describe the candidate's value proposition, career trajectory, and professional identity.`

	workExperiencePrompt = `Extract comprehensive work experience details with precision:
- Job titles (exact titles as listed)
- Company names (full legal names when provided)
- Location information for each position
- Detailed responsibilities (rewritten as full sentences starting with action verbs)
- Projects or initiatives led or contributed to
- Technologies or methodologies used in each role
Look for chronological work history, typically in reverse chronological order. Pay special attention to promotions within the same company.`

	educationPrompt = `Extract detailed education information with precision:
- Full degree names (e.g., "Bachelor of Science in Computer Science" rather than just "BS")
- Complete institution names
- Years of attendance (both start and end dates)
- GPA, percentage, or other academic scores if provided
- Major, specialization, concentration or focus areas
- Relevant coursework, thesis topics, or research projects
- Academic honors, scholarships, or distinctions
- Study abroad experiences if mentioned
Focus on higher education first, followed by professional education or training.`

	skillsPrompt = `Extract and categorize all skills listed on the resume with detailed organization:
- Technical skills (software, methods, techniques)
- Soft/interpersonal skills
- Programming languages (with proficiency levels if indicated)
- Frameworks and libraries
- Tools, platforms and software applications
- Methodologies and processes (e.g., Agile, Six Sigma)
- Human languages spoken (with proficiency levels)
Look for skills mentioned throughout the resume, not just in a dedicated skills section. Skills may be implied in project descriptions or work responsibilities.`

	certificationsPrompt = `Extract comprehensive certification information:
- Complete certification names (exact titles)
- Full names of issuing organizations or institutions
- Dates obtained and expiration dates if provided
- Credential IDs or verification numbers if listed
- Areas of specialization within certifications
Look for both formal certifications and completed training programs or courses.`

	projectsPrompt = `Extract detailed project information with high precision:
- Project names and complete descriptions
- Your specific role or contributions
- Project duration and timeline
- Team size and your leadership responsibilities if applicable
- Technologies, tools, and methodologies used
- Key challenges addressed and solutions implemented
- Quantifiable outcomes, impacts, or results
- URLs or repositories if mentioned
Look for projects mentioned throughout the resume, including those within work experience sections, education sections, or dedicated project sections.`

	additionalInformationPrompt = `Extract comprehensive additional information that provides context about the candidate:
- Hobbies and personal interests
- Professional interests or areas of passion
- Volunteer experience or community involvement
- Languages spoken (with proficiency levels)
- Availability or notice period information
- Relocation preferences or work arrangement preferences
This information is typically found in sections like "Additional Information," "Personal Interests," or at the end of the resume.`

	achievementsPrompt = `Extract all achievements, awards, honors, and publications with detailed precision:
- Complete descriptions of achievements or awards
- Exact names of awarding organizations or publications
- Dates received or published
- The significance or impact of each achievement
- Selection criteria or competition details if mentioned
- For publications: co-authors, journals, conferences, or publishing venues
Look for achievements mentioned throughout the resume, including within work experience, education, or dedicated sections.`
)

const meetingInstruction = `You are a meeting information extractor. Your task is to find meeting details in user text and put them into a specific JSON format.
Follow these instructions strictly and return only the JSON.

Expected JSON Format:
{
    "meeting_description": "Brief description of the meeting purpose.",
    "is_calendar_event": true/false,
    "confidence_score": float (0 to 1),
    "title": "The title or subject of the meeting.",
    "datetime": "YYYY-MM-DDTHH:MM:SS",
    "date": "Day, YYYY-MM-DD",
    "time": "HH:MM:SS",
    "duration_of_meeting": float (in hours),
    "participants": ["List", "of", "participants"],
    "confirmation_message": "Natural language confirmation message for the user.",
    "calendar_link": "Generated calendar link if applicable, else null.",
    "notes": "Additional notes or details about the meeting.",
    "location": "Location of the meeting. like 'Google Meet', 'Zoom', 'Aether Office', etc."
}

Ensure accuracy in parsing and extracting details. If any field is missing or unclear, make a reasonable assumption.`

const classificationPreamble = `You are a highly accurate and comprehensive resume title classifier AI assistant. Your task is to classify the resume into one of the following categories based on given json data.`

func classificationInstruction() string {
	var b strings.Builder
	b.WriteString(classificationPreamble)
	b.WriteString("\n\n")
	for _, c := range ClassificationCategories {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
