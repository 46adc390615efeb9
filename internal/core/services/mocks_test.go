package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService.
// Known texts map to fixed vectors; anything else maps to fallback.
type mockEmbeddingService struct {
	vectors  map[string][]float32
	fallback []float32
	batchErr error
	embedErr error

	mu         sync.Mutex
	batchCalls int
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	if m.fallback != nil {
		return m.fallback
	}
	return []float32{1, 1, 1}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int           { return 3 }
func (m *mockEmbeddingService) ModelName() string         { return "mock-embed" }
func (m *mockEmbeddingService) Ping(context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error              { return nil }

// mockVectorIndex implements driven.VectorIndex with a failing Add.
type mockVectorIndex struct {
	addErr    error
	searchErr error
	hits      []driven.VectorHit
	added     int
}

func (m *mockVectorIndex) Add(context.Context, string, []float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added++
	return nil
}

func (m *mockVectorIndex) Delete(context.Context, string) error { return nil }

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int     { return m.added }
func (m *mockVectorIndex) Close() error { return nil }

// mockLLMService implements driven.LLMService.
// respond decides the reply per call.
type mockLLMService struct {
	respond func(messages []driven.ChatMessage, opts driven.ChatOptions) (string, error)

	mu       sync.Mutex
	calls    int
	messages [][]driven.ChatMessage
	options  []driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.messages = append(m.messages, messages)
	m.options = append(m.options, opts)
	m.mu.Unlock()
	if m.respond == nil {
		return "", errors.New("no response configured")
	}
	return m.respond(messages, opts)
}

func (m *mockLLMService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockLLMService) ModelName() string         { return "mock-llm" }
func (m *mockLLMService) Ping(context.Context) error { return nil }
func (m *mockLLMService) Close() error              { return nil }

// mockValidator implements driven.OutputValidator.
type mockValidator struct {
	err   error
	calls int
}

func (m *mockValidator) Validate(map[string]any, any) error {
	m.calls++
	return m.err
}

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}

// mockResumeStore implements driven.ResumeStore.
type mockResumeStore struct {
	saved   []domain.StoredResume
	saveErr error
}

func (m *mockResumeStore) SaveResume(_ context.Context, r *domain.StoredResume) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *r)
	return nil
}

func (m *mockResumeStore) GetResume(_ context.Context, id string) (*domain.StoredResume, error) {
	for i := range m.saved {
		if m.saved[i].ID == id {
			return &m.saved[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockResumeStore) ListResumes(_ context.Context, limit int) ([]domain.StoredResume, error) {
	if limit > 0 && limit < len(m.saved) {
		return m.saved[:limit], nil
	}
	return m.saved, nil
}

func (m *mockResumeStore) LastResume(context.Context) (*domain.StoredResume, error) {
	if len(m.saved) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.saved[len(m.saved)-1], nil
}

func (m *mockResumeStore) DeleteResume(_ context.Context, id string) error {
	for i := range m.saved {
		if m.saved[i].ID == id {
			m.saved = append(m.saved[:i], m.saved[i+1:]...)
			return nil
		}
	}
	return nil
}

// mockMeetingStore implements driven.MeetingStore.
type mockMeetingStore struct {
	saved   []domain.StoredMeeting
	saveErr error
}

func (m *mockMeetingStore) SaveMeeting(_ context.Context, meeting *domain.StoredMeeting) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *meeting)
	return nil
}

func (m *mockMeetingStore) GetMeeting(_ context.Context, id string) (*domain.StoredMeeting, error) {
	for i := range m.saved {
		if m.saved[i].ID == id {
			return &m.saved[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockMeetingStore) ListMeetings(context.Context, int) ([]domain.StoredMeeting, error) {
	return m.saved, nil
}

// mockPublisher implements driven.CalendarPublisher.
type mockPublisher struct {
	link      string
	err       error
	published []*domain.ScheduledMeeting
}

func (m *mockPublisher) Publish(_ context.Context, meeting *domain.ScheduledMeeting) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.published = append(m.published, meeting)
	return m.link, nil
}

// mockNormaliserRegistry implements driven.NormaliserRegistry by treating
// content as plain text.
type mockNormaliserRegistry struct {
	err error
}

func (m *mockNormaliserRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driven.NormaliseResult{Document: domain.Document{
		URI:      raw.URI,
		MIMEType: raw.MIMEType,
		Content:  string(raw.Content),
	}}, nil
}

func (m *mockNormaliserRegistry) Register(driven.Normaliser) {}

func (m *mockNormaliserRegistry) SupportedMIMETypes() []string {
	return []string{domain.MIMETypePlainText}
}

// mockParser implements Parser.
type mockParser struct {
	record *domain.AggregatedRecord
	err    error

	mu    sync.Mutex
	texts []string
}

func (m *mockParser) Parse(_ context.Context, text string) (*domain.AggregatedRecord, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.record != nil {
		return m.record, nil
	}
	return domain.NewAggregatedRecord(), nil
}

// mockConnector implements driven.Connector over fixed documents.
type mockConnector struct {
	docs        []domain.RawDocument
	changes     []domain.RawDocumentChange
	validateErr error
	syncErr     error
	watchErr    error
}

func (m *mockConnector) Type() string     { return "mock" }
func (m *mockConnector) SourceID() string { return "mock-inbox" }
func (m *mockConnector) Close() error     { return nil }

func (m *mockConnector) Validate(context.Context) error { return m.validateErr }

func (m *mockConnector) FullSync(context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument, len(m.docs))
	errs := make(chan error, 1)
	for _, d := range m.docs {
		docs <- d
	}
	if m.syncErr != nil {
		errs <- m.syncErr
	}
	close(docs)
	close(errs)
	return docs, errs
}

func (m *mockConnector) Watch(context.Context) (<-chan domain.RawDocumentChange, error) {
	if m.watchErr != nil {
		return nil, m.watchErr
	}
	changes := make(chan domain.RawDocumentChange, len(m.changes))
	for _, c := range m.changes {
		changes <- c
	}
	close(changes)
	return changes, nil
}

// mockAIValidator implements driven.AIConfigValidator.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
}

func (m *mockAIValidator) ValidateEmbedding(*domain.EmbeddingSettings) error { return m.embeddingErr }
func (m *mockAIValidator) ValidateLLM(*domain.LLMSettings) error             { return m.llmErr }

// --- Helpers ---

// schemaFor identifies which schema a chat request targets by its
// system instruction.
func schemaFor(messages []driven.ChatMessage) domain.SchemaName {
	if len(messages) == 0 {
		return ""
	}
	system := messages[0].Content
	descriptors := append(domain.Schemas(), domain.ClassificationSchema(), domain.MeetingSchema())
	for _, d := range descriptors {
		if strings.HasPrefix(system, d.Instruction) {
			return d.Name
		}
	}
	return ""
}

// cannedReplies holds a valid reply per schema.
var cannedReplies = map[domain.SchemaName]string{
	domain.SchemaPersonalDetails:       `{"Full_Name":"Jane Roe","Email_Address":"jane@example.com","Phone_Number":null}`,
	domain.SchemaProfessionalSummary:   `{"Summary":"Backend engineer","Years_of_Experience":6}`,
	domain.SchemaWorkExperience:        `{"list_of_experience":[{"company":"Acme","title":"Engineer","duration":"2019-2025"}]}`,
	domain.SchemaEducationDetails:      `{"list_of_education":[{"degree":"MSc Physics","institution":"ETH","years":"2012-2014"}]}`,
	domain.SchemaSkillsDetails:         `{"Technical_skills":["Go","Kubernetes"]}`,
	domain.SchemaCertifications:        `{"list_of_certificates":[{"Certification_name":"CKA","Issuing_organization":"CNCF"}]}`,
	domain.SchemaProjectsDetails:       `{"list_of_projects":[{"Project_name":"resumex","Project_description":"Resume parser"}]}`,
	domain.SchemaAdditionalInformation: `{"Hobbies":["Climbing"]}`,
	domain.SchemaAchievementsDetails:   `{"list_of_achievements":[{"Achievement_description":"Hackathon winner"}]}`,
	domain.SchemaClassification:        `{"category":"Computer Science / IT / Software Engineering","confidence_score":0.92}`,
}

// cannedLLM answers every schema with its canned reply, except those in fail.
func cannedLLM(fail ...domain.SchemaName) *mockLLMService {
	failing := make(map[domain.SchemaName]bool, len(fail))
	for _, f := range fail {
		failing[f] = true
	}
	return &mockLLMService{
		respond: func(messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
			name := schemaFor(messages)
			if failing[name] {
				return "", errors.New("model unavailable")
			}
			if reply, ok := cannedReplies[name]; ok {
				return reply, nil
			}
			return "", errors.New("unexpected schema")
		},
	}
}
