package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vectormem "github.com/custodia-labs/resumex/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/postprocessors/chunker"
	"github.com/custodia-labs/resumex/internal/postprocessors/cleaner"
)

const sampleResume = `Jane Roe
jane@example.com | +41 79 000 00 00

Summary
Backend engineer with six years of experience building distributed systems.

Experience
Acme Corp, Senior Engineer, 2019 - 2025
- Built the billing platform in Go
- Ran Kubernetes clusters

Education
MSc Physics, ETH Zurich, 2012 - 2014

Skills
Go, Kubernetes, PostgreSQL

Certifications
CKA, CNCF

Projects
resumex: a résumé parser

Achievements
Hackathon winner 2021
`

var fixedTime = time.Date(2025, 3, 26, 14, 0, 0, 0, time.UTC)

func newTestOrchestrator(llm driven.LLMService, embedder driven.EmbeddingService, opts ...OrchestratorOption) *Orchestrator {
	opts = append([]OrchestratorOption{WithClock(func() time.Time { return fixedTime })}, opts...)
	return NewOrchestrator(
		cleaner.New(),
		chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(40)),
		NewIndexBuilder(embedder, vectormem.Factory()),
		NewExtractor(llm, nil),
		opts...,
	)
}

func TestOrchestrator_Parse_AllSectionsSucceed(t *testing.T) {
	llm := cannedLLM()
	o := newTestOrchestrator(llm, &mockEmbeddingService{})

	record, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	require.Len(t, record.Sections, len(domain.Schemas()))
	for _, d := range domain.Schemas() {
		res, ok := record.Section(d.Name)
		require.True(t, ok, d.Name)
		assert.True(t, res.OK(), "section %s failed: %v", d.Name, res.Err)
	}
	assert.Empty(t, record.Failures())

	require.True(t, record.Classification.OK())
	cls := record.Classification.Value.(*domain.Classification)
	assert.Equal(t, "Computer Science / IT / Software Engineering", cls.Category)
	assert.InDelta(t, 0.92, cls.ConfidenceScore, 1e-9)

	assert.Equal(t, fixedTime, record.Metadata.ExtractedAt)
	assert.Equal(t, "mock-llm", record.Metadata.Model)
	assert.Equal(t, domain.RecordVersion, record.Metadata.Version)
	assert.Positive(t, record.Metadata.ChunksProcessed)

	// One call per section plus classification.
	assert.Equal(t, len(domain.Schemas())+1, llm.callCount())
}

func TestOrchestrator_Parse_ClassifierSeesExtractedSections(t *testing.T) {
	llm := cannedLLM()
	o := newTestOrchestrator(llm, &mockEmbeddingService{})

	_, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	var input string
	for _, msgs := range llm.messages {
		if schemaFor(msgs) == domain.SchemaClassification {
			input = msgs[1].Content
		}
	}
	require.NotEmpty(t, input)
	assert.Contains(t, input, `"Summary":"Backend engineer"`)
	assert.Contains(t, input, `"company":"Acme"`)
	assert.Contains(t, input, `"Technical_skills":["Go","Kubernetes"]`)
}

func TestOrchestrator_Parse_SectionFailureIsIsolated(t *testing.T) {
	llm := cannedLLM(domain.SchemaWorkExperience)
	o := newTestOrchestrator(llm, &mockEmbeddingService{})

	record, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Equal(t, []domain.SchemaName{domain.SchemaWorkExperience}, record.Failures())

	failed, _ := record.Section(domain.SchemaWorkExperience)
	require.NotNil(t, failed.Err)
	assert.Nil(t, failed.Value)
	assert.Equal(t, DefaultMaxAttempts, failed.Err.Attempts)

	for _, d := range domain.Schemas() {
		if d.Name == domain.SchemaWorkExperience {
			continue
		}
		res, _ := record.Section(d.Name)
		assert.True(t, res.OK(), d.Name)
	}
	assert.True(t, record.Classification.OK())

	out, err := record.ToMap()
	require.NoError(t, err)
	msg, ok := out[string(domain.SchemaWorkExperience)].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(msg, "Error extracting Work_Experience: "))
	assert.Contains(t, msg, "model unavailable")
}

func TestOrchestrator_Parse_ClassificationFailure(t *testing.T) {
	llm := cannedLLM(domain.SchemaClassification)
	o := newTestOrchestrator(llm, &mockEmbeddingService{})

	record, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Equal(t, []domain.SchemaName{domain.SchemaClassification}, record.Failures())

	out, err := record.ToMap()
	require.NoError(t, err)
	msg, ok := out[string(domain.SchemaClassification)].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(msg, "Error during classification: "))
}

func TestOrchestrator_Parse_AllFailuresStillReturnRecord(t *testing.T) {
	llm := &mockLLMService{respond: func([]driven.ChatMessage, driven.ChatOptions) (string, error) {
		return "", errors.New("connection refused")
	}}
	o := newTestOrchestrator(llm, &mockEmbeddingService{})

	record, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Len(t, record.Failures(), len(domain.Schemas())+1)
	assert.Equal(t, domain.RecordVersion, record.Metadata.Version)
}

func TestOrchestrator_Parse_ClassificationSkippedWithoutInputs(t *testing.T) {
	llm := cannedLLM(
		domain.SchemaProfessionalSummary, domain.SchemaWorkExperience,
		domain.SchemaEducationDetails, domain.SchemaSkillsDetails,
	)
	o := newTestOrchestrator(llm, &mockEmbeddingService{})

	record, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	require.False(t, record.Classification.OK())
	assert.ErrorIs(t, record.Classification.Err, domain.ErrExtractionFailed)
	for _, msgs := range llm.messages {
		assert.NotEqual(t, domain.SchemaClassification, schemaFor(msgs))
	}
	assert.Equal(t, len(domain.Schemas()), llm.callCount())

	personal, ok := record.Section(domain.SchemaPersonalDetails)
	require.True(t, ok)
	assert.True(t, personal.OK())
}

// contextLLM answers personal details and work experience from what the
// retrieved context actually contains, and everything else canned.
func contextLLM() *mockLLMService {
	return &mockLLMService{
		respond: func(messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
			name := schemaFor(messages)
			retrieved := messages[1].Content
			switch name {
			case domain.SchemaPersonalDetails:
				if !strings.Contains(retrieved, "John Doe") {
					return "", errors.New("name not in context")
				}
				return `{"Full_Name":"John Doe","Email_Address":"john@x.com"}`, nil
			case domain.SchemaWorkExperience:
				if !strings.Contains(retrieved, "Acme Corp") {
					return "", errors.New("employer not in context")
				}
				return `{"list_of_experience":[{"company":"Acme Corp","title":"Engineer","duration":"2019-2021"}]}`, nil
			}
			if reply, ok := cannedReplies[name]; ok {
				return reply, nil
			}
			return "", errors.New("unexpected schema")
		},
	}
}

func TestOrchestrator_Parse_ShortResumeEndToEnd(t *testing.T) {
	const raw = "INTRODUCTION\n\nJohn Doe, john@x.com\n\nWORK EXPERIENCE\n\nAcme Corp, Engineer, 2019-2021"

	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			o := NewOrchestrator(
				cleaner.New(),
				chunker.New(),
				NewIndexBuilder(&mockEmbeddingService{}, vectormem.Factory()),
				NewExtractor(contextLLM(), nil),
				WithConcurrency(concurrency),
			)

			record, err := o.Parse(context.Background(), raw)
			require.NoError(t, err)

			personal, ok := record.Section(domain.SchemaPersonalDetails)
			require.True(t, ok)
			require.True(t, personal.OK(), "personal details: %v", personal.Err)
			assert.Contains(t, personal.Value.(*domain.PersonalDetails).FullName, "John Doe")

			work, ok := record.Section(domain.SchemaWorkExperience)
			require.True(t, ok)
			require.True(t, work.OK(), "work experience: %v", work.Err)
			items := work.Value.(*domain.ExperienceList).Items
			require.Len(t, items, 1)
			assert.Equal(t, "Acme Corp", items[0].Company)
		})
	}
}

func TestOrchestrator_Parse_EmbeddingOutageDegrades(t *testing.T) {
	llm := cannedLLM()
	embedder := &mockEmbeddingService{batchErr: errors.New("ollama unreachable")}
	o := newTestOrchestrator(llm, embedder)

	record, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	// Extraction still runs against the placeholder chunk.
	assert.Empty(t, record.Failures())
	for _, msgs := range llm.messages {
		if schemaFor(msgs) == domain.SchemaPersonalDetails {
			assert.Equal(t, domain.PlaceholderChunkText, msgs[1].Content)
		}
	}
}

func TestOrchestrator_Parse_BlankInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := cannedLLM()
			var states []domain.PipelineState
			o := newTestOrchestrator(llm, &mockEmbeddingService{},
				WithStateObserver(func(s domain.PipelineState, _ string) { states = append(states, s) }))

			record, err := o.Parse(context.Background(), tt.input)
			require.NoError(t, err)
			assert.True(t, record.IsEmpty())
			assert.Equal(t, 0, llm.callCount())
			assert.Empty(t, states)

			out, err := record.ToMap()
			require.NoError(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestOrchestrator_Parse_StateSequence(t *testing.T) {
	var (
		states  []domain.PipelineState
		details []string
	)
	o := newTestOrchestrator(cannedLLM(), &mockEmbeddingService{},
		WithStateObserver(func(s domain.PipelineState, detail string) {
			states = append(states, s)
			details = append(details, detail)
		}))

	_, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	n := len(domain.Schemas())
	want := []domain.PipelineState{domain.StateNormalizing, domain.StateChunking, domain.StateIndexing}
	for range n {
		want = append(want, domain.StateExtractingSections)
	}
	want = append(want, domain.StateClassifying, domain.StateDone)
	assert.Equal(t, want, states)

	assert.Equal(t, "1/9 Personal_Details", details[3])
	assert.Equal(t, "9/9 Achievements_Details", details[3+n-1])
}

func TestOrchestrator_Parse_Concurrent(t *testing.T) {
	llm := cannedLLM(domain.SchemaProjectsDetails)
	o := newTestOrchestrator(llm, &mockEmbeddingService{}, WithConcurrency(4))

	record, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	require.Len(t, record.Sections, len(domain.Schemas()))
	assert.Equal(t, []domain.SchemaName{domain.SchemaProjectsDetails}, record.Failures())
	assert.True(t, record.Classification.OK())
}

func TestOrchestrator_Parse_IndependentDocuments(t *testing.T) {
	o := newTestOrchestrator(cannedLLM(), &mockEmbeddingService{})

	first, err := o.Parse(context.Background(), sampleResume)
	require.NoError(t, err)
	second, err := o.Parse(context.Background(), "Skills\nRust, Zig")
	require.NoError(t, err)

	assert.NotEqual(t, first.Metadata.ChunksProcessed, second.Metadata.ChunksProcessed)
	assert.Len(t, second.Sections, len(domain.Schemas()))
}

// failingChunker returns an error from Split.
type failingChunker struct{ err error }

func (f failingChunker) Chunks(string, string) iter.Seq[domain.Chunk] {
	return func(func(domain.Chunk) bool) {}
}

func (f failingChunker) Split(context.Context, string, string) ([]domain.Chunk, error) {
	return nil, f.err
}

func TestOrchestrator_Parse_ChunkerError(t *testing.T) {
	var last domain.PipelineState
	o := NewOrchestrator(
		cleaner.New(),
		failingChunker{err: context.Canceled},
		NewIndexBuilder(&mockEmbeddingService{}, vectormem.Factory()),
		NewExtractor(cannedLLM(), nil),
		WithStateObserver(func(s domain.PipelineState, _ string) { last = s }),
	)

	_, err := o.Parse(context.Background(), sampleResume)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.StateFailed, last)
}

func TestOrchestrator_Parse_IndexError(t *testing.T) {
	o := NewOrchestrator(
		cleaner.New(),
		chunker.New(),
		NewIndexBuilder(&mockEmbeddingService{}, func() driven.VectorIndex {
			return &mockVectorIndex{addErr: errors.New("disk full")}
		}),
		NewExtractor(cannedLLM(), nil),
	)

	_, err := o.Parse(context.Background(), sampleResume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index")
}

func TestOrchestrator_Parse_MissingStage(t *testing.T) {
	o := NewOrchestrator(cleaner.New(), nil, nil, nil)

	_, err := o.Parse(context.Background(), sampleResume)
	require.Error(t, err)
}
