package service

import (
	"context"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/whoniverse/archive/internal/config"
	"github.com/whoniverse/archive/internal/database"
	apierrors "github.com/whoniverse/archive/internal/errors"
)

type fakeClient struct {
	lastRequest openai.ChatCompletionRequest
	response    openai.ChatCompletionResponse
	err         error
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastRequest = req
	return f.response, f.err
}

func setupLLMDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		APIKey:      "test-key",
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   500,
	}
}

func TestQueryWithoutCredentialIsRefused(t *testing.T) {
	svc := NewService(setupLLMDB(t), config.LLMConfig{})
	assert.False(t, svc.Configured())

	_, err := svc.Query(context.Background(), "who fought the Daleks?")
	var ae *apierrors.ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apierrors.CodeNotConfigured, ae.Code)
	assert.Equal(t, http.StatusServiceUnavailable, ae.HTTPStatus)
}

func TestQueryForwardsSchemaPromptAndQuestion(t *testing.T) {
	db := setupLLMDB(t)
	actor := &database.Actor{Name: "Matt Smith"}
	require.NoError(t, db.Create(actor).Error)
	require.NoError(t, db.Create(&database.Doctor{IncarnationNumber: 11, ActorID: actor.ID}).Error)

	client := &fakeClient{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "The Eleventh Doctor."}},
			},
		},
	}
	svc := NewServiceWithClient(db, testLLMConfig(), client)

	result, err := svc.Query(context.Background(), "who has incarnation number 11?")
	require.NoError(t, err)
	assert.Equal(t, "who has incarnation number 11?", result.Query)
	assert.Equal(t, "The Eleventh Doctor.", result.Response)
	assert.Equal(t, "gpt-3.5-turbo", result.Model)

	req := client.lastRequest
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
	assert.Equal(t, float32(0.7), req.Temperature)
	assert.Equal(t, 500, req.MaxTokens)
	require.Len(t, req.Messages, 2)

	system := req.Messages[0]
	assert.Equal(t, openai.ChatMessageRoleSystem, system.Role)
	assert.Contains(t, system.Content, "doctor_companions")
	assert.Contains(t, system.Content, "tardises")
	// Sample rows from the live tables ride along in the prompt
	assert.Contains(t, system.Content, `"incarnation_number":11`)

	user := req.Messages[1]
	assert.Equal(t, openai.ChatMessageRoleUser, user.Role)
	assert.Equal(t, "who has incarnation number 11?", user.Content)
}

func TestQueryTranslatesUpstreamFailures(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "quota exhausted",
			err:        &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "rate limited"},
			wantCode:   apierrors.CodeUpstreamQuota,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "rejected credential",
			err:        &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"},
			wantCode:   apierrors.CodeUpstreamAuth,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "other API failure",
			err:        &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"},
			wantCode:   apierrors.CodeUpstream,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "transport failure",
			err:        context.DeadlineExceeded,
			wantCode:   apierrors.CodeUpstream,
			wantStatus: http.StatusBadGateway,
		},
	}

	db := setupLLMDB(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewServiceWithClient(db, testLLMConfig(), &fakeClient{err: tc.err})

			_, err := svc.Query(context.Background(), "anything")
			var ae *apierrors.ArchiveError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tc.wantCode, ae.Code)
			assert.Equal(t, tc.wantStatus, ae.HTTPStatus)
		})
	}
}

func TestQueryRejectsEmptyChoiceList(t *testing.T) {
	svc := NewServiceWithClient(setupLLMDB(t), testLLMConfig(), &fakeClient{})

	_, err := svc.Query(context.Background(), "anything")
	var ae *apierrors.ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apierrors.CodeUpstream, ae.Code)
}

func TestBuildPromptListsEveryTable(t *testing.T) {
	prompt, err := buildPrompt(context.Background(), setupLLMDB(t))
	require.NoError(t, err)

	for _, table := range tableNames {
		assert.Contains(t, prompt, table)
	}
	for _, rel := range relationships {
		assert.Contains(t, prompt, rel)
	}
}
