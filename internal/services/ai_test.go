package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
)

type fakeCompleter struct {
	content string
	err     error
	prompt  string
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if len(req.Messages) > 0 {
		f.prompt = req.Messages[0].Content
	}
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}},
	}, nil
}

func newFakeAI(f *fakeCompleter) *AIService {
	return &AIService{
		client: f,
		now:    func() time.Time { return time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) },
	}
}

func TestAIService_ExtractTasks(t *testing.T) {
	fake := &fakeCompleter{content: "```json\n[{\"area\":\"Kitchen\",\"trade\":\"Electrical\",\"taskTitle\":\"Replace dead outlet\",\"priority\":\"High\",\"dueDate\":\"2025-03-07\",\"photoNeeded\":true}]\n```"}

	drafts, err := newFakeAI(fake).ExtractTasks(context.Background(), "Outlet by the sink is dead, fix by Friday")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Replace dead outlet", drafts[0].TaskTitle)
	assert.True(t, drafts[0].PhotoNeeded)
	assert.Contains(t, fake.prompt, "Today: 2025-03-03")
	assert.Contains(t, fake.prompt, "Outlet by the sink is dead")
}

func TestAIService_ExtractTasks_Errors(t *testing.T) {
	_, err := newFakeAI(&fakeCompleter{err: errors.New("rate limited")}).ExtractTasks(context.Background(), "notes")
	assert.ErrorContains(t, err, "OpenAI API error")

	_, err = newFakeAI(&fakeCompleter{content: "not json"}).ExtractTasks(context.Background(), "notes")
	assert.ErrorContains(t, err, "failed to parse AI response")
}

func TestTaskService_GenerateTasks(t *testing.T) {
	fake := &fakeCompleter{content: `[
		{"area":"Bath","trade":"Plumbing","taskTitle":"Fix leak","priority":"urgent","dueDate":"next week"},
		{"taskTitle":"   "}
	]`}
	service := NewTaskService(newTestStore().taskRepo, newFakeAI(fake))

	tasks, err := service.GenerateTasks(context.Background(), GenerateTasksInput{Notes: "leak under vanity", Project: "Maple Street"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Maple Street", tasks[0].Project)
	assert.Equal(t, models.PriorityUrgent, tasks[0].Priority)
	assert.Equal(t, models.TaskStatusOpen, tasks[0].Status)
	assert.Empty(t, tasks[0].DueDate)
	assert.Empty(t, tasks[0].TaskID)

	fake.content = "[]"
	_, err = service.GenerateTasks(context.Background(), GenerateTasksInput{Notes: "all good"})
	assert.ErrorIs(t, err, ErrAINoTasksGenerated)

	fake.content = `[{"taskTitle":""}]`
	_, err = service.GenerateTasks(context.Background(), GenerateTasksInput{Notes: "?"})
	assert.ErrorIs(t, err, ErrAINoValidTasks)
}
