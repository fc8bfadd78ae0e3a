package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// chatCompleter is the part of the OpenAI client the extractor needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client chatCompleter
	now    func() time.Time
}

// DraftTask is a task suggested by the model from walkthrough notes.
type DraftTask struct {
	Area        string `json:"area"`
	Trade       string `json:"trade"`
	TaskTitle   string `json:"taskTitle"`
	TaskDetails string `json:"taskDetails"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	PhotoNeeded bool   `json:"photoNeeded"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		now:    time.Now,
	}
}

// ExtractTasks turns free-text site walkthrough notes into draft tasks using OpenAI GPT
func (s *AIService) ExtractTasks(ctx context.Context, notes string) ([]DraftTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	today := s.now().Format(time.DateOnly)
	prompt := fmt.Sprintf(`You turn construction site walkthrough notes into punch-list tasks.

Today: %s

Notes:
%s

Return a JSON array of tasks in this shape:
[
  {
    "area": "room or location, e.g. Kitchen",
    "trade": "responsible trade, e.g. Drywall, Electrical, Plumbing",
    "taskTitle": "short imperative title",
    "taskDetails": "what exactly needs to be done",
    "priority": "Low | Medium | High | Urgent",
    "dueDate": "YYYY-MM-DD, or empty string when no deadline is stated",
    "photoNeeded": true or false
  }
]

Rules:
- Return [] when the notes contain no work items
- Convert relative deadlines ("Friday", "next week") to dates
- Return JSON only, no commentary`, today, notes)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.2,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var drafts []DraftTask
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return drafts, nil
}

// stripCodeFence removes a markdown ```json fence around the payload.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
