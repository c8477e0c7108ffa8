package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"focusflow/internal/apperr"
)

const organizerTimeout = 20 * time.Second

const workPrompt = `You are an executive function assistant. Convert a messy "Work Dump" into a clear, actionable list of tasks.
Split combined items into separate tasks, preserve the main action verb, remove filler like "I need to" or "maybe", one concrete action per task, every task starts with a verb, no commentary.
You MUST return ONLY a raw JSON array of strings.`

const lifePrompt = `You are an expert task-splitter. Convert a messy "Life Dump" into a clear, actionable list of tasks.
One concrete action per task, every task starts with a verb, break vague goals into immediate next steps, fix grammar and typos, keep tasks short, no commentary.
You MUST return ONLY a raw JSON array of strings.`

const describePrompt = `You are a productivity coach. The user is promoting a task to a weekly goal. Generate a concise (2 sentence max), inspiring description answering "Why am I doing this?" and "What is the expected long-term win?".
Return ONLY the raw string description with no markdown and no prefixes.`

// OrganizerService is the text-generation collaborator. It runs before any
// storage mutation, so a timed-out or canceled call leaves nothing to undo.
type OrganizerService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOrganizerService(client *openai.Client, model string) *OrganizerService {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OrganizerService{client: client, model: model, timeout: organizerTimeout}
}

func (s *OrganizerService) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return "", apperr.ErrUpstreamTimeout
		case errors.Is(err, context.Canceled):
			return "", apperr.ErrUpstreamCanceled
		default:
			return "", fmt.Errorf("ai completion: %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// OrganizeDump turns free text into a task list. Category picks the prompt:
// "work" gets the work dump treatment, everything else the life one.
func (s *OrganizerService) OrganizeDump(ctx context.Context, text, category string) ([]string, error) {
	system := lifePrompt
	if category == "work" {
		system = workPrompt
	}
	content, err := s.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}
	return parseTaskList(content)
}

// DescribeGoal generates a short motivating description for a goal title.
func (s *OrganizerService) DescribeGoal(ctx context.Context, title string) (string, error) {
	content, err := s.complete(ctx, describePrompt, fmt.Sprintf("Generate description for goal: %s", title))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// parseTaskList tolerates models that wrap the JSON array in code fences.
func parseTaskList(content string) ([]string, error) {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var tasks []string
	if err := json.Unmarshal([]byte(clean), &tasks); err != nil {
		return nil, fmt.Errorf("ai returned data in an unexpected format: %w", err)
	}
	return tasks, nil
}
