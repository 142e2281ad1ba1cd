package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xaenox/health-coach/internal/models"
)

// Responder produces the coach's reply for one exchange. It never fails:
// implementations degrade to canned advice rather than surfacing errors.
type Responder interface {
	Respond(ctx context.Context, message, category string, history []*models.ChatRecord) (reply, replyCategory string)
}

// RuleBasedResponder picks a canned reply from keyword matches. It backs the
// server when no model credentials are configured and serves as the fallback
// when the model call fails.
type RuleBasedResponder struct{}

func NewRuleBasedResponder() *RuleBasedResponder {
	return &RuleBasedResponder{}
}

type cannedReply struct {
	category string
	keywords []string
	reply    string
}

var cannedReplies = []cannedReply{
	{
		category: string(models.CategoryNutrition),
		keywords: []string{"meal", "eat", "food", "nutrition", "diet", "calorie"},
		reply: "Here's a simple plan for today:\n\n" +
			"✅ **Breakfast** - Oats with berries and a protein source\n" +
			"✅ **Lunch** - Lean protein, whole grains, and plenty of vegetables\n" +
			"✅ **Dinner** - Keep it light, eat at least 2 hours before bed\n\n" +
			"Stay hydrated and aim for *consistent* portions rather than perfection.",
	},
	{
		category: string(models.CategoryFitness),
		keywords: []string{"workout", "exercise", "train", "gym", "run", "strength"},
		reply: "Try this **30-minute session**:\n\n" +
			"- 5 min warm-up\n" +
			"- 20 min circuit: squats, push-ups, rows, planks\n" +
			"- 5 min cool-down and stretching\n\n" +
			"Keep the pace where you can still talk, and *rest* when your form slips.",
	},
	{
		category: string(models.CategoryWellness),
		keywords: []string{"sleep", "rest", "stress", "relax", "recovery", "tired"},
		reply: "Better rest starts before bedtime:\n\n" +
			"- Keep a **consistent** sleep schedule, even on weekends\n" +
			"- Dim screens an hour before bed\n" +
			"- Keep the room cool and dark\n\n" +
			"Aim for *7-9 hours* and track how you feel in the morning.",
	},
	{
		category: string(models.CategoryGoals),
		keywords: []string{"goal", "target", "weight", "lose", "gain", "plan"},
		reply: "Let's make that goal concrete:\n\n" +
			"- Pick **one** measurable outcome\n" +
			"- Break it into weekly steps\n" +
			"- Review progress every Sunday\n\n" +
			"Small, *repeatable* wins beat big pushes.",
	},
	{
		category: string(models.CategorySchedule),
		keywords: []string{"schedule", "week", "calendar", "time", "routine"},
		reply: "A workable week usually looks like:\n\n" +
			"- 3 training days with a rest day between them\n" +
			"- Meals prepped on one fixed day\n" +
			"- A short daily walk at a **fixed** time\n\n" +
			"Put it in your calendar like any other appointment.",
	},
	{
		category: string(models.CategoryAnalytics),
		keywords: []string{"progress", "track", "data", "stats", "analytics", "trend"},
		reply: "Progress shows up in trends, not single days:\n\n" +
			"- Log the same metrics at the same time each day\n" +
			"- Compare **weekly averages**, not daily swings\n" +
			"- Celebrate streaks, investigate dips\n\n" +
			"Keep logging and the picture gets clearer.",
	},
}

const defaultReply = "I'm here to support your health journey! Tell me more about what " +
	"you'd like to work on - **nutrition**, **fitness**, **sleep**, or **goals** - " +
	"and we'll build a plan together."

func (r *RuleBasedResponder) Respond(_ context.Context, message, category string, _ []*models.ChatRecord) (string, string) {
	lowered := strings.ToLower(message)

	// An explicit category selection wins over keyword inference.
	if category != "" {
		for _, c := range cannedReplies {
			if c.category == category {
				return c.reply, c.category
			}
		}
	}

	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(lowered, kw) {
				return c.reply, c.category
			}
		}
	}

	return defaultReply, ""
}

// ModelResponder asks an OpenAI-compatible chat completion endpoint for the
// reply, falling back to canned advice when the call fails.
type ModelResponder struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	fallback    *RuleBasedResponder
	logger      *zap.Logger
}

func NewModelResponder(apiKey, baseURL, model string, maxTokens int, temperature float64, logger *zap.Logger) *ModelResponder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &ModelResponder{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		fallback:    NewRuleBasedResponder(),
		logger:      logger,
	}
}

const systemPrompt = "You are a supportive health coach. Give practical, safe advice on " +
	"nutrition, fitness, sleep, scheduling, goals, and progress tracking. Keep replies " +
	"short, use **bold** for key points and '-' bullets for lists. You are not a doctor; " +
	"suggest professional help for medical concerns."

func (m *ModelResponder) Respond(ctx context.Context, message, category string, history []*models.ChatRecord) (string, string) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, record := range history {
		role := openai.ChatMessageRoleUser
		if record.Origin == models.OriginAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: record.Text})
	}

	prompt := message
	if category != "" {
		prompt = fmt.Sprintf("[topic: %s] %s", category, message)
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    messages,
		MaxTokens:   m.maxTokens,
		Temperature: float32(m.temperature),
	})
	if err != nil {
		m.logger.Error("model request failed, using canned reply", zap.Error(err))
		return m.fallback.Respond(ctx, message, category, history)
	}
	if len(resp.Choices) == 0 {
		m.logger.Error("model returned no choices, using canned reply")
		return m.fallback.Respond(ctx, message, category, history)
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return m.fallback.Respond(ctx, message, category, history)
	}
	return reply, category
}
