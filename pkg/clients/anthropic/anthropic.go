package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
)

const (
	defaultAPIURL  = "https://api.anthropic.com/v1/messages"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-sonnet-4-20250514"
	maxTokens      = 1024
	requestTimeout = 20 * time.Second
)

// Client turns a free-text instruction into a structured assistant reply.
type Client interface {
	Process(ctx context.Context, req Request) (models.AssistantReply, error)
}

// Request carries the shop snapshot and the conversation so far.
type Request struct {
	State      models.AppState
	SalesToday int
	Prompt     string
	History    []Message
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicClient struct {
	httpClient *resty.Client
	url        string
	model      string
}

// Option customizes the client.
type Option func(*anthropicClient)

// WithURL overrides the messages endpoint.
func WithURL(url string) Option {
	return func(c *anthropicClient) {
		if url != "" {
			c.url = url
		}
	}
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *anthropicClient) {
		if model != "" {
			c.model = model
		}
	}
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string, opts ...Option) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(requestTimeout)

	c := &anthropicClient{httpClient: client, url: defaultAPIURL, model: defaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

type replyPayload struct {
	Action  string         `json:"action"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// Process asks the model for the next action. On any failure it returns the
// chat-only fallback together with the cause.
func (c *anthropicClient) Process(ctx context.Context, req Request) (models.AssistantReply, error) {
	system, err := systemPrompt(req)
	if err != nil {
		return models.ChatOnlyFallback(), err
	}

	messages := make([]Message, 0, len(req.History)+2)
	messages = append(messages, req.History...)
	messages = append(messages, Message{Role: "user", Content: req.Prompt})
	// Prefill the assistant turn so the model answers with a JSON object.
	messages = append(messages, Message{Role: "assistant", Content: "{"})

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(messageRequest{
			Model:     c.model,
			MaxTokens: maxTokens,
			System:    system,
			Messages:  messages,
		}).
		SetResult(&respBody).
		Post(c.url)
	if err != nil {
		return models.ChatOnlyFallback(), fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return models.ChatOnlyFallback(), fmt.Errorf("anthropic api error: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	if len(respBody.Content) == 0 {
		return models.ChatOnlyFallback(), errors.New("empty response from ai")
	}

	return parseReply("{" + respBody.Content[0].Text)
}

func parseReply(text string) (models.AssistantReply, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}

	var payload replyPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return models.ChatOnlyFallback(), fmt.Errorf("failed to unmarshal ai response: %w", err)
	}
	if strings.TrimSpace(payload.Message) == "" {
		return models.ChatOnlyFallback(), errors.New("ai response has no message")
	}

	return models.AssistantReply{
		Action:  models.ParseAssistantAction(payload.Action),
		Message: payload.Message,
		Data:    payload.Data,
	}, nil
}

func systemPrompt(req Request) (string, error) {
	products, err := json.Marshal(req.State.Products)
	if err != nil {
		return "", fmt.Errorf("encode products: %w", err)
	}
	fees, err := json.Marshal(req.State.DeliveryFees)
	if err != nil {
		return "", fmt.Errorf("encode fees: %w", err)
	}

	return fmt.Sprintf(`Você é o "Açaí Manager AI". Sua função é interpretar pedidos em linguagem natural e sugerir ações de gestão para uma loja de açaí.

Estado atual da loja:
Produtos: %s
Taxas de entrega: %s
Vendas hoje: %d

Responda APENAS com um objeto JSON com esta estrutura:
{
  "action": "ADD_TO_CART" | "REGISTER_PRODUCT" | "REGISTER_FEE" | "SHOW_REPORT" | "CHAT_ONLY",
  "message": "resposta em português (Markdown permitido)",
  "data": { ... }
}

Formato de "data" por ação:
- ADD_TO_CART: {"productId": "<id existente>", "quantity": <inteiro, produtos por unidade>, "value": <reais, produtos por peso>}
- REGISTER_PRODUCT: {"name": "...", "price": <número>, "category": "ACAI_CREMES" | "SNACKS" | "DRINKS", "unitType": "UNIT" | "WEIGHT"}
- REGISTER_FEE: {"region": "...", "value": <número>}
- SHOW_REPORT: {"start": "AAAA-MM-DD", "end": "AAAA-MM-DD"} (ambos opcionais)
- CHAT_ONLY: sem "data".

Regras:
- Use somente ids de produtos que existem no estado atual.
- Escape quebras de linha dentro de "message" (use \n).
- Na dúvida, use CHAT_ONLY e peça esclarecimento.`, products, fees, req.SalesToday), nil
}
