package models

import "strings"

// AssistantAction enumerates the mutations the assistant may propose.
type AssistantAction string

const (
	ActionAddToCart       AssistantAction = "ADD_TO_CART"
	ActionRegisterProduct AssistantAction = "REGISTER_PRODUCT"
	ActionRegisterFee     AssistantAction = "REGISTER_FEE"
	ActionShowReport      AssistantAction = "SHOW_REPORT"
	ActionChatOnly        AssistantAction = "CHAT_ONLY"
)

// ParseAssistantAction normalizes the action string returned by the model.
// Anything unrecognized degrades to ActionChatOnly.
func ParseAssistantAction(raw string) AssistantAction {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")

	switch AssistantAction(normalized) {
	case ActionAddToCart, ActionRegisterProduct, ActionRegisterFee, ActionShowReport:
		return AssistantAction(normalized)
	default:
		return ActionChatOnly
	}
}

// AssistantReply is the structured answer of the assistant collaborator.
type AssistantReply struct {
	Action  AssistantAction `json:"action"`
	Message string          `json:"message"`
	Data    map[string]any  `json:"data,omitempty"`
}

// AssistantFallbackMessage is returned to the operator when the assistant fails.
const AssistantFallbackMessage = "Desculpe, tive um problema ao processar isso."

// ChatOnlyFallback is the neutral reply used whenever the assistant call fails.
func ChatOnlyFallback() AssistantReply {
	return AssistantReply{Action: ActionChatOnly, Message: AssistantFallbackMessage}
}
