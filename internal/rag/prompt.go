package rag

import "github.com/maxoun/tg-bot-msc/internal/domain"

// DefaultRefusal is the fixed sentence the assistant answers with when a
// question is out of scope. Overridable through configuration.
const DefaultRefusal = "Я могу помочь только по вопросам поступления на магистратуру ИТМО."

// PersonaPrompt returns the scope-limited system prompt, instructing the
// assistant to answer only about the two master's programs and to reply
// with refusal to anything else. An empty refusal selects DefaultRefusal.
func PersonaPrompt(refusal string) string {
	if refusal == "" {
		refusal = DefaultRefusal
	}
	return "Вы — экспертный помощник, помогающий абитуриентам " +
		"выбрать между магистерскими программами ИТМО «AI-product» и «Искусственный интеллект». " +
		"Отвечайте ТОЛЬКО на вопросы по этим программам, учебным планам, элективам и " +
		"процессу поступления. Если вопрос не по теме, отвечайте: «" + refusal + "»"
}

// BuildPrompt assembles the message sequence for the completion call.
// The order is significant and fixed: the persona system message first,
// then one system message per retrieved chunk in rank order, then the
// user question. The completion model is order-sensitive, so retrieved
// context always sits between the instructions and the query.
func BuildPrompt(systemPrompt string, retrieved []domain.RetrievalResult, question string) []domain.Message {
	messages := make([]domain.Message, 0, len(retrieved)+2)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: systemPrompt})
	for _, r := range retrieved {
		messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: r.Chunk.Content})
	}
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: question})
	return messages
}
