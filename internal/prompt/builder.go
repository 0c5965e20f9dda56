package prompt

import (
	"fmt"
	"strings"

	"github.com/Chatresh7/edtech-bot/internal/kb"
	"github.com/Chatresh7/edtech-bot/internal/llm"
	"github.com/Chatresh7/edtech-bot/internal/retriever"
	"github.com/Chatresh7/edtech-bot/internal/session"
)

// SystemPrompt is the generator's standing instruction set. It is sent as
// the system message on every generation call.
const SystemPrompt = `You are EduBot, a helpful AI assistant for an EdTech online learning platform.

YOUR ROLE:
- Explain how the platform works: course structure, navigation, enrollment, progress tracking, assessment formats, and certification workflows.
- Help learners understand policies and procedures clearly and concisely.
- Be friendly, structured, and easy to understand.

STRICT RULES — YOU MUST ALWAYS FOLLOW THESE:
1. NEVER provide answers to quizzes, exams, assignments, or any assessment questions.
2. NEVER solve, complete, or fill in any question, MCQ, blank, or problem.
3. If a user asks you to answer a question or solve an exam problem, politely decline and redirect.
4. Use ALL the CONTEXT chunks provided below to construct a comprehensive answer.
5. If multiple context chunks are relevant, synthesize information from ALL of them.
6. If the context does not contain enough information, ask the user a clarifying question.
7. Keep responses structured using bullet points or numbered steps when explaining workflows.
8. Always be encouraging and supportive in tone.
9. If unsure whether the user is asking about quizzes or final exams, ask for clarification.

RESPONSE FORMAT:
- Lead with a direct, clear answer.
- Use bullet points or numbered steps for processes and workflows.
- Reference specific platform features by name when mentioned in context.
- End with a helpful follow-up offer.
- Keep responses thorough but concise (under 400 words unless a complex workflow requires more).

Remember: You explain HOW the platform works — you do NOT solve academic content.`

// DefaultParams are the generation parameters used for answer synthesis.
// Low temperature keeps answers consistent and factual.
var DefaultParams = llm.ChatParams{
	Temperature: 0.3,
	TopP:        0.85,
	MaxTokens:   600,
	Stop:        []string{"User:", "Human:"},
}

const sectionRule = "================================================================================"

// BuildContext assembles the exact ordered message sequence handed to the
// generator: the windowed prior turns in order, then one final user message
// containing the chunk header, every ranked chunk in rank order, the literal
// query, and the synthesis instruction block. The window must not contain
// the in-flight query; BuildContext re-inserts it in the final message.
func BuildContext(
	query string,
	chunks []retriever.RetrievedChunk,
	window []session.Turn,
	hint kb.Category,
	k int,
) []llm.Message {
	messages := make([]llm.Message, 0, len(window)+1)
	for _, turn := range window {
		messages = append(messages, llm.Message{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	messages = append(messages, llm.Message{
		Role:    "user",
		Content: augmentedQuery(query, chunks, hint, k),
	})
	return messages
}

// augmentedQuery renders the final user message.
func augmentedQuery(query string, chunks []retriever.RetrievedChunk, hint kb.Category, k int) string {
	var b strings.Builder

	header := fmt.Sprintf("KNOWLEDGE BASE CONTEXT (%d chunks retrieved, Top-K=%d, ranked by relevance)", len(chunks), k)
	if hint.Valid() {
		header += fmt.Sprintf(" [Intent: %s]", hint)
	}
	b.WriteString(header + ":\n")
	b.WriteString(sectionRule + "\n")

	if len(chunks) == 0 {
		b.WriteString("No specific context found in knowledge base.\n")
	} else {
		for i, chunk := range chunks {
			if i > 0 {
				b.WriteString("\n---\n\n")
			}
			b.WriteString(fmt.Sprintf("[CHUNK %d | Category: %s | Title: %s | Relevance: %.3f]\n",
				i+1, strings.ToUpper(string(chunk.Category)), chunk.Title, chunk.Score))
			b.WriteString(chunk.Content + "\n")
		}
	}
	b.WriteString(sectionRule + "\n\n")

	b.WriteString("USER QUESTION: " + query + "\n\n")

	if len(chunks) == 0 {
		b.WriteString("NOTE: No knowledge-base content was found for this question. " +
			"Answer only from general platform knowledge in the system prompt, and " +
			"say so when you cannot answer reliably.")
	} else {
		b.WriteString("INSTRUCTIONS:\n")
		b.WriteString(fmt.Sprintf("- Synthesize information from ALL %d chunks above to give a complete answer.\n", len(chunks)))
		b.WriteString("- If multiple chunks cover different aspects, combine them coherently.\n")
		b.WriteString("- Be specific and reference actual platform features mentioned in the context.\n")
		b.WriteString("- Do NOT invent facts beyond the supplied chunks.\n")
		b.WriteString("- Do NOT reveal assessment answers or solve exam questions under any circumstances.")
	}

	return b.String()
}
