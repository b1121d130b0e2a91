package usecase

import (
	"fmt"
	"strings"
)

func buildTitlePrompt(firstUserPrompt string) string {
	return fmt.Sprintf("Generate one single, very short, concise title (4 words maximum) for a legal conversation that starts with: %q. Do not provide options. Respond with the title only.", firstUserPrompt)
}

func buildChatPrompt(question, conversationContext string) string {
	return fmt.Sprintf(`You are an expert Indian Legal AI Assistant named NyAI. Your knowledge is up-to-date as of your last training.
Answer the user's question based on your general understanding of Indian law.
Provide clear, concise, and accurate answers. Always include a disclaimer that you are an AI and not a legal professional.

Previous Conversation History for context:
%s

Current User's Question: %s

AI Answer:
`, conversationContext, question)
}

func buildUploadAnalysisPrompt(textContent string) string {
	return fmt.Sprintf(`You are a legal document analyst. Analyze the following document and provide a JSON response with these keys:
- "document_type": Type of document (contract, legal brief, agreement, etc.)
- "summary": Brief summary of the document (max 200 words)
- "key_topics": Array of main topics/subjects covered
- "entities": Array of important entities mentioned (people, companies, dates)
- "language_complexity": "simple", "moderate", or "complex"

Document content:
---
%s
---
`, truncateRunes(textContent, analysisExcerptLen))
}

func buildQuestionPrompt(filename, question, textContent string) string {
	return fmt.Sprintf(`You are an expert legal document analyst. Answer the user's question based on the provided document content.
Provide a JSON response with these keys:
- "answer": Your detailed answer to the question
- "confidence": "high", "medium", or "low" based on how certain you are
- "relevant_sections": Array of relevant text snippets from the document (max 3)
- "follow_up_questions": Array of 2-3 suggested follow-up questions

If the question cannot be answered from the document content, explain what information is missing.

Document: %s
Question: %s

Document Content:
---
%s
---
`, filename, question, textContent)
}

func buildAnalyzePrompt(analysisType, textContent string) (string, bool) {
	switch analysisType {
	case "summary":
		return fmt.Sprintf(`Provide a comprehensive summary of this document in JSON format:
- "executive_summary": Main points in 2-3 sentences
- "detailed_summary": Comprehensive summary (300-500 words)
- "key_sections": Array of important sections with titles and brief descriptions

Document: %s
`, textContent), true
	case "key_points":
		return fmt.Sprintf(`Extract and organize key points from this document in JSON format:
- "main_points": Array of the most important points (max 10)
- "supporting_details": Object with main points as keys and supporting details as values
- "action_items": Array of any action items or next steps mentioned

Document: %s
`, textContent), true
	case "legal_issues":
		return fmt.Sprintf(`Identify legal issues and concerns in this document in JSON format:
- "legal_issues": Array of potential legal issues or concerns
- "risk_assessment": Overall risk level ("low", "medium", "high") with explanation
- "recommendations": Array of recommended actions or considerations
- "clauses_of_concern": Array of specific clauses that need attention

Document: %s
`, textContent), true
	default:
		return "", false
	}
}

func buildSimplifyPrompt(text, webContext string) string {
	if webContext == "" {
		webContext = "No context found."
	}
	return fmt.Sprintf(`You are an expert at simplifying complex Indian legal clauses for a general audience.
Your task is to take the following legal clause from India and return a JSON object with two keys: "simplified_explanation" and "real_life_example".

To help you, here is some context I found on the web which might be related:
--- WEB CONTEXT ---
%s
--- END OF CONTEXT ---

Now, based on the original text (and the context if it was helpful), provide your analysis.
1.  For "simplified_explanation": The statement should be simplified.
2.  For "real_life_example": A simple and easy to understand example should be given.

Original Indian Legal Clause to simplify:
---
%s
---
`, webContext, text)
}

func buildTranslatePrompt(targetLanguage, resultJSON string) string {
	return fmt.Sprintf(`You are an expert translator. Your task is to translate all the string values in the following JSON object into %s.
- Do NOT translate the JSON keys.
- Keep the exact same JSON structure.

JSON to translate:
%s
`, targetLanguage, resultJSON)
}

// truncateRunes shortens s to at most n runes without splitting a rune.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// firstLine returns the first line of s after trimming surrounding
// whitespace.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
