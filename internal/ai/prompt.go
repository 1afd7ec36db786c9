package ai

import (
	"fmt"
	"strings"
)

// BuildInsightsPrompt creates a prompt for transcript analysis
func BuildInsightsPrompt(transcript string) string {
	return fmt.Sprintf(`You are an expert AI assistant analyzing conversation transcripts for a collaborative meeting intelligence platform.

Analyze the following transcript and provide a comprehensive analysis in JSON format with the following structure:
{
  "summary": "A concise 2-3 sentence summary of the main content",
  "keyPoints": ["point 1", "point 2", "point 3"],
  "topics": ["topic 1", "topic 2"],
  "sentiment": "positive/neutral/negative",
  "actionItems": ["action 1", "action 2"],
  "decisions": ["decision 1", "decision 2"],
  "questions": ["question 1", "question 2"]
}

Transcript:
%s

Return ONLY valid JSON, no markdown formatting.`, transcript)
}

// BuildMindMapPrompt creates a prompt for hierarchical mind map generation
func BuildMindMapPrompt(transcript string) string {
	return fmt.Sprintf(`Generate a hierarchical mind map structure from the following text.

Return a JSON object with this exact structure:
{
  "nodes": [
    {"id": "1", "label": "Main Topic", "level": 0, "children": ["2"], "description": "Brief description"},
    {"id": "2", "label": "Sub-topic 1", "level": 1, "children": [], "description": "Brief description"}
  ],
  "connections": [
    {"from": "1", "to": "2"}
  ]
}

Create a logical hierarchy with:
- 1 root node (level 0)
- 3-7 main branches (level 1)
- 2-4 sub-branches per main branch (level 2)
- Each node should have a clear, concise label

Text to analyze:
%s

Return ONLY valid JSON, no markdown formatting.`, transcript)
}

// BuildMermaidMindmapPrompt creates a prompt for Mermaid mindmap generation
func BuildMermaidMindmapPrompt(transcript string) string {
	return fmt.Sprintf(`Create a Mermaid mindmap diagram from this meeting transcript:

Transcript:
%s

Create a hierarchical mindmap with:
- Central topic (main theme of the conversation)
- 3-5 main branches (key themes or topics)
- 2-4 sub-branches per main branch (important details)

Return ONLY the Mermaid code starting with "mindmap" and nothing else. No markdown formatting, no explanations, just the Mermaid code.

Example format:
mindmap
  root((Central Topic))
    Main Branch 1
      Sub-branch 1.1
      Sub-branch 1.2
    Main Branch 2
      Sub-branch 2.1`, transcript)
}

// BuildMeetingNotesPrompt creates a prompt for structured meeting notes
func BuildMeetingNotesPrompt(transcript string) string {
	return fmt.Sprintf(`Create comprehensive meeting notes from this transcript. Format as a well-structured document with:

1. Meeting Title/Summary
2. Date and Participants (if mentioned)
3. Agenda Items
4. Discussion Points (organized by topic)
5. Key Decisions
6. Action Items (with owners if mentioned)
7. Next Steps
8. Open Questions

Transcript:
%s

Return formatted meeting notes that are clear, organized, and professional. Use bullet points and sections for readability.`, transcript)
}

// BuildBrainstormPrompt creates a prompt for brainstorming visualizations
func BuildBrainstormPrompt(transcript string) string {
	return fmt.Sprintf(`Based on this conversation transcript, create brainstorming visualizations:

Transcript:
%s

Generate:
1. A Mermaid flowchart showing the flow of ideas, processes, or concepts discussed
2. A list of key ideas and concepts that emerged
3. A Mermaid mindmap for visual brainstorming

Return a JSON object with this structure:
{
  "flowchart": "Mermaid flowchart code starting with 'flowchart'",
  "ideas": "List of key ideas and concepts (formatted text)",
  "mindmap": "Mermaid mindmap code starting with 'mindmap'"
}

Return ONLY valid JSON, no markdown formatting.`, transcript)
}

// BuildTranscribePrompt creates a prompt for audio transcription
func BuildTranscribePrompt() string {
	return `Transcribe the following audio recording. Provide a verbatim transcript with speaker identification if multiple speakers are detected. Format as:

Speaker 1: [transcript]
Speaker 2: [transcript]

If only one speaker, just provide the transcript without speaker labels.`
}

// ExtractJSON extracts a JSON document from a model response, stripping
// markdown code fences the models sometimes wrap their output in
func ExtractJSON(content string) string {
	if body := extractFromCodeBlock(content, "```json", "```"); body != "" {
		return body
	}
	if body := extractFromCodeBlock(content, "```", "```"); body != "" {
		return body
	}

	// Last resort: slice from the first '{' to the last '}'
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		return strings.TrimSpace(content[start : end+1])
	}

	return strings.TrimSpace(content)
}

// ExtractMermaid cleans a Mermaid response and guarantees it starts with
// the expected diagram keyword ("mindmap" or "flowchart")
func ExtractMermaid(content, keyword string) string {
	body := content
	if inner := extractFromCodeBlock(content, "```mermaid", "```"); inner != "" {
		body = inner
	} else if inner := extractFromCodeBlock(content, "```", "```"); inner != "" {
		body = inner
	}
	body = strings.TrimSpace(body)

	if !strings.HasPrefix(strings.ToLower(body), keyword) {
		body = keyword + "\n" + body
	}
	return body
}

func extractFromCodeBlock(content, startMarker, endMarker string) string {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return ""
	}

	contentStart := startIdx + len(startMarker)
	if contentStart < len(content) && content[contentStart] == '\n' {
		contentStart++
	}

	endIdx := strings.Index(content[contentStart:], endMarker)
	if endIdx == -1 {
		return ""
	}

	return strings.TrimSpace(content[contentStart : contentStart+endIdx])
}
