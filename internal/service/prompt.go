package service

import (
	"fmt"

	"file-insight/internal/model"
)

const (
	NoFileContent = "No file selected. This is a general query."
	NoFileName    = "general query"
)

const systemPrompt = `You are an AI data analyst assistant. Analyze the provided file content and answer user questions about the data.
When appropriate, structure your response to include chart data in JSON format.
For chart data, return it in this format:
{
  "type": "bar" | "line" | "pie",
  "labels": [...],
  "datasets": [{
    "label": "...",
    "data": [...]
  }]
}

Always provide clear, concise answers and suggest relevant visualizations when the data allows for it.`

const userPromptTemplate = `File: %s

Content:
%s

User Question: %s

Please analyze this data and answer the question. If the data can be visualized, provide chart data in the specified JSON format.`

// ComposeMessages builds the system and user messages for one analysis.
// Content is embedded as-is.
func ComposeMessages(req model.AnalysisRequest) []model.ChatMessage {
	name := req.FileName
	if name == "" {
		name = NoFileName
	}
	content := req.FileContent
	if content == "" {
		content = NoFileContent
	}
	return []model.ChatMessage{
		{Role: model.RoleSystem, Content: systemPrompt},
		{Role: model.RoleUser, Content: fmt.Sprintf(userPromptTemplate, name, content, req.Query)},
	}
}
