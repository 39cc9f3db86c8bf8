// Package transcript reads assistant messages out of host transcript files.
// Transcripts are JSONL: one JSON object per line, with assistant entries
// carrying text either directly or inside nested content blocks.
package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// Message is one decoded transcript entry
type Message map[string]any

// maxLineBytes bounds a single transcript line. Assistant turns with large
// embedded content can exceed bufio's default token size.
const maxLineBytes = 8 << 20

// Read decodes every well-formed line of a transcript file. A missing file
// yields no messages and no error; malformed lines are skipped.
func Read(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var messages []Message

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}

	return messages, scanner.Err()
}

// LastAssistantMessages returns the last count assistant-authored messages,
// most recent last.
func LastAssistantMessages(path string, count int) ([]Message, error) {
	messages, err := Read(path)
	if err != nil {
		return nil, err
	}

	var assistant []Message
	for _, msg := range messages {
		if kind, _ := msg["type"].(string); kind == "assistant" {
			assistant = append(assistant, msg)
		}
	}

	if count > 0 && len(assistant) > count {
		assistant = assistant[len(assistant)-count:]
	}
	return assistant, nil
}

// RecentAssistantText combines the text of the last count assistant
// messages, separated by blank lines.
func RecentAssistantText(path string, count int) (string, error) {
	messages, err := LastAssistantMessages(path, count)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(messages))
	for _, msg := range messages {
		if text := ExtractText(msg); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}

// ExtractText pulls plain text out of an assistant message. It handles the
// shapes transcripts are known to use: a plain string, a content list of
// strings or text blocks, and the same nested under a "message" field.
func ExtractText(msg Message) string {
	var parts []string

	if inner, ok := msg["message"]; ok {
		switch v := inner.(type) {
		case string:
			parts = append(parts, v)
		case map[string]any:
			parts = append(parts, contentText(v["content"])...)
		}
	}

	if content, ok := msg["content"]; ok {
		parts = append(parts, contentText(content)...)
	}

	return strings.Join(parts, "\n")
}

// contentText flattens a content field: either a bare string or a list of
// strings and {"type":"text","text":...} blocks.
func contentText(content any) []string {
	var parts []string

	switch v := content.(type) {
	case string:
		parts = append(parts, v)
	case []any:
		for _, block := range v {
			switch b := block.(type) {
			case string:
				parts = append(parts, b)
			case map[string]any:
				if kind, _ := b["type"].(string); kind == "text" {
					if text, _ := b["text"].(string); text != "" {
						parts = append(parts, text)
					}
				}
			}
		}
	}

	return parts
}
