// Package ai provides the room-recommendation client backed by the Gemini
// API. The collaborator is fully external: on any failure the client
// degrades to an empty recommendation instead of surfacing an error.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/unispace/unispace/internal/config"
	"github.com/unispace/unispace/internal/models"
	"github.com/unispace/unispace/internal/utils"
)

// FallbackReasoning is returned whenever the recommendation call fails
const FallbackReasoning = "Sorry, I couldn't process that request right now. Showing all rooms."

// generator is the slice of the Gemini model the client depends on
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client recommends rooms for natural-language queries
type Client struct {
	model     generator
	closeFunc func() error
}

// NewClient creates a Gemini-backed recommendation client. The model is
// configured to return JSON matching the AISearchResult shape.
func NewClient(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recommendedRoomIds": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"reasoning": {Type: genai.TypeString},
		},
		Required: []string{"recommendedRoomIds", "reasoning"},
	}

	return &Client{model: model, closeFunc: client.Close}, nil
}

// Close releases the underlying API connection
func (c *Client) Close() error {
	if c.closeFunc == nil {
		return nil
	}
	return c.closeFunc()
}

// fallbackResult is the response shape used when the collaborator is
// unavailable or returns something unusable
func fallbackResult() *models.AISearchResult {
	return &models.AISearchResult{
		RecommendedRoomIDs: []string{},
		Reasoning:          FallbackReasoning,
	}
}

// buildPrompt assembles the recommendation prompt from the user query and
// compact room summaries
func buildPrompt(query string, rooms []*models.Room) (string, error) {
	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.Summary())
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("failed to marshal room summaries: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are an intelligent room booking assistant.\n")
	sb.WriteString("The user is looking for a room.\n")
	sb.WriteString("Here is the list of available rooms: ")
	sb.Write(data)
	sb.WriteString("\n\nUser Query: \"")
	sb.WriteString(query)
	sb.WriteString("\"\n\n")
	sb.WriteString("Identify the best matching rooms based on capacity, equipment, and type.\n")
	sb.WriteString("Return the IDs of the recommended rooms and a short explanation why.\n")
	sb.WriteString("If the query is vague, suggest the most popular ones.\n")
	return sb.String(), nil
}

// FindBestRooms asks the model for the rooms best matching the query. It
// never returns an error: transport failures, empty payloads and unparsable
// responses all degrade to the fallback result.
func (c *Client) FindBestRooms(ctx context.Context, query string, rooms []*models.Room) *models.AISearchResult {
	prompt, err := buildPrompt(query, rooms)
	if err != nil {
		log.Printf("AI search error: %v", err)
		return fallbackResult()
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("AI search error for query %q: %v", utils.SanitizeLogString(query), err)
		return fallbackResult()
	}

	text := responseText(resp)
	if text == "" {
		log.Printf("AI search returned no content for query %q", utils.SanitizeLogString(query))
		return fallbackResult()
	}

	var result models.AISearchResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		log.Printf("AI search returned unparsable content: %v", err)
		return fallbackResult()
	}

	if result.RecommendedRoomIDs == nil {
		result.RecommendedRoomIDs = []string{}
	}
	return &result
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
