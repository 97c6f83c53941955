// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/vehiclematch/ai"
	"github.com/poiesic/vehiclematch/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Arbiter implements ai.Arbiter using OpenAI-compatible chat APIs.
type Arbiter struct {
	client llms.Model
	logger *slog.Logger
}

// verdictWire matches the JSON structure the model is instructed to produce.
// A null selected_id means the model declined to choose.
type verdictWire struct {
	SelectedID *string `json:"selected_id"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// newArbiter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newArbiter(config *ai.Config) (*Arbiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ArbiterHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ArbiterModel),
	)
	if err != nil {
		return nil, err
	}

	return &Arbiter{
		client: client,
		logger: slog.Default().With("component", "openai-arbiter"),
	}, nil
}

// NewArbiter creates a new arbiter using the provided configuration.
//
// Returns ai.Arbiter interface to enforce abstraction.
func NewArbiter(config *ai.Config) (ai.Arbiter, error) {
	return newArbiter(config)
}

// Decide asks the model which catalog option describes the same vehicle as
// the query. The query is passed verbatim; options carry the catalog
// descriptions. An empty Verdict.SelectedID reports that the model declined.
func (a *Arbiter) Decide(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
	if len(options) == 0 {
		a.logger.Warn("no options provided for arbitration")
		return ai.Verdict{Reasoning: "no catalog options were provided"}, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildArbitrationSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildArbitrationUserPrompt(query, options)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var wire verdictWire
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return ai.Verdict{}, err
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from model")
			return ai.Verdict{Reasoning: "model returned no choices"}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &wire); err != nil {
			lastErr = err
			a.logger.Warn("error parsing arbiter response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		a.logger.Error("failed to parse arbiter response after retries", "err", lastErr)
		return ai.Verdict{}, lastErr
	}

	verdict := ai.Verdict{
		Confidence: wire.Confidence,
		Reasoning:  wire.Reasoning,
	}
	if wire.SelectedID != nil {
		// Some models report null as the literal string.
		selected := strings.TrimSpace(*wire.SelectedID)
		if !strings.EqualFold(selected, "null") && !strings.EqualFold(selected, "none") {
			verdict.SelectedID = selected
		}
	}

	a.logger.Debug("arbitration verdict",
		"selected_id", verdict.SelectedID,
		"confidence", verdict.Confidence,
		"options", len(options))

	return verdict, nil
}
