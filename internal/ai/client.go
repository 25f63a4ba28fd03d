// Package ai is the client for the hosted generative-language backend. All
// calls are plain request/response generateContent POSTs; there is no
// streaming, caching or queuing. Failures are returned as ErrUpstream so
// call sites can absorb them with canned fallbacks instead of surfacing raw
// errors to end users.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/nsoftlabs/whitespace-server/internal/model"
)

// ErrUpstream wraps any network, HTTP or parse failure from the backend.
var ErrUpstream = errors.New("generative backend error")

// FallbackBrief is returned to the user when brief generation fails.
const FallbackBrief = "## Analysis Unavailable\n\nUnable to connect to the AI analysis engine at this time. Please try again later."

// Client calls the generative-language REST API.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
	log    *logrus.Logger
}

// NewClient builds a client for the given base URL (typically
// https://generativelanguage.googleapis.com), API key and model name.
func NewClient(baseURL, apiKey, modelName string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second),
		apiKey: apiKey,
		model:  modelName,
		log:    log,
	}
}

// ----- wire types (generateContent) -----

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate performs one generateContent call and returns the first
// candidate's text.
func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		c.log.WithError(err).Warn("generative backend request failed")
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		c.log.WithField("status", resp.StatusCode()).Warn("generative backend returned non-2xx")
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateBrief asks for an executive briefing on the opportunity. The
// prompt shape is fixed; the response is Markdown.
func (c *Client) GenerateBrief(ctx context.Context, opp model.Opportunity) (string, error) {
	contextText := opp.Description
	if contextText == "" {
		contextText = opp.EvidenceSnippet
	}
	prompt := fmt.Sprintf(`
You are a senior Strategy Consultant at a top-tier firm.
Analyze the following business opportunity data and write a concise, high-impact Executive Briefing (Markdown format).

**Opportunity:** %s
**Context:** %s
**Vertical:** %s
**Tags:** %s
**Trend:** %s

Structure the response exactly as follows:
1. **Why It Matters**: Strategic implication (2-3 sentences).
2. **Evidence Highlights**: Key data points or quotes supporting the opportunity.
3. **Money Trail**: Investment flows, grants, budget allocations, or revenue potential.
4. **Key Players**: Likely competitors, incumbents, or key agencies involved.
5. **Risk Flags**: Regulatory hurdles, market adoption risks, or technical challenges.
6. **Actionable Next Steps**: 3 concrete moves a company should take in the next 30 days.

Keep it professional, direct, and under 400 words.
`, opp.Title, contextText, opp.Vertical, strings.Join(opp.Tags, ", "), opp.Trend)

	text, err := c.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	if text == "" {
		return "No analysis could be generated.", nil
	}
	return text, nil
}

// Draft is the partial-opportunity shape the analysis prompts ask the model
// to return.
type Draft struct {
	Title             string                  `json:"title"`
	EvidenceSnippet   string                  `json:"evidenceSnippet"`
	ImpactScore       int                     `json:"impactScore"`
	Vertical          model.Vertical          `json:"vertical"`
	Trend             model.Trend             `json:"trend"`
	Tags              []string                `json:"tags"`
	Description       string                  `json:"description"`
	TimeHorizon       string                  `json:"timeHorizon"`
	OpportunityType   model.OpportunityType   `json:"opportunityType"`
	Geography         string                  `json:"geography"`
	SourceReliability model.SourceReliability `json:"sourceReliability"`
}

// AnalyzeFile asks the model to project a plausible opportunity out of an
// uploaded document's filename. The response is requested as raw JSON.
func (c *Client) AnalyzeFile(ctx context.Context, filename string) (Draft, error) {
	prompt := fmt.Sprintf(`
I have just uploaded a document named "%s" to my market intelligence platform.

Based solely on this filename, hallucinate a highly realistic, high-value business opportunity that might be found in such a document.
It should sound like a serious strategic insight.

Return ONLY a JSON object with the following fields (no markdown, no backticks):
{
  "title": "Short punchy outcome-oriented title (max 10 words)",
  "evidenceSnippet": "A specific fact/quote that might be in this document (max 20 words)",
  "impactScore": (number between 65 and 99),
  "vertical": "FinTech" | "MedTech" | "GovTech" | "General",
  "trend": "Accelerating" | "Stable" | "Cooling",
  "tags": ["tag1", "tag2", "tag3"],
  "description": "A 2-sentence description of the strategic gap identified.",
  "timeHorizon": "0-6 months" | "6-18 months" | "18+ months",
  "opportunityType": "Reg-Driven" | "Tech Gap" | "Customer Pain" | "Competitive Void",
  "geography": "US" | "EU" | "Global" | "APAC"
}
`, filename)
	return c.generateDraft(ctx, prompt)
}

// AnalyzeManualEntry structures a raw observation into a scored draft. The
// prompt instructs the model to score vague ideas below the staging
// threshold and solid ones above it.
func (c *Client) AnalyzeManualEntry(ctx context.Context, description string, vertical model.Vertical, oppType model.OpportunityType) (Draft, error) {
	prompt := fmt.Sprintf(`
You are an expert market intelligence analyst.
I will provide a raw observation/idea, and you must structure it into a formal Business Opportunity.

**Input Idea:** "%s"
**Target Vertical:** %s
**Opportunity Type:** %s

1. Evaluate the strategic impact (1-100). If the idea is vague or low-value, score it < 80. If it's a solid, actionable gap, score it > 80.
2. Hallucinate plausible tags, trend, and a "title" that sounds professional.

Return ONLY a JSON object (no markdown):
{
  "title": "Professional Title (max 12 words)",
  "evidenceSnippet": "A polished version of the user's input (max 25 words)",
  "impactScore": (number 50-99 based on quality),
  "trend": "Accelerating" | "Stable" | "Cooling",
  "tags": ["tag1", "tag2", "tag3"],
  "description": "A 2-3 sentence strategic elaboration of the idea.",
  "timeHorizon": "0-6 months" | "6-18 months" | "18+ months",
  "geography": "Global" | "US" | "EU",
  "sourceReliability": "Medium"
}
`, description, vertical, oppType)
	return c.generateDraft(ctx, prompt)
}

func (c *Client) generateDraft(ctx context.Context, prompt string) (Draft, error) {
	text, err := c.generate(ctx, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return Draft{}, err
	}
	if text == "" {
		text = "{}"
	}
	var d Draft
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		c.log.WithError(err).Warn("draft response did not parse as JSON")
		return Draft{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return d, nil
}

// Chat runs one exchange of a conversation: the session history plus the new
// user message are replayed into contents, with the session's system
// instruction attached. New sessions are seeded with a model-role greeting
// for the client to render; the backend expects conversations to open with
// a user turn, so leading model turns are not replayed.
func (c *Client) Chat(ctx context.Context, sess model.ChatSession, message string) (string, error) {
	history := sess.Messages
	for len(history) > 0 && history[0].Role == model.ChatRoleModel {
		history = history[1:]
	}

	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, content{Role: m.Role, Parts: []part{{Text: m.Text}}})
	}
	contents = append(contents, content{Role: model.ChatRoleUser, Parts: []part{{Text: message}}})

	req := generateRequest{Contents: contents}
	if sess.SystemInstruction != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: sess.SystemInstruction}}}
	}
	text, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "I don't have a response for that right now.", nil
	}
	return text, nil
}
