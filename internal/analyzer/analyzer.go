// Package analyzer turns free-form conversation transcripts into typed
// interaction signals via the Anthropic API.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/boutique-crm/clientele-cli/internal/model"
	"github.com/boutique-crm/clientele-cli/pkg/anthropic"
)

const systemPrompt = `You are an expert conversation analyzer for a luxury watch boutique sales team.
Analyze the provided conversation transcript and extract client and sales intelligence as a single JSON object with exactly these fields:

{
  "client_name": "full client name, or \"Unknown Client\"",
  "client_phone": "phone number in international format (+971XXXXXXXXX) if possible, else \"\"",
  "client_email": "email address if mentioned, else \"\"",
  "collection_interests": ["watch collections mentioned, e.g. Overseas, Patrimony"],
  "timepiece_references": ["specific model references, e.g. 4500V/110A-B483"],
  "owned_watches": ["other watches the client says they already own"],
  "budget_range": "budget or price discussion, else \"\"",
  "urgency_level": "low|medium|high|urgent",
  "sentiment": "very_negative|negative|neutral|positive|very_positive",
  "purchase_intent": "browsing|interested|ready_to_buy|confirmed",
  "key_interactions": ["important conversation points"],
  "follow_up_required": true or false,
  "follow_up_date": "YYYY-MM-DD if a follow-up date is implied, else \"\"",
  "notes": "concise notes for the sales team"
}

Be precise with timepiece references and collection names. Return only the JSON object.`

// transcriptExcerptLen bounds the excerpt captured on failed analyses.
const transcriptExcerptLen = 200

// Options is the explicit configuration injected into the analyzer:
// model identifier, request bounds, and client-side rate limit. Credentials
// live on the anthropic.Client itself.
type Options struct {
	Model             string
	MaxTokens         int64
	Timeout           time.Duration
	RequestsPerMinute int
}

// Analyzer extracts interaction signals from conversation transcripts.
type Analyzer struct {
	client  anthropic.Client
	catalog *Catalog
	opts    Options
	limiter *rate.Limiter
}

// New creates an Analyzer. A nil catalog disables owned-watch appraisal.
func New(client anthropic.Client, catalog *Catalog, opts Options) *Analyzer {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}
	return &Analyzer{
		client:  client,
		catalog: catalog,
		opts:    opts,
		limiter: limiter,
	}
}

// Analyze extracts a signal from a transcript. It never returns an error:
// a failed or malformed extraction degrades to a safe default signal with
// the failure reason captured in its notes. sourcePhone, when known (e.g.
// the WhatsApp number the transcript came from), backfills a missing phone.
func (a *Analyzer) Analyze(ctx context.Context, transcript, sourcePhone string) model.InteractionSignal {
	sig, err := a.extract(ctx, transcript)
	if err != nil {
		zap.L().Warn("analyzer: extraction failed, using default signal",
			zap.Error(err),
		)
		sig = model.DefaultSignal()
		sig.KeyInteractions = []string{excerpt(transcript)}
		sig.Notes = "Analysis failed: " + err.Error()
	}

	if sig.ClientPhone == "" && sourcePhone != "" {
		sig.ClientPhone = sourcePhone
	}

	a.appraise(&sig)
	return sig
}

func (a *Analyzer) extract(ctx context.Context, transcript string) (model.InteractionSignal, error) {
	var sig model.InteractionSignal

	if strings.TrimSpace(transcript) == "" {
		return sig, eris.New("analyzer: empty transcript")
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return sig, eris.Wrap(err, "analyzer: rate limit wait")
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.opts.Model,
		MaxTokens: a.opts.MaxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: "Conversation to analyze:\n" + transcript},
		},
	})
	if err != nil {
		return sig, eris.Wrap(err, "analyzer: create message")
	}
	resp.Usage.LogCost(a.opts.Model, "analyze")

	raw := extractJSON(resp.Text())
	if raw == "" {
		return sig, eris.New("analyzer: no JSON object in response")
	}
	if err := json.Unmarshal([]byte(raw), &sig); err != nil {
		return sig, eris.Wrap(err, "analyzer: parse response")
	}

	sig.ApplyDefaults()
	return sig, nil
}

// appraise resolves owned watches against the reference catalog and appends
// the aggregate estimate to the signal's notes.
func (a *Analyzer) appraise(sig *model.InteractionSignal) {
	if a.catalog == nil || len(sig.OwnedWatches) == 0 {
		return
	}
	total := a.catalog.Appraise(sig.OwnedWatches)
	if total <= 0 {
		return
	}
	sig.CollectionValueUSD = total
	note := fmt.Sprintf("Client's estimated existing collection value: $%d USD.", total)
	if sig.Notes != "" {
		sig.Notes += "\n"
	}
	sig.Notes += note
}

// extractJSON returns the outermost JSON object in a model response,
// tolerating markdown fences and prose around it.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= transcriptExcerptLen {
		return s
	}
	return s[:transcriptExcerptLen]
}
