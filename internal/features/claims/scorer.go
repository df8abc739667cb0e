package claims

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/truthindex"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

// Scorer produces a summary and truth index for a claim.
type Scorer interface {
	ScoreClaim(ctx context.Context, text string, sources []string) (summary string, index float64, err error)
}

// NewScorer selects the scoring strategy at startup. With AI disabled the
// deterministic heuristic is used directly; with AI enabled the remote
// service is tried first and the heuristic covers upstream failures.
func NewScorer(cfg *config.Config) Scorer {
	heuristic := &HeuristicScorer{}
	if !cfg.AIEnabled || cfg.AIServiceURL == "" {
		return heuristic
	}
	return &fallbackScorer{
		primary: &remoteScorer{
			url:    cfg.AIServiceURL,
			client: &http.Client{Timeout: 15 * time.Second},
		},
		fallback: heuristic,
	}
}

// HeuristicScorer is the deterministic fallback: a pure function of the
// claim text and sources, no I/O.
type HeuristicScorer struct{}

func (s *HeuristicScorer) ScoreClaim(_ context.Context, text string, sources []string) (string, float64, error) {
	return summarize(text), truthindex.Score(text, sources), nil
}

// summarize takes the first sentence, capped at 180 characters.
func summarize(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ".!?"); i > 0 && i < len(text)-1 {
		text = text[:i+1]
	}
	if len(text) > 180 {
		text = text[:177] + "..."
	}
	return text
}

type remoteScorer struct {
	url    string
	client *http.Client
}

type remoteScoreRequest struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
}

type remoteScoreResponse struct {
	Summary    string  `json:"summary"`
	TruthIndex float64 `json:"truthIndex"`
}

func (s *remoteScorer) ScoreClaim(ctx context.Context, text string, sources []string) (string, float64, error) {
	payload, err := json.Marshal(remoteScoreRequest{Text: text, Sources: sources})
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"/score", bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: scoring service returned %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var out remoteScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	return out.Summary, out.TruthIndex, nil
}

type fallbackScorer struct {
	primary  Scorer
	fallback Scorer
}

func (s *fallbackScorer) ScoreClaim(ctx context.Context, text string, sources []string) (string, float64, error) {
	summary, index, err := s.primary.ScoreClaim(ctx, text, sources)
	if err == nil {
		return summary, index, nil
	}
	logger.Warn("claims: remote scoring failed, using heuristic: %v", err)
	return s.fallback.ScoreClaim(ctx, text, sources)
}
