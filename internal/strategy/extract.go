package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"pandey.app/outreach/common/logger"
	"pandey.app/outreach/internal/model"
)

// Source tells which path produced an extracted strategy.
type Source string

const (
	SourceJSON     Source = "json"
	SourceRepaired Source = "repaired"
	SourceLabeled  Source = "labeled"
	SourceCache    Source = "cache"
)

// Result is the outcome of Extract. Strategy always has all five fields set.
type Result struct {
	Strategy  model.Strategy
	Source    Source
	Recovered int // fields taken from the response rather than placeholders
}

// Degraded reports whether at least one field is a placeholder.
func (r Result) Degraded() bool {
	return r.Recovered < len(fields)
}

var (
	errNoObject      = errors.New("no JSON object in response")
	errMissingFields = errors.New("missing required string fields")
)

var (
	leadingJSONFence = regexp.MustCompile("(?i)^```json\\s*")
	leadingFence     = regexp.MustCompile("^```\\s*")
	trailingFence    = regexp.MustCompile("\\s*```$")
)

// Extract recovers a strategy from the raw text of a generation response.
// It first looks for a JSON object carrying all five fields and otherwise
// scrapes labeled sections out of the prose. It never fails: fields that
// cannot be recovered are filled with their placeholder text.
func Extract(ctx context.Context, raw string) Result {
	slog.DebugContext(ctx, "extracting strategy", "raw_response", logger.Truncate(raw, 500))

	candidate := candidateObject(stripFence(strings.TrimSpace(raw)))

	s, err := decodeJSON([]byte(candidate))
	if err == nil {
		return finish(ctx, s, SourceJSON)
	}
	slog.DebugContext(ctx, "strict strategy parse failed", "error", err)

	s, err = decodeLenient(candidate)
	if err == nil {
		slog.InfoContext(ctx, "strategy recovered from malformed JSON")
		return finish(ctx, s, SourceRepaired)
	}

	slog.WarnContext(ctx, "strategy response is not a usable JSON object, scraping labeled sections",
		"error", err,
		"candidate", logger.Truncate(candidate, 200))

	return finish(ctx, scrapeSections(raw), SourceLabeled)
}

func stripFence(s string) string {
	s = leadingJSONFence.ReplaceAllString(s, "")
	s = leadingFence.ReplaceAllString(s, "")
	return trailingFence.ReplaceAllString(s, "")
}

// candidateObject returns the span from the first '{' to the last '}', or s
// unchanged when there is no such span.
func candidateObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end <= start {
		return s
	}
	return s[start : end+1]
}

func decodeJSON(data []byte) (model.Strategy, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return model.Strategy{}, fmt.Errorf("unmarshal strategy: %w", err)
	}
	return fromObject(obj)
}

// decodeLenient retries the candidate through JSON repair and then Hjson.
// Both libraries see untrusted text, so a panic is turned into an error.
func decodeLenient(candidate string) (s model.Strategy, err error) {
	if !strings.Contains(candidate, "{") {
		return model.Strategy{}, errNoObject
	}

	defer func() {
		if r := recover(); r != nil {
			s, err = model.Strategy{}, fmt.Errorf("lenient parse panicked: %v", r)
		}
	}()

	if repaired, rerr := jsonrepair.RepairJSON(candidate); rerr == nil {
		if s, err = decodeJSON([]byte(repaired)); err == nil {
			return s, nil
		}
	}

	var obj map[string]any
	if err := hjson.Unmarshal([]byte(candidate), &obj); err != nil {
		return model.Strategy{}, fmt.Errorf("hjson strategy: %w", err)
	}
	return fromObject(obj)
}

// fromObject accepts obj only if every required key holds a string.
// Unknown keys are ignored.
func fromObject(obj map[string]any) (model.Strategy, error) {
	var s model.Strategy
	var missing []string
	for _, f := range fields {
		v, ok := obj[f.key].(string)
		if !ok {
			missing = append(missing, f.key)
			continue
		}
		*f.value(&s) = v
	}
	if len(missing) > 0 {
		return model.Strategy{}, fmt.Errorf("%w: %s", errMissingFields, strings.Join(missing, ", "))
	}
	return s, nil
}

// finish substitutes placeholders for blank fields and counts the rest.
func finish(ctx context.Context, s model.Strategy, source Source) Result {
	recovered := 0
	for _, f := range fields {
		v := f.value(&s)
		if strings.TrimSpace(*v) == "" {
			*v = f.placeholder
			continue
		}
		recovered++
	}

	if recovered == 0 {
		slog.WarnContext(ctx, "no strategy fields could be recovered", "source", source)
	}

	return Result{Strategy: s, Source: source, Recovered: recovered}
}
