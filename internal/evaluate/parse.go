package evaluate

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/proposal-assistant/internal/llm"
	"github.com/jonathan/proposal-assistant/internal/rubric"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// verdictItemSchema validates one entry of the evaluator's response array.
// Entries that fail validation are ignored individually; they never fail the
// whole parse.
const verdictItemSchema = `{
	"type": "object",
	"required": ["key", "ok"],
	"properties": {
		"key": {"type": "string", "pattern": "^[0-9]+_[0-9]+$"},
		"ok": {"type": "boolean"},
		"why": {"type": "string"}
	}
}`

var itemSchema = gojsonschema.NewStringLoader(verdictItemSchema)

// verdictItem is the wire format of one response entry.
type verdictItem struct {
	Key string `json:"key"`
	OK  bool   `json:"ok"`
	Why string `json:"why"`
}

// ParseVerdicts extracts the verdict array from a raw model response.
//
// The response body may wrap the array in prose or code fences; the first
// bracketed substring is taken. No parseable array means total evaluation
// failure (ErrMalformedResponse, empty map). Individual entries with
// malformed fields or keys outside the rubric are silently dropped.
func ParseVerdicts(raw string) (map[types.CriterionKey]types.Verdict, error) {
	arrText := llm.ExtractJSONArray(llm.CleanJSONBlock(raw))
	if arrText == "" {
		return map[types.CriterionKey]types.Verdict{}, ErrMalformedResponse
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(arrText), &items); err != nil {
		return map[types.CriterionKey]types.Verdict{}, ErrMalformedResponse
	}

	verdicts := make(map[types.CriterionKey]types.Verdict, len(items))
	for _, rawItem := range items {
		result, err := gojsonschema.Validate(itemSchema, gojsonschema.NewBytesLoader(rawItem))
		if err != nil || !result.Valid() {
			continue
		}

		var item verdictItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			continue
		}

		key, err := types.ParseCriterionKey(item.Key)
		if err != nil {
			continue
		}
		if _, ok := rubric.Criterion(key); !ok {
			continue
		}

		verdicts[key] = types.Verdict{Checked: item.OK, Reason: item.Why}
	}
	return verdicts, nil
}
