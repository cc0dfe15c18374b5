package models

import (
	"encoding/json"
	"fmt"
)

// Answer type tags as persisted in the answer_value JSON. Downstream
// analytics readers depend on these literals.
const (
	AnswerTagEssay          = "essay"
	AnswerTagMultipleChoice = "multiple_choice"
	AnswerTagEvaluation     = "evaluation"
	AnswerTagBoolean        = "boolean"
)

// AnswerValue is the normalised value of one answered question. It is a
// closed union: exactly one variant exists per question type, and
// EncodeAnswer matches them exhaustively.
type AnswerValue interface {
	answerTag() string
}

// EssayAnswer holds escaped free text.
type EssayAnswer struct {
	Content string
}

// MultipleChoiceAnswer holds the selected option and a snapshot of the
// options configured at submission time.
type MultipleChoiceAnswer struct {
	Selected string
	Options  []string
}

// RatingAnswer holds a 1..5 evaluation score.
type RatingAnswer struct {
	Value int
}

// BooleanAnswer holds 1 for agreement, 0 otherwise.
type BooleanAnswer struct {
	Value int
}

func (EssayAnswer) answerTag() string          { return AnswerTagEssay }
func (MultipleChoiceAnswer) answerTag() string { return AnswerTagMultipleChoice }
func (RatingAnswer) answerTag() string         { return AnswerTagEvaluation }
func (BooleanAnswer) answerTag() string        { return AnswerTagBoolean }

type essayWire struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type multipleChoiceWire struct {
	Type     string   `json:"type"`
	Selected string   `json:"selected"`
	Options  []string `json:"options"`
}

type ratingWire struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// EncodeAnswer serialises an AnswerValue into its stable tagged JSON shape.
func EncodeAnswer(v AnswerValue) ([]byte, error) {
	switch a := v.(type) {
	case EssayAnswer:
		return json.Marshal(essayWire{Type: AnswerTagEssay, Content: a.Content})
	case MultipleChoiceAnswer:
		options := a.Options
		if options == nil {
			options = []string{}
		}
		return json.Marshal(multipleChoiceWire{Type: AnswerTagMultipleChoice, Selected: a.Selected, Options: options})
	case RatingAnswer:
		return json.Marshal(ratingWire{Type: AnswerTagEvaluation, Value: a.Value})
	case BooleanAnswer:
		return json.Marshal(ratingWire{Type: AnswerTagBoolean, Value: a.Value})
	default:
		return nil, fmt.Errorf("unsupported answer value %T", v)
	}
}

// DecodeAnswer parses a persisted answer back into its variant.
func DecodeAnswer(data []byte) (AnswerValue, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Type {
	case AnswerTagEssay:
		var w essayWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return EssayAnswer{Content: w.Content}, nil
	case AnswerTagMultipleChoice:
		var w multipleChoiceWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return MultipleChoiceAnswer{Selected: w.Selected, Options: w.Options}, nil
	case AnswerTagEvaluation:
		var w ratingWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return RatingAnswer{Value: w.Value}, nil
	case AnswerTagBoolean:
		var w ratingWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return BooleanAnswer{Value: w.Value}, nil
	default:
		return nil, fmt.Errorf("unknown answer type %q", tag.Type)
	}
}
