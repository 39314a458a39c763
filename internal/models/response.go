package models

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// ResultCard is a point-of-interest record returned alongside a reply.
// PhoneNumber and Number are alternative spellings of the same field;
// Distance holds the textual form of the reported distance, empty when absent.
type ResultCard struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Number      string `json:"number,omitempty"`
	Distance    string `json:"distance,omitempty"`
}

// Phone returns the contact number, preferring phone_number over number,
// and FallbackValue when neither is set
func (r ResultCard) Phone() string {
	if r.PhoneNumber != "" {
		return r.PhoneNumber
	}
	if r.Number != "" {
		return r.Number
	}
	return FallbackValue
}

// DistanceText returns the distance without unit, or FallbackValue when absent
func (r ResultCard) DistanceText() string {
	if r.Distance == "" {
		return FallbackValue
	}
	return r.Distance
}

// AIResponse is the success body of the assistant endpoint
type AIResponse struct {
	AIResponse string       `json:"ai_response"`
	Results    []ResultCard `json:"results"`
}

// HasResults reports whether any cards were returned
func (r *AIResponse) HasResults() bool {
	return r != nil && len(r.Results) > 0
}

// ParseAIResponse extracts the reply and cards from a parsed success body
func ParseAIResponse(body gjson.Result) *AIResponse {
	resp := &AIResponse{
		AIResponse: body.Get("ai_response").String(),
	}
	body.Get("results").ForEach(func(_, item gjson.Result) bool {
		resp.Results = append(resp.Results, ParseResultCard(item))
		return true
	})
	return resp
}

// ParseResultCard reads a single card. distance may be a number or a string;
// zero, false, null and empty values are treated as absent. Strings are kept
// as sent, so a whitespace-only value still counts as present.
func ParseResultCard(item gjson.Result) ResultCard {
	card := ResultCard{
		Name:        item.Get("name").String(),
		PhoneNumber: scalarText(item.Get("phone_number")),
		Number:      scalarText(item.Get("number")),
	}

	dist := item.Get("distance")
	switch dist.Type {
	case gjson.Number:
		if dist.Float() != 0 {
			card.Distance = strconv.FormatFloat(dist.Float(), 'f', -1, 64)
		}
	case gjson.String:
		card.Distance = dist.Str
	}
	return card
}

// scalarText returns strings and numbers as text, anything else as empty
func scalarText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return ""
	}
}
