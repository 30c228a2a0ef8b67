// Package nutrition holds per-100g nutrition facts and the built-in table of
// common foods
package nutrition

import (
	"errors"
	"strings"
)

// ErrUnparsableReply means the model answered without usable JSON
var ErrUnparsableReply = errors.New("nutrition reply could not be parsed")

// Source tells where a set of facts came from
type Source string

const (
	SourceStatic  Source = "static"
	SourceCache   Source = "cache"
	SourceLLM     Source = "llm"
	SourceDefault Source = "default"
)

// Facts are nutrition values per 100 g of a food
type Facts struct {
	Food          string   `json:"food"`
	Calorie       float64  `json:"calorie"`
	Carb          float64  `json:"carb"`
	Protein       float64  `json:"protein"`
	Fat           float64  `json:"fat"`
	Fiber         float64  `json:"fiber"`
	GlycemicIndex *float64 `json:"glycemic_index"`
	Source        Source   `json:"source"`
}

func gi(v float64) *float64 { return &v }

var staticTable = map[string]Facts{
	"apple":   {Calorie: 52, Carb: 14, Protein: 0.3, Fat: 0.2, Fiber: 2.4, GlycemicIndex: gi(36)},
	"banana":  {Calorie: 89, Carb: 22.8, Protein: 1.1, Fat: 0.3, Fiber: 2.6, GlycemicIndex: gi(51)},
	"chicken": {Calorie: 165, Carb: 0, Protein: 31, Fat: 3.6, Fiber: 0},
}

// NormalizeName lower-cases and trims a food name for lookups and cache keys
func NormalizeName(food string) string {
	return strings.ToLower(strings.TrimSpace(food))
}

// LookupStatic returns the built-in facts for a food, if any
func LookupStatic(food string) (Facts, bool) {
	f, ok := staticTable[NormalizeName(food)]
	if !ok {
		return Facts{}, false
	}
	f.Food = food
	f.Source = SourceStatic
	if f.GlycemicIndex != nil {
		f.GlycemicIndex = gi(*f.GlycemicIndex)
	}
	return f, true
}

// Unparsed is returned when the model answered but not with usable JSON
func Unparsed(food string) Facts {
	return Facts{Food: food, Source: SourceLLM}
}

// BasicDefault is returned when the model could not be reached
func BasicDefault(food string) Facts {
	return Facts{Food: food, Calorie: 50, Carb: 10, Protein: 1, Fat: 1, Fiber: 1, Source: SourceDefault}
}
