package sanitizer

import (
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

const showIDPrefix = "show_"

var (
	seatIDPipeline = Pipeline{strings.TrimSpace, strings.ToUpper}
	imdbIDPipeline = Pipeline{strings.TrimSpace, strings.ToLower}
)

func NormalizeSeatID(id string) string {
	return seatIDPipeline.Apply(id)
}

// NormalizeSeatIDs keeps duplicates and empty entries so validation can
// report them.
func NormalizeSeatIDs(ids []string) []string {
	return MapStrings(ids, NormalizeSeatID)
}

func NormalizeIMDbID(id string) string {
	return imdbIDPipeline.Apply(id)
}

func NormalizeShowID(id string) string {
	id = strings.TrimSpace(id)
	if movieID, ok := strings.CutPrefix(id, showIDPrefix); ok {
		return showIDPrefix + NormalizeIMDbID(movieID)
	}
	return id
}

func NormalizeUserID(id string) string {
	return strings.TrimSpace(id)
}
