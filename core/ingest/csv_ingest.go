package ingest

import (
	"strconv"
	"strings"

	"github.com/cogpy/hypersynth/core/kg"
)

// Format selects which CSV shape ParseCSV expects.
type Format int

const (
	// SPO: each row is subject,predicate,object[,confidence].
	SPO Format = iota
	// Entity: first column is subject, headers are predicates, cells are objects.
	Entity
)

// ParseResult reports the outcome of a CSV ingest.
type ParseResult struct {
	Counts Counts
	Errors int
}

func trimQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

func isHeaderLike(field string) bool {
	switch strings.ToLower(trimQuotes(field)) {
	case "subject", "s", "entity":
		return true
	default:
		return false
	}
}

// ParseCSV ingests content in the given format and delimiter, resolving
// labels through res and writing triples into graph.
func ParseCSV(graph *kg.Graph, res *Resolver, content string, format Format, delimiter rune) (ParseResult, error) {
	switch format {
	case Entity:
		return parseEntity(graph, res, content, delimiter)
	default:
		return parseSPO(graph, res, content, delimiter)
	}
}

func parseSPO(graph *kg.Graph, res *Resolver, content string, delimiter rune) (ParseResult, error) {
	var result ParseResult
	lines := strings.Split(content, "\n")

	for lineNum, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, string(delimiter))
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < 3 {
			result.Errors++
			continue
		}

		if lineNum == 0 && isHeaderLike(fields[0]) {
			continue
		}

		subject := trimQuotes(fields[0])
		predicate := trimQuotes(fields[1])
		object := trimQuotes(fields[2])
		confidence := 1.0
		if len(fields) > 3 {
			if c, err := strconv.ParseFloat(trimQuotes(fields[3]), 64); err == nil {
				confidence = c
			}
		}

		if subject == "" || predicate == "" || object == "" {
			result.Errors++
			continue
		}

		counts, err := Labels(graph, res, []LabelTriple{{
			Subject: subject, Predicate: predicate, Object: object, Confidence: confidence,
		}})
		if err != nil {
			result.Errors++
			continue
		}
		result.Counts.SymbolsCreated += counts.SymbolsCreated
		result.Counts.TriplesIngested += counts.TriplesIngested
	}

	return result, nil
}

func parseEntity(graph *kg.Graph, res *Resolver, content string, delimiter rune) (ParseResult, error) {
	var result ParseResult
	lines := strings.Split(content, "\n")

	var headerIdx int
	var headers []string
	for i, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		headers = splitAndTrim(line, delimiter)
		headerIdx = i
		break
	}
	if len(headers) < 2 {
		return result, nil
	}
	predicates := headers[1:]

	for _, rawLine := range lines[headerIdx+1:] {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitAndTrim(line, delimiter)
		if len(fields) == 0 || fields[0] == "" {
			continue
		}
		subject := fields[0]

		for i, predicate := range predicates {
			var object string
			if i+1 < len(fields) {
				object = fields[i+1]
			}
			if object == "" || predicate == "" {
				continue
			}

			counts, err := Labels(graph, res, []LabelTriple{{
				Subject: subject, Predicate: predicate, Object: object, Confidence: 1.0,
			}})
			if err != nil {
				result.Errors++
				continue
			}
			result.Counts.SymbolsCreated += counts.SymbolsCreated
			result.Counts.TriplesIngested += counts.TriplesIngested
		}
	}

	return result, nil
}

func splitAndTrim(line string, delimiter rune) []string {
	fields := strings.Split(line, string(delimiter))
	for i := range fields {
		fields[i] = trimQuotes(fields[i])
	}
	return fields
}
