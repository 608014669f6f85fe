// Copyright 2026 Datalore Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package classify maps a free-text question to a handling category
// before any SQL is generated. Classification is a pure function of the
// keyword tables and the question text: case-insensitive substring
// scoring over three phrase sets, then a fixed-priority decision policy.
package classify

import (
	"strings"

	"github.com/datalore-labs/parley/pkg/types"
)

// DefaultLongQuestionWords is the word-count threshold above which an
// unmatched question defaults to a database query. A long,
// specific-sounding question is statistically more likely to be a data
// request than small talk. This is a heuristic, not a contract; tune it
// via Config rather than relying on the exact value.
const DefaultLongQuestionWords = 6

// keywords holds the category phrase tables. Phrases are lowercase;
// matching is substring-based against the lowercased question.
var keywords = map[types.Intent][]string{
	types.IntentDatabaseQuery: {
		// domain nouns
		"table", "tables", "customer", "customers", "order", "orders",
		"price", "prices", "region", "regions", "sales", "revenue",
		"product", "products", "record", "records", "row", "rows",
		"database", "schema", "column",
		// aggregate verbs
		"count", "average", "sum", "total", "how many", "list",
		// superlatives
		"highest", "lowest", "most", "least", "best", "worst", "top",
	},
	types.IntentHelpRequest: {
		"what can you do", "how does this work", "how do you work",
		"how can you help", "what do you do", "help me understand",
		"what are you", "who are you", "what is this", "capabilities",
		"how to use", "instructions",
	},
	types.IntentOffTopic: {
		"weather", "joke", "movie", "music", "song", "recipe",
		"sports", "game", "news", "poem", "story", "hello", "hi there",
		"good morning", "how are you",
	},
}

// Config tunes the classifier's heuristics.
type Config struct {
	// LongQuestionWords is the ambiguity threshold (default 6 words).
	LongQuestionWords int
}

// Classifier scores questions against the category keyword tables.
// It holds only read-only state and is safe for concurrent use.
type Classifier struct {
	longQuestionWords int
}

// New creates a classifier.
func New(cfg Config) *Classifier {
	if cfg.LongQuestionWords == 0 {
		cfg.LongQuestionWords = DefaultLongQuestionWords
	}
	return &Classifier{longQuestionWords: cfg.LongQuestionWords}
}

// Classify assigns a handling intent to the question.
//
// Decision policy, in priority order:
//  1. help phrase matched and help count >= database count -> HelpRequest
//  2. off-topic matched with zero database matches -> OffTopic
//  3. any database match -> DatabaseQuery (database beats off-topic on ties)
//  4. unmatched but longer than the word threshold -> DatabaseQuery
//  5. otherwise -> OffTopic
func (c *Classifier) Classify(q types.Question) types.Classification {
	lowered := strings.ToLower(q.Text)

	scores := map[types.Intent]int{
		types.IntentDatabaseQuery: score(lowered, keywords[types.IntentDatabaseQuery]),
		types.IntentHelpRequest:   score(lowered, keywords[types.IntentHelpRequest]),
		types.IntentOffTopic:      score(lowered, keywords[types.IntentOffTopic]),
	}

	intent := decide(scores, wordCount(q.Text), c.longQuestionWords)

	return types.Classification{
		Question: q,
		Intent:   intent,
		Scores:   scores,
	}
}

func decide(scores map[types.Intent]int, words, longThreshold int) types.Intent {
	db := scores[types.IntentDatabaseQuery]
	help := scores[types.IntentHelpRequest]
	off := scores[types.IntentOffTopic]

	switch {
	case help > 0 && help >= db:
		return types.IntentHelpRequest
	case off > 0 && db == 0:
		return types.IntentOffTopic
	case db >= 1:
		return types.IntentDatabaseQuery
	case words > longThreshold:
		return types.IntentDatabaseQuery
	default:
		return types.IntentOffTopic
	}
}

func score(lowered string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			n++
		}
	}
	return n
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
