package compiler

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"pocket_study/internal/model"
)

// Options tune a single compile call.
type Options struct {
	CourseID    string
	Version     int
	DefaultLang string
}

// Result is a successful compile: the normalized course plus non-fatal
// warnings collected along the way.
type Result struct {
	Course   *model.Course
	Warnings []string
}

var (
	conceptHeaderPattern = regexp.MustCompile(`(?i)^##\s*Concept:\s*(.+?)(?:\s*\(concept_id:\s*([^\s)]+)\))?\s*$`)
	mcqPattern           = regexp.MustCompile(`(?i)^\s*(?:-\s*)?MCQ:\s*"(.+?)"\s*\|\s*(\[[^\]]*\])\s*\|\s*(\d+)\s*$`)
	clozeLinePattern     = regexp.MustCompile(`(?i)^\s*(?:-\s*)?Cloze:\s*(.+)$`)
	cardPattern          = regexp.MustCompile(`(?i)^\s*(?:-\s*)?Card:\s*"(.+?)"\s*\|\s*"(.+?)"\s*$`)
	matchPattern         = regexp.MustCompile(`(?i)^\s*(?:-\s*)?Match:\s*(\[[^\]]*\])\s*$`)
	orderingPattern      = regexp.MustCompile(`(?i)^\s*(?:-\s*)?Ordering:\s*(\[[^\]]*\])\s*$`)
	matchPairSeparator   = regexp.MustCompile(`=>|->|\|`)
)

type conceptDraft struct {
	concept    model.Concept
	definition string
}

// compileState carries the per-call parsing context. Counters are scoped to
// one compile and never persisted.
type compileState struct {
	errors   []string
	warnings []string
	items    []model.CourseItem
	counters map[string]int
}

func (s *compileState) nextItemID(conceptID string, itemType model.ItemType) string {
	base := itemSlug(conceptID)
	key := string(itemType) + ":" + base
	s.counters[key]++
	return fmt.Sprintf("%s.%s.%d", itemType, base, s.counters[key])
}

func (s *compileState) addItem(conceptID string, itemType model.ItemType, difficulty int, fill func(item *model.CourseItem)) {
	item := model.CourseItem{
		ItemBase: model.ItemBase{
			ID:         s.nextItemID(conceptID, itemType),
			Type:       itemType,
			ConceptIDs: []string{conceptID},
			Metadata:   map[string]any{"difficulty": difficulty},
		},
	}
	fill(&item)
	s.items = append(s.items, item)
}

// Compile parses an authoring-DSL document into a normalized Course. All
// structural problems are collected and returned together as a single
// *model.CompileError; warnings are non-fatal and accompany success.
func Compile(text string, opts Options) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.NewCompileError([]string{"The provided course text is empty."})
	}

	state := &compileState{counters: make(map[string]int)}

	var (
		title       string
		description string
		language    string
		courseTags  []string
	)

	var drafts []*conceptDraft
	seenConceptIDs := make(map[string]bool)
	var current *conceptDraft
	inQuiz := false

	flushDefinition := func(draft *conceptDraft) {
		if draft.definition == "" {
			return
		}
		def := draft.definition
		name := draft.concept.Name
		state.addItem(draft.concept.ID, model.ItemTypeCard, 1, func(item *model.CourseItem) {
			item.Card = &model.CardItem{Prompt: name, Answer: def}
		})
		draft.definition = ""
	}

	for _, rawLine := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(rawLine)

		// A blank line closes any open quiz section.
		if line == "" {
			inQuiz = false
			continue
		}

		if strings.HasPrefix(line, "# ") {
			header := strings.TrimSpace(line[2:])
			key, value, _ := strings.Cut(header, ":")
			value = strings.TrimSpace(value)
			switch strings.ToLower(key) {
			case "title":
				title = value
			case "description":
				description = value
			case "lang", "language":
				language = value
			case "tags":
				courseTags = splitTags(value)
			default:
				state.warnings = append(state.warnings, fmt.Sprintf("Unrecognized header directive: %s", key))
			}
			continue
		}

		if m := conceptHeaderPattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				flushDefinition(current)
			}

			name := strings.TrimSpace(m[1])
			conceptID := strings.TrimSpace(m[2])
			if conceptID == "" {
				conceptID = "concept." + Slugify(name)
			}
			if seenConceptIDs[conceptID] {
				state.errors = append(state.errors, fmt.Sprintf("Duplicate concept id %q", conceptID))
			}
			seenConceptIDs[conceptID] = true

			current = &conceptDraft{concept: model.Concept{ID: conceptID, Name: name}}
			drafts = append(drafts, current)
			inQuiz = false
			continue
		}

		if current == nil {
			state.warnings = append(state.warnings, fmt.Sprintf("Skipping line outside of a concept block: %q", line))
			continue
		}

		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "definition:") {
			current.definition = strings.TrimSpace(line[len("definition:"):])
			continue
		}

		if strings.HasPrefix(lower, "tags:") {
			if tags := splitTags(line[len("tags:"):]); len(tags) > 0 {
				current.concept.Tags = tags
			}
			continue
		}

		if lower == "quiz:" {
			inQuiz = true
			continue
		}

		if inQuiz {
			parseQuizLine(state, current.concept, line)
			continue
		}

		state.warnings = append(state.warnings, fmt.Sprintf("Unrecognized line within concept %s: %q", current.concept.Name, line))
	}

	if current != nil {
		flushDefinition(current)
	}

	if title == "" {
		state.errors = append(state.errors, `Missing required "# Title:" directive.`)
	}
	if len(drafts) == 0 {
		state.errors = append(state.errors, `No concepts were defined. Add at least one "## Concept:" section.`)
	}
	if len(state.items) == 0 {
		state.errors = append(state.errors, "No items were generated. Provide definitions or quiz entries.")
	}

	if len(state.errors) > 0 {
		return nil, model.NewCompileError(state.errors)
	}

	concepts := make([]model.Concept, len(drafts))
	for i, draft := range drafts {
		concepts[i] = draft.concept
	}

	courseID := opts.CourseID
	if courseID == "" {
		if slug := Slugify(title); slug != "" {
			courseID = "authored-" + slug
		} else {
			courseID = "authored-" + uuid.NewString()
		}
	}
	version := opts.Version
	if version == 0 {
		version = 1
	}
	lang := language
	if lang == "" {
		lang = opts.DefaultLang
	}

	course := &model.Course{
		ID:          courseID,
		Title:       title,
		Version:     version,
		Description: description,
		Tags:        courseTags,
		Lang:        lang,
		Concepts:    concepts,
		Items:       state.items,
	}

	normalized, err := NormalizeCourse(course)
	if err != nil {
		// Cloze items were expanded at parse time, so this indicates a
		// compiler bug rather than bad input.
		return nil, model.NewCompileError([]string{err.Error()})
	}

	if state.warnings == nil {
		state.warnings = []string{}
	}
	return &Result{Course: normalized, Warnings: state.warnings}, nil
}

// parseQuizLine handles one non-blank line inside a Quiz: section. Line
// failures are collected as errors; unrecognized lines become warnings.
func parseQuizLine(state *compileState, concept model.Concept, line string) {
	if m := mcqPattern.FindStringSubmatch(line); m != nil {
		stem, rawChoices, rawIndex := m[1], m[2], m[3]

		var choices []string
		if err := json.Unmarshal([]byte(rawChoices), &choices); err != nil {
			state.errors = append(state.errors, fmt.Sprintf("Invalid MCQ choices for concept %s (%v)", concept.Name, err))
			return
		}

		correctIndex, err := strconv.Atoi(rawIndex)
		if err != nil || correctIndex < 0 || correctIndex >= len(choices) {
			state.errors = append(state.errors, fmt.Sprintf("Correct choice index out of bounds for concept %s", concept.Name))
			return
		}

		entries := make([]model.MCQChoice, len(choices))
		for i, text := range choices {
			entries[i] = model.MCQChoice{
				ID:      fmt.Sprintf("choice-%d", i+1),
				Text:    text,
				Correct: i == correctIndex,
			}
		}

		state.addItem(concept.ID, model.ItemTypeMCQ, 1, func(item *model.CourseItem) {
			item.MCQ = &model.MCQItem{Stem: stem, Choices: entries}
		})
		return
	}

	if m := clozeLinePattern.FindStringSubmatch(line); m != nil {
		template := strings.TrimSpace(m[1])
		result, err := ExpandClozeTemplate(template)
		if err != nil {
			state.errors = append(state.errors, fmt.Sprintf("Invalid cloze for concept %s (%v)", concept.Name, err))
			return
		}
		state.addItem(concept.ID, model.ItemTypeCloze, 2, func(item *model.CourseItem) {
			item.Cloze = &model.ClozeItem{Tokens: result.Tokens, Answer: result.Answers}
		})
		return
	}

	if m := cardPattern.FindStringSubmatch(line); m != nil {
		prompt, answer := m[1], m[2]
		state.addItem(concept.ID, model.ItemTypeCard, 1, func(item *model.CourseItem) {
			item.Card = &model.CardItem{Prompt: prompt, Answer: answer}
		})
		return
	}

	if m := matchPattern.FindStringSubmatch(line); m != nil {
		var rawPairs []string
		if err := json.Unmarshal([]byte(m[1]), &rawPairs); err != nil {
			state.errors = append(state.errors, fmt.Sprintf("Invalid match pairs for concept %s (%v)", concept.Name, err))
			return
		}

		var pairs []model.MatchPair
		for i, entry := range rawPairs {
			parts := matchPairSeparator.Split(entry, -1)
			if len(parts) < 2 {
				continue
			}
			prompt := strings.TrimSpace(parts[0])
			answer := strings.TrimSpace(parts[1])
			if prompt == "" || answer == "" {
				continue
			}
			pairs = append(pairs, model.MatchPair{
				ID:     fmt.Sprintf("pair-%d", i+1),
				Prompt: prompt,
				Answer: answer,
			})
		}

		if len(pairs) == 0 {
			state.errors = append(state.errors, fmt.Sprintf("No valid match pairs for concept %s", concept.Name))
			return
		}

		state.addItem(concept.ID, model.ItemTypeMatch, 2, func(item *model.CourseItem) {
			item.Match = &model.MatchItem{Pairs: pairs}
		})
		return
	}

	if m := orderingPattern.FindStringSubmatch(line); m != nil {
		var steps []string
		if err := json.Unmarshal([]byte(m[1]), &steps); err != nil {
			state.errors = append(state.errors, fmt.Sprintf("Invalid ordering steps for concept %s (%v)", concept.Name, err))
			return
		}
		if len(steps) == 0 {
			state.errors = append(state.errors, fmt.Sprintf("Ordering exercise requires at least one step for concept %s", concept.Name))
			return
		}

		entries := make([]model.OrderingStep, len(steps))
		order := make([]string, len(steps))
		for i, text := range steps {
			entries[i] = model.OrderingStep{ID: fmt.Sprintf("step-%d", i+1), Text: text}
			order[i] = entries[i].ID
		}

		state.addItem(concept.ID, model.ItemTypeOrdering, 2, func(item *model.CourseItem) {
			// The authored sequence is the canonical correct order.
			item.Ordering = &model.OrderingItem{Steps: entries, CorrectOrder: order}
		})
		return
	}

	state.warnings = append(state.warnings, fmt.Sprintf("Unrecognized quiz entry: %q", line))
}

func splitTags(value string) []string {
	var tags []string
	for _, tag := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
