package model

import (
	"encoding/json"
	"fmt"
)

// ItemType discriminates the closed set of course item variants.
type ItemType string

const (
	ItemTypeCard     ItemType = "card"
	ItemTypeMCQ      ItemType = "mcq"
	ItemTypeCloze    ItemType = "cloze"
	ItemTypeMatch    ItemType = "match"
	ItemTypeOrdering ItemType = "ordering"
)

// ItemTypes lists every valid ItemType value.
var ItemTypes = []ItemType{ItemTypeCard, ItemTypeMCQ, ItemTypeCloze, ItemTypeMatch, ItemTypeOrdering}

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeCard, ItemTypeMCQ, ItemTypeCloze, ItemTypeMatch, ItemTypeOrdering:
		return true
	}
	return false
}

// Concept is an atomic unit of knowledge. Immutable once authored;
// referenced by id from item ConceptIDs.
type Concept struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
}

// ItemBase holds the fields shared by every item variant.
type ItemBase struct {
	ID         string         `json:"id"`
	ConceptIDs []string       `json:"conceptIds"`
	Type       ItemType       `json:"type"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type CardItem struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
	Note   string `json:"note,omitempty"`
}

type MCQChoice struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

type MCQItem struct {
	Stem    string      `json:"stem"`
	Choices []MCQChoice `json:"choices"`
}

type TokenType string

const (
	TokenText  TokenType = "text"
	TokenBlank TokenType = "blank"
)

type ClozeToken struct {
	Type  TokenType `json:"type"`
	Value string    `json:"value"`
}

// ClozeItem carries either an expanded tokens/answer pair or, for raw
// authored content, just a Template awaiting normalization.
type ClozeItem struct {
	Tokens   []ClozeToken `json:"tokens,omitempty"`
	Answer   []string     `json:"answer,omitempty"`
	Template string       `json:"template,omitempty"`
}

// Blanks counts blank tokens. Must equal len(Answer) once normalized.
func (c *ClozeItem) Blanks() int {
	n := 0
	for _, tok := range c.Tokens {
		if tok.Type == TokenBlank {
			n++
		}
	}
	return n
}

type MatchPair struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

type MatchItem struct {
	Pairs []MatchPair `json:"pairs"`
}

type OrderingStep struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type OrderingItem struct {
	Steps        []OrderingStep `json:"steps"`
	CorrectOrder []string       `json:"correctOrder"`
}

// CourseItem is the tagged union over the five item variants. Exactly one
// variant pointer is non-nil, selected by ItemBase.Type. Consumers switch
// on Type and must handle every case.
type CourseItem struct {
	ItemBase
	Card     *CardItem
	MCQ      *MCQItem
	Cloze    *ClozeItem
	Match    *MatchItem
	Ordering *OrderingItem
}

// MarshalJSON flattens the active variant's fields next to the base fields,
// matching the course content wire format.
func (i CourseItem) MarshalJSON() ([]byte, error) {
	switch i.Type {
	case ItemTypeCard:
		return json.Marshal(struct {
			ItemBase
			*CardItem
		}{i.ItemBase, i.Card})
	case ItemTypeMCQ:
		return json.Marshal(struct {
			ItemBase
			*MCQItem
		}{i.ItemBase, i.MCQ})
	case ItemTypeCloze:
		return json.Marshal(struct {
			ItemBase
			*ClozeItem
		}{i.ItemBase, i.Cloze})
	case ItemTypeMatch:
		return json.Marshal(struct {
			ItemBase
			*MatchItem
		}{i.ItemBase, i.Match})
	case ItemTypeOrdering:
		return json.Marshal(struct {
			ItemBase
			*OrderingItem
		}{i.ItemBase, i.Ordering})
	default:
		return nil, fmt.Errorf("unknown item type %q for item %q", i.Type, i.ID)
	}
}

func (i *CourseItem) UnmarshalJSON(data []byte) error {
	var base ItemBase
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	i.ItemBase = base
	i.Card, i.MCQ, i.Cloze, i.Match, i.Ordering = nil, nil, nil, nil, nil

	switch base.Type {
	case ItemTypeCard:
		i.Card = new(CardItem)
		return json.Unmarshal(data, i.Card)
	case ItemTypeMCQ:
		i.MCQ = new(MCQItem)
		return json.Unmarshal(data, i.MCQ)
	case ItemTypeCloze:
		i.Cloze = new(ClozeItem)
		return json.Unmarshal(data, i.Cloze)
	case ItemTypeMatch:
		i.Match = new(MatchItem)
		return json.Unmarshal(data, i.Match)
	case ItemTypeOrdering:
		i.Ordering = new(OrderingItem)
		return json.Unmarshal(data, i.Ordering)
	default:
		return fmt.Errorf("unknown item type %q for item %q", base.Type, base.ID)
	}
}

// Answers returns the answer-like strings a learner could type for this
// item, used by free-response evaluation.
func (i *CourseItem) Answers() []string {
	switch i.Type {
	case ItemTypeCard:
		if i.Card != nil {
			return []string{i.Card.Answer}
		}
	case ItemTypeCloze:
		if i.Cloze != nil {
			return i.Cloze.Answer
		}
	case ItemTypeMCQ:
		if i.MCQ != nil {
			for _, c := range i.MCQ.Choices {
				if c.Correct {
					return []string{c.Text}
				}
			}
		}
	case ItemTypeMatch, ItemTypeOrdering:
		// No single free-response answer for these variants.
	}
	return nil
}

// CourseGraphs holds optional relation graphs over concepts.
type CourseGraphs struct {
	PrereqEdges [][2]string `json:"prereqEdges,omitempty"`
}

// Course is immutable content; replaced wholesale on re-install, never
// patched in place.
type Course struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Version     int           `json:"version"`
	Description string        `json:"description,omitempty"`
	Author      string        `json:"author,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Lang        string        `json:"lang,omitempty"`
	Concepts    []Concept     `json:"concepts"`
	Items       []CourseItem  `json:"items"`
	Graphs      *CourseGraphs `json:"graphs,omitempty"`
}

// ItemByID returns the item with the given id, or nil.
func (c *Course) ItemByID(id string) *CourseItem {
	for idx := range c.Items {
		if c.Items[idx].ID == id {
			return &c.Items[idx]
		}
	}
	return nil
}

// ConceptByID returns the concept with the given id, or nil.
func (c *Course) ConceptByID(id string) *Concept {
	for idx := range c.Concepts {
		if c.Concepts[idx].ID == id {
			return &c.Concepts[idx]
		}
	}
	return nil
}
