// Package shopping implements the shopping list aggregate. Entries for the
// same ingredient are merged instead of duplicated.
package shopping

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/domain/quantity"
)

// Entry is one line of a shopping list.
type Entry struct {
	ID            string
	Name          string
	Quantity      string
	Category      ingredient.Category
	Checked       bool
	SourceRecipes []string
}

// Key is the merge key of the entry.
func (e *Entry) Key() string {
	return ingredient.Normalize(e.Name)
}

// List is a shopping list. It is not safe for concurrent use; repositories
// hand out independent copies.
type List struct {
	ID      string
	Entries []*Entry

	categorizer *ingredient.Categorizer
	newID       func() string
}

// Option configures a List.
type Option func(*List)

// WithCategorizer overrides the default categorizer.
func WithCategorizer(c *ingredient.Categorizer) Option {
	return func(l *List) { l.categorizer = c }
}

// WithIDGenerator overrides entry id generation.
func WithIDGenerator(gen func() string) Option {
	return func(l *List) { l.newID = gen }
}

var defaultCategorizer = ingredient.NewDefaultCategorizer()

// NewList returns an empty list.
func NewList(id string, opts ...Option) *List {
	l := &List{
		ID:          id,
		categorizer: defaultCategorizer,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SetCategorizer changes the categorizer used for entries added from now on.
func (l *List) SetCategorizer(c *ingredient.Categorizer) {
	if c != nil {
		l.categorizer = c
	}
}

// Restore rebuilds a list from stored entries.
func Restore(id string, entries []*Entry, opts ...Option) *List {
	l := NewList(id, opts...)
	l.Entries = entries

	return l
}

// AddIngredient adds name/qty to the list. An entry with the same normalized
// name absorbs it: quantities are merged, the recipe is recorded once and the
// entry becomes unchecked again.
func (l *List) AddIngredient(name, qty, recipe string) *Entry {
	name = strings.TrimSpace(name)
	key := ingredient.Normalize(name)

	if e := l.find(key); e != nil {
		e.Quantity = quantity.Combine(e.Quantity, qty)
		e.Checked = false
		e.addSource(recipe)

		return e
	}

	e := &Entry{
		ID:       l.newID(),
		Name:     name,
		Quantity: strings.TrimSpace(qty),
		Category: l.categorizer.Categorize(name),
	}
	e.addSource(recipe)
	l.Entries = append(l.Entries, e)

	return e
}

// AddLine splits a raw ingredient line into name and quantity and adds it.
func (l *List) AddLine(line, recipe string) *Entry {
	name, qty := SplitLine(line)

	return l.AddIngredient(name, qty, recipe)
}

// SplitLine separates an ingredient line into name and quantity text.
// Lines without a recognizable amount are returned whole as the name, except
// "<name> <text>" where the text becomes the quantity ("塩 適量").
func SplitLine(line string) (name, qty string) {
	line = strings.TrimSpace(line)

	if amount, ok := quantity.ExtractAmount(line); ok {
		return amount.Name, amount.Text
	}

	if fields := strings.Fields(line); len(fields) > 1 {
		last := fields[len(fields)-1]
		return strings.TrimSpace(strings.TrimSuffix(line, last)), last
	}

	return line, ""
}

// Toggle flips the checked flag of an entry.
func (l *List) Toggle(id string) (*Entry, error) {
	e, err := l.Get(id)
	if err != nil {
		return nil, err
	}

	e.Checked = !e.Checked

	return e, nil
}

// SetChecked sets the checked flag of an entry.
func (l *List) SetChecked(id string, checked bool) (*Entry, error) {
	e, err := l.Get(id)
	if err != nil {
		return nil, err
	}

	e.Checked = checked

	return e, nil
}

// Get returns the entry with id.
func (l *List) Get(id string) (*Entry, error) {
	for _, e := range l.Entries {
		if e.ID == id {
			return e, nil
		}
	}

	return nil, domain.NewNotFoundError(domain.EntityShoppingEntry, id)
}

// Remove deletes an entry.
func (l *List) Remove(id string) error {
	i := slices.IndexFunc(l.Entries, func(e *Entry) bool { return e.ID == id })
	if i < 0 {
		return domain.NewNotFoundError(domain.EntityShoppingEntry, id)
	}

	l.Entries = slices.Delete(l.Entries, i, i+1)

	return nil
}

// ClearChecked removes every checked entry and returns how many were removed.
func (l *List) ClearChecked() int {
	before := len(l.Entries)
	l.Entries = slices.DeleteFunc(l.Entries, func(e *Entry) bool { return e.Checked })

	return before - len(l.Entries)
}

// Group is the entries of one category.
type Group struct {
	Category ingredient.Category
	Entries  []*Entry
}

// Grouped returns non-empty groups in category display order. Entries keep
// insertion order within a group.
func (l *List) Grouped() []Group {
	groups := make([]Group, 0, len(ingredient.Categories))
	for _, c := range ingredient.Categories {
		var entries []*Entry
		for _, e := range l.Entries {
			if e.Category == c || (c == ingredient.Other && !known(e.Category)) {
				entries = append(entries, e)
			}
		}

		if len(entries) > 0 {
			groups = append(groups, Group{Category: c, Entries: entries})
		}
	}

	return groups
}

// Clone returns a deep copy of the list.
func (l *List) Clone() *List {
	c := *l
	c.Entries = make([]*Entry, len(l.Entries))
	for i, e := range l.Entries {
		copied := *e
		copied.SourceRecipes = slices.Clone(e.SourceRecipes)
		c.Entries[i] = &copied
	}

	return &c
}

func (l *List) find(key string) *Entry {
	for _, e := range l.Entries {
		if e.Key() == key {
			return e
		}
	}

	return nil
}

func (e *Entry) addSource(recipe string) {
	recipe = strings.TrimSpace(recipe)
	if recipe == "" || slices.Contains(e.SourceRecipes, recipe) {
		return
	}

	e.SourceRecipes = append(e.SourceRecipes, recipe)
}

func known(c ingredient.Category) bool {
	return slices.Contains(ingredient.Categories[:3], c)
}
