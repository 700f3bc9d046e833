package journal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errors for malformed addresses. These indicate caller contract
// violations, not domain outcomes.
var (
	ErrEmptyAddress     = errors.New("address must set hour or range")
	ErrAmbiguousAddress = errors.New("address must set exactly one of hour and range")
	ErrInvalidMode      = errors.New("entry mode must be planned or logged")
	ErrEmptyEntry       = errors.New("entry needs a task reference or text")
)

// Slot is the sum type over an hour slot's shape: empty, a single entry,
// or an ordered list of entries sharing the hour. It marshals to the
// persisted wire shape (absent / object / array) so documents written by
// other components round-trip unchanged.
type Slot struct {
	entries []*Entry
}

// NewSlot builds a slot from entries in order.
func NewSlot(entries ...*Entry) *Slot {
	return &Slot{entries: entries}
}

// Len returns the number of entries in the slot.
func (s *Slot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns the slot's entries in order. The slice is shared;
// callers mutate entries in place but must append through Append.
func (s *Slot) Entries() []*Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Append adds an entry at the end of the slot.
func (s *Slot) Append(e *Entry) {
	s.entries = append(s.entries, e)
}

// MarshalJSON emits a bare object for a single entry and an array for
// multiple, matching the persisted document shape.
func (s *Slot) MarshalJSON() ([]byte, error) {
	switch len(s.entries) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(s.entries[0])
	default:
		return json.Marshal(s.entries)
	}
}

// UnmarshalJSON accepts either a single entry object or an array.
func (s *Slot) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		s.entries = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var many []*Entry
		if err := json.Unmarshal(data, &many); err != nil {
			return fmt.Errorf("invalid hour slot array: %w", err)
		}
		s.entries = many
		return nil
	}
	var one Entry
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("invalid hour slot entry: %w", err)
	}
	s.entries = []*Entry{&one}
	return nil
}

// Document is one calendar day of the journal.
type Document struct {
	Date      string              `json:"date"`
	Slots     map[HourLabel]*Slot `json:"slots,omitempty"`
	Ranges    []*RangeEntry       `json:"ranges,omitempty"`
	Staged    []*StagedEntry      `json:"staged,omitempty"`
	Indicator *int                `json:"indicator,omitempty"`
}

// NewDocument creates an empty document for the given ISO date.
func NewDocument(date string) *Document {
	return &Document{Date: date}
}

// Slot returns the slot for an hour label, or nil when absent.
func (d *Document) Slot(h HourLabel) *Slot {
	if d.Slots == nil {
		return nil
	}
	return d.Slots[h]
}

// AppendHour adds an entry to an hour slot, creating the slot as needed.
func (d *Document) AppendHour(h HourLabel, e *Entry) error {
	if !ValidHour(h) {
		return fmt.Errorf("%w: %q", ErrInvalidHour, h)
	}
	if d.Slots == nil {
		d.Slots = make(map[HourLabel]*Slot)
	}
	slot := d.Slots[h]
	if slot == nil {
		slot = &Slot{}
		d.Slots[h] = slot
	}
	slot.Append(e)
	return nil
}

// AppendRange adds an entry spanning the given range.
func (d *Document) AppendRange(r HourRange, e *Entry) error {
	if err := r.Validate(); err != nil {
		return err
	}
	d.Ranges = append(d.Ranges, &RangeEntry{Entry: *e, Start: r.Start, End: r.End})
	return nil
}

// location identifies where an entry sits during iteration. index is the
// day-order position of the hour (range entries use their start hour),
// used for earliest-first ordering.
type location struct {
	addr  Address
	index int
}

// forEachEntry visits every entry in day order: hour slots first by
// vocabulary position, then ranges in list order. Range visiting order
// does not matter to any caller beyond the start index carried in loc.
func (d *Document) forEachEntry(fn func(loc location, e *Entry)) {
	for i, h := range HourLabels {
		slot := d.Slot(h)
		for _, e := range slot.Entries() {
			fn(location{addr: Address{Hour: h}, index: i}, e)
		}
	}
	for _, re := range d.Ranges {
		i, err := HourIndex(re.Start)
		if err != nil {
			// Malformed persisted range; unreachable for the lifecycle
			// ordering, skip rather than fault the whole sweep.
			continue
		}
		r := HourRange{Start: re.Start, End: re.End}
		fn(location{addr: Address{Range: &r}, index: i}, &re.Entry)
	}
}

// loggedTaskIDs collects the task ids of every logged occurrence in the
// document, across hour slots and ranges.
func (d *Document) loggedTaskIDs() map[string]bool {
	ids := make(map[string]bool)
	d.forEachEntry(func(_ location, e *Entry) {
		if e.IsLogged() && e.IsTask() {
			ids[e.TaskID] = true
		}
	})
	return ids
}

// entriesAt returns the entries addressed by addr: the slot's entries for
// an hour, or every range entry with the exact same span.
func (d *Document) entriesAt(addr Address) []*Entry {
	if addr.Range == nil {
		return d.Slot(addr.Hour).Entries()
	}
	var out []*Entry
	for _, re := range d.Ranges {
		if re.Start == addr.Range.Start && re.End == addr.Range.End {
			out = append(out, &re.Entry)
		}
	}
	return out
}

// appendAt adds an entry at the addressed location.
func (d *Document) appendAt(addr Address, e *Entry) error {
	if addr.Range != nil {
		return d.AppendRange(*addr.Range, e)
	}
	return d.AppendHour(addr.Hour, e)
}
