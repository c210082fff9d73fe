package scheduling

import (
	"context"
	"sync"
	"time"
)

// fakeService is an in-memory Service used by the engine tests.
type fakeService struct {
	mu sync.Mutex

	busy    []Slot
	busyErr error

	events  []Event
	listErr error

	insertErr error
	updateErr error

	// insertReturnsNil makes InsertEvent succeed with a nil event, the
	// "service returned nothing" outcome.
	insertReturnsNil bool

	freeBusyCalls int
	inserted      []EventInput
	insertedConf  []bool
	updatedIDs    []string
	updatedInputs []EventInput
	updatedConf   []bool
	patched       []string
}

func (f *fakeService) QueryFreeBusy(_ context.Context, _ string, _, _ time.Time) ([]Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freeBusyCalls++
	if f.busyErr != nil {
		return nil, f.busyErr
	}
	out := make([]Slot, len(f.busy))
	copy(out, f.busy)
	return out, nil
}

func (f *fakeService) ListEvents(_ context.Context, _ string, _, _ time.Time) ([]Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out, nil
}

func (f *fakeService) InsertEvent(_ context.Context, _ string, input EventInput, withConference bool) (*Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = append(f.inserted, input)
	f.insertedConf = append(f.insertedConf, withConference)
	if f.insertReturnsNil {
		return nil, nil
	}
	return &Event{
		ID:          "created-1",
		Summary:     input.Summary,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Attendees:   input.Attendees,
	}, nil
}

func (f *fakeService) UpdateEvent(_ context.Context, _ string, eventID string, input EventInput, withConference bool) (*Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updatedIDs = append(f.updatedIDs, eventID)
	f.updatedInputs = append(f.updatedInputs, input)
	f.updatedConf = append(f.updatedConf, withConference)
	return &Event{
		ID:          eventID,
		Summary:     input.Summary,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Attendees:   input.Attendees,
	}, nil
}

func (f *fakeService) PatchEvent(_ context.Context, _ string, eventID string, input EventInput, _ bool) (*Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patched = append(f.patched, eventID)
	return &Event{ID: eventID, Summary: input.Summary}, nil
}
