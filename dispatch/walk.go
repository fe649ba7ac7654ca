package dispatch

import (
	"errors"
	"fmt"

	"github.com/gogpu/dwgdraw"
)

// EventKind identifies a traversal event.
type EventKind uint8

const (
	EventEnterBlock EventKind = iota + 1
	EventEnterEntity
	// EventEnterAttribute enters an attribute of the enclosing block
	// reference.
	EventEnterAttribute
	EventPrimitive
	// EventLeave closes the innermost block, entity or attribute.
	EventLeave
)

var eventNames = [...]string{"", "enter-block", "enter-entity", "enter-attribute", "primitive", "leave"}

func (k EventKind) String() string {
	if int(k) < len(eventNames) && k != 0 {
		return eventNames[k]
	}
	return "unknown"
}

// Event is one step of a depth-first traversal of a drawing.
type Event struct {
	Kind   EventKind
	Block  dwgdraw.Block
	Entity *dwgdraw.Entity
	// Primitive draws through the dispatcher callbacks.
	Primitive func(g Geometry) error
}

// Iterator yields traversal events in depth-first order.
type Iterator interface {
	Next() (Event, bool)
}

// SliceIterator iterates over a fixed list of events.
type SliceIterator struct {
	events []Event
	pos    int
}

// NewSliceIterator returns an iterator over events.
func NewSliceIterator(events []Event) *SliceIterator {
	return &SliceIterator{events: events}
}

// Next implements Iterator.
func (it *SliceIterator) Next() (Event, bool) {
	if it.pos >= len(it.events) {
		return Event{}, false
	}
	ev := it.events[it.pos]
	it.pos++
	return ev, true
}

type walkFrame uint8

const (
	walkBlock walkFrame = iota
	walkEntity
	// walkSkipped is an entity frame whose events are discarded.
	walkSkipped
)

// Walk drives the dispatcher from it. Entities that are skipped or
// converted by an extension have their events up to the matching Leave
// discarded. Primitive errors do not stop the walk; they are joined
// into the returned error. A Leave without an open frame, or frames
// still open when it is exhausted, yield ErrUnbalancedFrame.
func (d *Dispatcher) Walk(it Iterator) error {
	var (
		stack []walkFrame
		errs  []error
		skip  int
	)
	for n := 0; ; n++ {
		ev, ok := it.Next()
		if !ok {
			break
		}

		if skip > 0 {
			switch ev.Kind {
			case EventEnterBlock, EventEnterEntity, EventEnterAttribute:
				skip++
				stack = append(stack, walkSkipped)
			case EventLeave:
				skip--
				stack = stack[:len(stack)-1]
			}
			continue
		}

		switch ev.Kind {
		case EventEnterBlock:
			d.EnterBlock(ev.Block)
			stack = append(stack, walkBlock)
		case EventEnterEntity, EventEnterAttribute:
			if ev.Entity == nil {
				return fmt.Errorf("event %d: %s without entity", n, ev.Kind)
			}
			enter := d.EnterEntity
			if ev.Kind == EventEnterAttribute {
				enter = d.EnterAttribute
			}
			if enter(ev.Entity) {
				stack = append(stack, walkEntity)
			} else {
				stack = append(stack, walkSkipped)
				skip = 1
			}
		case EventPrimitive:
			if ev.Primitive == nil {
				continue
			}
			if err := d.drawPrimitive(ev.Primitive); err != nil {
				errs = append(errs, fmt.Errorf("event %d: %w", n, err))
			}
		case EventLeave:
			if len(stack) == 0 {
				return fmt.Errorf("event %d: %w", n, ErrUnbalancedFrame)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			var err error
			if top == walkBlock {
				err = d.LeaveBlock()
			} else {
				err = d.LeaveEntity()
			}
			if err != nil {
				return fmt.Errorf("event %d: %w", n, err)
			}
		default:
			return fmt.Errorf("event %d: unknown event kind %d", n, ev.Kind)
		}
	}

	if len(stack) > 0 {
		errs = append(errs, fmt.Errorf("%d frames left open: %w", len(stack), ErrUnbalancedFrame))
	}
	return errors.Join(errs...)
}

// primitiveFunc adapts a primitive event to Drawable.
type primitiveFunc func(g Geometry) error

func (primitiveFunc) Block() (dwgdraw.Block, bool)    { return dwgdraw.Block{}, false }
func (primitiveFunc) Entity() (*dwgdraw.Entity, bool) { return nil, false }
func (f primitiveFunc) Draw(g Geometry) error         { return f(g) }

func (d *Dispatcher) drawPrimitive(fn func(g Geometry) error) error {
	return d.drawRecovered(primitiveFunc(fn))
}
