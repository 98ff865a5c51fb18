package adapt

import (
	"errors"
	"iter"
	"slices"
)

type rawWidget struct {
	id int
}

type Widget interface {
	ID() int
}

type widgetAdapter struct {
	raw *rawWidget
}

func (*widgetAdapter) Wrap(raw *rawWidget) *widgetAdapter {
	if raw == nil {
		return nil
	}
	return &widgetAdapter{raw: raw}
}

func (w *widgetAdapter) Unwrap() *rawWidget {
	if w == nil {
		return nil
	}
	return w.raw
}

func (w *widgetAdapter) ID() int { return w.raw.id }

// impostor satisfies Widget without being the wrapped type.
type impostor struct {
	id int
}

func (i impostor) ID() int { return i.id }

func wrapped(id int) *widgetAdapter {
	return &widgetAdapter{raw: &rawWidget{id: id}}
}

func ids(seq iter.Seq[Widget]) []int {
	var out []int
	for w := range seq {
		out = append(out, w.ID())
	}
	return out
}

func rawIDs(seq iter.Seq[*rawWidget]) []int {
	var out []int
	for w := range seq {
		out = append(out, w.id)
	}
	return out
}

// widgetSlice is array-shaped and list-shaped at the same time.
type widgetSlice []*rawWidget

var errReadOnly = errors.New("read only")

func (s widgetSlice) All() iter.Seq[*rawWidget] { return slices.Values(s) }
func (s widgetSlice) Len() int { return len(s) }
func (s widgetSlice) At(i int) *rawWidget { return s[i] }
func (s widgetSlice) Contains(v *rawWidget) bool { return slices.Contains(s, v) }
func (s widgetSlice) IndexOf(v *rawWidget) int { return slices.Index(s, v) }
func (s widgetSlice) Add(*rawWidget) error { return errReadOnly }
func (s widgetSlice) Remove(*rawWidget) (bool, error) { return false, errReadOnly }
func (s widgetSlice) Clear() error { return errReadOnly }
func (s widgetSlice) Set(i int, v *rawWidget) error {
	s[i] = v
	return nil
}
func (s widgetSlice) Insert(int, *rawWidget) error { return errReadOnly }
func (s widgetSlice) RemoveAt(int) error { return errReadOnly }

// recoverError runs f and returns the error it panicked with, if any.
func recoverError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}

// rawPoint cannot be compared with == because of its slice field.
type rawPoint struct {
	X    int
	Tags []string
}

type Point interface {
	Tags() []string
}

type pointValue struct {
	raw rawPoint
}

func (pointValue) Wrap(raw rawPoint) pointValue { return pointValue{raw: raw} }

func (p pointValue) Unwrap() rawPoint { return p.raw }

func (p pointValue) Tags() []string { return p.raw.Tags }
