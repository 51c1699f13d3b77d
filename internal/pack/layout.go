package pack

import (
	"fmt"

	"ccdd-pack/internal/structure"
)

// Sizer reports the storage size of primitive data types.
// *datatype.Registry implements it.
type Sizer interface {
	IsPrimitive(dataType string) bool
	SizeInBytes(dataType string) (int, error)
}

// Slot is one storage unit of a structure: a plain member, a run of
// bit-fields packed into one unit, or a nested structure.
type Slot struct {
	First, Last int // member indices covered
	Offset      int // byte offset from the start of the structure
	Size        int
	Pad         int // padding bytes inserted before the slot
}

// Layout places the members of one structure in memory.
type Layout struct {
	Structure string
	Slots     []Slot
	Align     int // alignment of the structure itself
	Trailing  int // padding bytes after the last slot
	Size      int // total size including all padding
}

// Padding returns the number of padding bytes in the structure.
func (l Layout) Padding() int {
	n := l.Trailing
	for _, s := range l.Slots {
		n += s.Pad
	}
	return n
}

// Layouter computes structure layouts. Each member is aligned to its own
// size, capped at the alignment limit; a nested structure is aligned to the
// largest alignment found inside it. A pack range occupies a single unit of
// its data type. The structure size is rounded up to its alignment. Results
// are memoized, so a Layouter is not safe for concurrent use.
type Layouter struct {
	r         *Resolver
	sizes     Sizer
	alignment int
	lists     map[string]structure.MemberList
	done      map[string]Layout
	active    map[string]bool
}

// NewLayouter returns a Layouter over the given structures. alignment is the
// largest alignment any member gets (4 in a typical 32-bit target).
func (r *Resolver) NewLayouter(lists []structure.MemberList, sizes Sizer, alignment int) (*Layouter, error) {
	if alignment < 1 {
		return nil, fmt.Errorf("alignment %d must be positive", alignment)
	}
	lo := &Layouter{
		r:         r,
		sizes:     sizes,
		alignment: alignment,
		lists:     make(map[string]structure.MemberList, len(lists)),
		done:      map[string]Layout{},
		active:    map[string]bool{},
	}
	for _, l := range lists {
		lo.lists[l.Structure] = l
	}
	return lo, nil
}

// Layout returns the layout of the named structure, computing the layouts
// of the structures it contains first.
func (lo *Layouter) Layout(name string) (Layout, error) {
	if l, ok := lo.done[name]; ok {
		return l, nil
	}
	list, ok := lo.lists[name]
	if !ok {
		return Layout{}, fmt.Errorf("no structure %q", name)
	}
	if lo.active[name] {
		return Layout{}, fmt.Errorf("structure %s contains itself", name)
	}
	lo.active[name] = true
	defer delete(lo.active, name)

	if err := lo.r.Check(list); err != nil {
		return Layout{}, err
	}
	out := Layout{Structure: name, Align: 1}
	offset := 0
	for i := 0; i < len(list.Members); i++ {
		m := list.Members[i]
		slot := Slot{First: i, Last: i}
		align := 1
		if lo.sizes.IsPrimitive(m.DataType) {
			size, err := lo.sizes.SizeInBytes(m.DataType)
			if err != nil {
				return Layout{}, fmt.Errorf("%s.%s: %w", name, m.Name, err)
			}
			slot.Size = size
			align = min(max(size, 1), lo.alignment)
			if m.HasBitLength() {
				rng, err := lo.r.packRange(list, i)
				if err != nil {
					return Layout{}, err
				}
				slot.Last = rng.Last
			}
		} else {
			child, err := lo.Layout(m.DataType)
			if err != nil {
				return Layout{}, fmt.Errorf("%s.%s: %w", name, m.Name, err)
			}
			slot.Size = child.Size
			align = child.Align
		}
		slot.Pad = (align - offset%align) % align
		slot.Offset = offset + slot.Pad
		offset = slot.Offset + slot.Size
		out.Align = max(out.Align, align)
		out.Slots = append(out.Slots, slot)
		i = slot.Last
	}
	out.Trailing = (out.Align - offset%out.Align) % out.Align
	out.Size = offset + out.Trailing
	lo.done[name] = out
	return out, nil
}
