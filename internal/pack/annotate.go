package pack

import (
	"ccdd-pack/internal/structure"
)

// Kind classifies a member by how it shares storage. BitWise members have a
// bit length but are alone in their storage unit; Packed members share it.
type Kind int

const (
	Plain Kind = iota
	BitWise
	Packed
	StringMember
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case BitWise:
		return "bit-wise"
	case Packed:
		return "packed"
	case StringMember:
		return "string"
	}
	return "unknown"
}

// Annotation pairs a member's classification with the range it belongs to.
type Annotation struct {
	Kind  Kind
	Range Range
}

// Annotate classifies every member of list in order. A pack range found for
// one member is reused for the following members it covers instead of being
// resolved again.
func (r *Resolver) Annotate(list structure.MemberList) ([]Annotation, error) {
	if err := r.Check(list); err != nil {
		return nil, err
	}
	out := make([]Annotation, len(list.Members))
	lastPack := Range{First: -1, Last: -1, Target: -1}
	lastString := lastPack
	for i, m := range list.Members {
		switch {
		case m.HasBitLength():
			if lastPack.Contains(i) {
				out[i] = Annotation{Kind: Packed, Range: Range{First: lastPack.First, Last: lastPack.Last, Target: i}}
				continue
			}
			rng, err := r.packRange(list, i)
			if err != nil {
				return nil, err
			}
			if rng.Len() > 1 {
				out[i] = Annotation{Kind: Packed, Range: rng}
				lastPack = rng
			} else {
				out[i] = Annotation{Kind: BitWise, Range: rng}
			}
		case r.IsStringMember(m):
			if !lastString.Contains(i) {
				rng, err := r.StringMemberRange(list, i)
				if err != nil {
					return nil, err
				}
				lastString = rng
			}
			out[i] = Annotation{Kind: StringMember, Range: Range{First: lastString.First, Last: lastString.Last, Target: i}}
		default:
			out[i] = Annotation{Kind: Plain, Range: single(i)}
		}
	}
	return out, nil
}

// Expand widens a selection of member indices so that every bit-field pulls
// in the members packed with it and every string member pulls in the rest of
// its string. Indices keep selection order; each appears once.
func (r *Resolver) Expand(list structure.MemberList, selected []int) ([]int, error) {
	if err := r.Check(list); err != nil {
		return nil, err
	}
	var out []int
	seen := make(map[int]bool, len(selected))
	add := func(i int) {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	for _, i := range selected {
		if err := checkIndex(list, i); err != nil {
			return nil, err
		}
		rng := single(i)
		m := list.Members[i]
		var err error
		switch {
		case m.HasBitLength():
			rng, err = r.packRange(list, i)
		case r.IsStringMember(m):
			rng, err = r.StringMemberRange(list, i)
		}
		if err != nil {
			return nil, err
		}
		for j := rng.First; j <= rng.Last; j++ {
			add(j)
		}
	}
	return out, nil
}
