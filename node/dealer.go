package node

import "reflect"

// Dealer is a work queue of type pairs that still need a compiled plan.
// A pair handed out once is never handed out again.
type Dealer struct {
	needs map[TypePair]struct{}
	done  map[TypePair]struct{}
	order []TypePair
}

func (d *Dealer) NextNeeds() (src, dst reflect.Type, ok bool) {
	for len(d.order) > 0 {
		pair := d.order[0]
		d.order = d.order[1:]

		if _, pending := d.needs[pair]; !pending {
			continue
		}

		delete(d.needs, pair)
		d.Done(pair.Src, pair.Dst)

		return pair.Src, pair.Dst, true
	}

	return
}

func (d *Dealer) Needs(src, dst reflect.Type) {
	if d.needs == nil {
		d.needs = make(map[TypePair]struct{})
	}

	pair := TypePair{Src: src, Dst: dst}
	if _, exists := d.done[pair]; exists {
		return
	}

	if _, exists := d.needs[pair]; !exists {
		d.needs[pair] = struct{}{}
		d.order = append(d.order, pair)
	}
}

func (d *Dealer) Done(src, dst reflect.Type) {
	if d.done == nil {
		d.done = make(map[TypePair]struct{})
	}

	pair := TypePair{Src: src, Dst: dst}
	delete(d.needs, pair)
	d.done[pair] = struct{}{}
}

// IsDone reports whether the pair was already handed out or marked done.
func (d *Dealer) IsDone(src, dst reflect.Type) bool {
	_, ok := d.done[TypePair{Src: src, Dst: dst}]
	return ok
}
