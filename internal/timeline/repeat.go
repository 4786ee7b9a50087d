package timeline

import "github.com/cbegin/chartline-go/internal/event"

// expandRepeats returns the clones produced by every active RepeatEvents
// modifier. Only active author dynamic events on the modifier's own floor
// whose tags intersect the modifier's are repeated.
func (t *Timeline) expandRepeats(author []event.Event) []event.Event {
	var out []event.Event
	for _, mod := range author {
		rep, ok := mod.Payload.(event.RepeatEvents)
		if !ok || !mod.Active {
			continue
		}
		for _, src := range author {
			if src.Floor != mod.Floor || !src.Active || !src.Dynamic() || !src.HasAnyTag(rep.Tags) {
				continue
			}
			switch rep.Type {
			case event.RepeatBeat:
				out = t.repeatByBeat(out, src, rep)
			case event.RepeatFloor:
				out = t.repeatByFloor(out, src, rep)
			}
		}
	}
	return out
}

func (t *Timeline) repeatByBeat(out []event.Event, src event.Event, rep event.RepeatEvents) []event.Event {
	for k := 1; k <= rep.Repetitions; k++ {
		c := src.Clone()
		c.Beat = src.Beat + rep.Interval*float64(k)
		c.Generated = true
		out = append(out, c)
	}
	return out
}

// repeatByFloor copies src onto the following floors. With
// ExecuteOnCurrentFloor the window of FloorCount floors starts at src's own
// floor, which the original already covers.
func (t *Timeline) repeatByFloor(out []event.Event, src event.Event, rep event.RepeatEvents) []event.Event {
	last := rep.FloorCount
	if rep.ExecuteOnCurrentFloor {
		last--
	}
	dropped := 0
	for k := 1; k <= last; k++ {
		floor := src.Floor + k
		if floor >= len(t.tiles) {
			dropped++
			continue
		}
		c := src.Clone()
		c.Floor = floor
		c.Beat = t.floorBeat(floor) + src.AngleOffset/180
		c.Generated = true
		out = append(out, c)
	}
	if dropped > 0 {
		t.log.Warn("repeat clones past the end of the chain dropped",
			"kind", src.Kind(), "floor", src.Floor, "dropped", dropped)
	}
	return out
}
