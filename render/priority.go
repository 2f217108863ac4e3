package render

// Priority determines draw order. Lower values draw first
type Priority int

const (
	PrioritySky Priority = iota
	PriorityStars
	PriorityBodies
	PriorityClouds
	PriorityBuildings
	PriorityStreet
	PriorityGround
	PriorityClock
	PriorityStatus
	PriorityDebug
)

// pass is one drawing stage of the frame
type pass struct {
	name     string
	priority Priority
	index    int // registration order for stable sort
	draw     func(f *frame)
}

// passList keeps passes sorted by priority then registration order
type passList struct {
	passes   []pass
	regCount int
}

// register adds a pass, maintaining sorted order via insertion sort
func (l *passList) register(name string, priority Priority, draw func(f *frame)) {
	entry := pass{name: name, priority: priority, index: l.regCount, draw: draw}
	l.regCount++

	pos := len(l.passes)
	for i, e := range l.passes {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	l.passes = append(l.passes, pass{})
	copy(l.passes[pos+1:], l.passes[pos:])
	l.passes[pos] = entry
}

func (l *passList) run(f *frame) {
	for _, p := range l.passes {
		p.draw(f)
	}
}
