package model

// Item is the domain model for a todo entry.
// The remote endpoint owns ids; the client never assigns them.
type Item struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Status is the human label shown on cards and in panels.
func (it Item) Status() string {
	if it.Completed {
		return "Completed"
	}
	return "Incomplete"
}

// Stats counts completed and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
