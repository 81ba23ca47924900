package persistence

// DefaultRooms returns the catalog entries installed when a store starts
// with an empty rooms collection, so a fresh deployment is usable without
// waiting for the external catalog system.
func DefaultRooms() []Room {
	return []Room{
		{ID: 1, Name: "Engineering Hall 101", Location: "Engineering Hall", Capacity: 50, Equipment: []string{"projector", "whiteboard"}, Available: true},
		{ID: 2, Name: "Engineering Hall 102", Location: "Engineering Hall", Capacity: 40, Equipment: []string{"projector"}, Available: true},
		{ID: 3, Name: "Engineering Annex 201", Location: "Engineering Annex", Capacity: 60, Equipment: []string{"whiteboard"}, Available: true},
		{ID: 4, Name: "Engineering Annex 202", Location: "Engineering Annex", Capacity: 70, Equipment: []string{"projector", "whiteboard"}, Available: true},
		{ID: 5, Name: "Science Wing 301", Location: "Science Wing", Capacity: 30, Equipment: []string{"projector"}, Available: true},
		{ID: 6, Name: "Science Wing 302", Location: "Science Wing", Capacity: 25, Equipment: []string{"whiteboard"}, Available: true},
		{ID: 7, Name: "Library 101", Location: "Library", Capacity: 20, Equipment: []string{"projector", "whiteboard"}, Available: true},
		{ID: 8, Name: "Library 102", Location: "Library", Capacity: 35, Equipment: []string{"projector"}, Available: true},
		{ID: 9, Name: "Natural Sciences 201", Location: "Natural Sciences", Capacity: 50, Equipment: []string{"whiteboard"}, Available: true},
		{ID: 10, Name: "Natural Sciences 202", Location: "Natural Sciences", Capacity: 60, Equipment: []string{"projector"}, Available: true},
		{ID: 11, Name: "Business School 101", Location: "Business School", Capacity: 45, Equipment: []string{"whiteboard"}, Available: true},
		{ID: 12, Name: "Business School 102", Location: "Business School", Capacity: 30, Equipment: []string{"projector"}, Available: true},
		{ID: 13, Name: "Humanities 301", Location: "Humanities", Capacity: 25, Equipment: []string{"whiteboard"}, Available: true},
		{ID: 14, Name: "Humanities 302", Location: "Humanities", Capacity: 30, Equipment: []string{"projector"}, Available: true},
		{ID: 15, Name: "Social Sciences 201", Location: "Social Sciences", Capacity: 40, Equipment: []string{"projector", "whiteboard"}, Available: true},
		{ID: 16, Name: "Social Sciences 202", Location: "Social Sciences", Capacity: 55, Equipment: []string{"projector"}, Available: true},
		{ID: 17, Name: "Liberal Arts 101", Location: "Liberal Arts", Capacity: 20, Equipment: []string{"whiteboard"}, Available: true},
		{ID: 18, Name: "Liberal Arts 102", Location: "Liberal Arts", Capacity: 35, Equipment: []string{"projector"}, Available: true},
	}
}
