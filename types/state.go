package types

// Stats are derived wholesale from the task collection and the clock.
// They are caches, never sources of truth, and are recomputed on every
// task or settings change.
type Stats struct {
	TotalTasks                int     `json:"totalTasks"`
	TotalDuration             float64 `json:"totalDuration"` // hours
	TopTag                    string  `json:"topTag"`
	TasksThisWeek             int     `json:"tasksThisWeek"`
	OverdueTasks              int     `json:"overdueTasks"`
	CompletedTasks            int     `json:"completedTasks"`
	CompletedDurationThisWeek float64 `json:"completedDurationThisWeek"`
}

// Weekly goal status tiers. Exceeding the goal is framed positively and
// reports success, not a distinct tier.
const (
	CapStatusSuccess = "success"
	CapStatusWarning = "warning"
)

// CapStatus tracks progress against the weekly duration goal.
type CapStatus struct {
	Goal       float64 `json:"goal"` // hours
	Achieved   float64 `json:"achieved"`
	Percentage int     `json:"percentage"`
	IsOverCap  bool    `json:"isOverCap"`
	Status     string  `json:"status"`
}

// UIState carries navigation flags owned by the presentation layer.
type UIState struct {
	ActiveView string `json:"activeView"`
	ShowForm   bool   `json:"showForm"`
}

// SearchCriteria is the current search/filter/sort selection.
type SearchCriteria struct {
	Query         string `json:"query"`
	SortBy        string `json:"sortBy"`
	FilterTag     string `json:"filterTag"`
	FilterStatus  string `json:"filterStatus"`
	CaseSensitive bool   `json:"caseSensitive"`
}

// AppState is the in-memory application aggregate owned by the store.
type AppState struct {
	Tasks      []Task
	Settings   Settings
	UI         UIState
	Search     SearchCriteria
	Stats      Stats
	Cap        CapStatus
	Err        string
	FormErrors map[string]string
}

// Clone returns a defensive deep copy of the state tree.
func (s AppState) Clone() AppState {
	out := s
	out.Tasks = CloneTasks(s.Tasks)
	if s.FormErrors != nil {
		out.FormErrors = make(map[string]string, len(s.FormErrors))
		for k, v := range s.FormErrors {
			out.FormErrors[k] = v
		}
	}
	return out
}
