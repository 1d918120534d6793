package reminders

// ReminderList is a named list owned by exactly one user.
type ReminderList struct {
	ID    int64  `db:"id" json:"id"`
	Owner string `db:"owner" json:"owner"`
	Name  string `db:"name" json:"name"`
}

// ReminderItem belongs to a list. Completed is toggled by StrikeItem.
type ReminderItem struct {
	ID          int64  `db:"id" json:"id"`
	ListID      int64  `db:"list_id" json:"list_id"`
	Description string `db:"description" json:"description"`
	Completed   bool   `db:"completed" json:"completed"`
}

// SelectedList is the resolved view of a user's selected list.
type SelectedList struct {
	ID    int64          `json:"id"`
	Owner string         `json:"owner"`
	Name  string         `json:"name"`
	Items []ReminderItem `json:"items"`
}
