package models

// AppNotification is an alert shown in the back-office inbox
type AppNotification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Read    bool   `json:"read"`
}

// DedupKey identifies notifications with the same title and message.
func (n *AppNotification) DedupKey() string {
	return NotificationKey(n.Title, n.Message)
}

func NotificationKey(title, message string) string {
	return title + "\x00" + message
}
