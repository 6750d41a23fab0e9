package models

// Notification is a text message pushed to the shop owner, such as the
// daily closing report.
type Notification struct {
	To   string `json:"to"`
	Body string `json:"body"`
}
