package models

// EmailJob — задание на отправку письма, публикуемое в очередь уведомлений
// и потребляемое воркером notification-sender.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
