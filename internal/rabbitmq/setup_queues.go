package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации в exchange "notifications".
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// EmailQueue — очередь заданий на отправку писем (выписки, чеки, сброс пароля).
const (
	EmailQueue      = "notifications.email"
	EmailRoutingKey = "email"
)

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: EmailQueue, RoutingKey: EmailRoutingKey},
	}
}
