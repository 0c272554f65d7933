package config

type WorkerKeyStruct struct {
	ReminderEmailQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ReminderEmailQueue: "reminder_email_queue",
}
