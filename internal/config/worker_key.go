package config

// WorkerKeyStruct names the Redis lists background workers drain.
type WorkerKeyStruct struct {
	// PersistSubmissionsQueue holds public quiz submissions as JSON until the
	// submission worker batches them into Postgres.
	PersistSubmissionsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistSubmissionsQueue: "quiz:submissions:persist",
}
