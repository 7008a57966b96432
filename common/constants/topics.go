package constants

const (
	// SyncStreamName is the JetStream stream holding sync subjects.
	SyncStreamName = "APL_SYNC"
	// SyncRequestTopic carries externally triggered sync requests.
	SyncRequestTopic = "apl.sync.request"
	// SyncCompletedTopic carries terminal job notifications for downstream consumers.
	SyncCompletedTopic = "apl.sync.completed"
)
