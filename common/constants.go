package common

const (
	// AppName is the name of the application
	AppName = "apl-sync-service"

	// ImportArchivePrefix is the object prefix for archived raw import files
	ImportArchivePrefix = "imports"
)
