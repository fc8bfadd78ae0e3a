package constants

// Spreadsheet layout
const (
	MasterTabName      = "Master Tasks"
	ContractorsTabName = "Contractors"
)

// Task defaults
const (
	DefaultPriority = "Medium"
	DefaultStatus   = "Open"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AI task extraction
const (
	MaxAIGeneratedTasks = 50
)

// Digest triggers recorded in the digest history
const (
	DigestTriggerAPI      = "api"
	DigestTriggerSchedule = "schedule"
	DigestTriggerCLI      = "cli"
)
