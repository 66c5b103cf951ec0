package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxPlanTitleLength is the maximum length for study-plan titles.
	MaxPlanTitleLength = 255

	// MaxQuestionLength bounds a note's question text.
	MaxQuestionLength = 2000

	// MaxAnswerLength bounds a note's answer text (markdown).
	MaxAnswerLength = 100_000

	// MaxAttachmentNameLength bounds an attachment file name. It becomes the
	// last segment of the blob path.
	MaxAttachmentNameLength = 255

	// MaxUploadBytes caps a multipart note request (all files together).
	MaxUploadBytes = 32 << 20

	// MaxLogFiles is how many server-*.log files SetupLogFile keeps.
	MaxLogFiles = 10
)
