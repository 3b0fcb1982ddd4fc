package handler

const (
	msgNoFilePath       = "No filePath provided"
	msgFilePathNotText  = "filePath must be a string"
	msgInvalidJSON      = "Bad Request: invalid JSON"
	msgMethodNotAllowed = "Method not allowed"
	msgInternalError    = "Internal Server Error"
)

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
