package response

// Response is the envelope of every JSON API reply
type Response struct {
	Status     string      `json:"status"` // "success" or "error"
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// MessageData is the payload of replies that only confirm an action
type MessageData struct {
	Message string `json:"message"`
}

func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Message confirms an action that has nothing else to return
func Message(statusCode int, msg string) Response {
	return Success(statusCode, MessageData{Message: msg})
}

func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
