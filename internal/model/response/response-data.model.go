package response

type ResponseData struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func OK(message string, data any) ResponseData {
	return ResponseData{Success: true, Message: message, Data: data}
}

func Fail(message string) ResponseData {
	return ResponseData{Success: false, Message: message}
}
