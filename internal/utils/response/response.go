package response

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Response is the envelope for non-list endpoints.
type Response struct {
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Form    interface{} `json:"form,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func GeneralError(message string, err error) Response {
	resp := Response{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errorMessages string
	for _, err := range errs {
		errorMessages += err.Field() + ": " + err.Tag() + "; "
	}

	return Response{
		Message: "Invalid request",
		Error:   errorMessages,
	}
}

func RequestOK(message string, form interface{}) Response {
	return Response{
		Message: message,
		Form:    form,
	}
}
