package models

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/rcw/client-backend/internal/apperr"
)

// Every response carries the same permissive CORS header set, preflight
// included.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

// JSON builds the response envelope: status code, CORS headers and a JSON body.
func JSON(status int, body interface{}) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(corsHeaders)+1)
	for k, v := range corsHeaders {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"

	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"message":"An internal server error occurred","errorType":"InternalError"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(payload),
	}
}

// Message is the common single-field body.
func Message(status int, message string) events.APIGatewayProxyResponse {
	return JSON(status, map[string]string{"message": message})
}

// ValidationFailed is the required-field rejection, produced before any remote
// call is made.
func ValidationFailed(message string) events.APIGatewayProxyResponse {
	return JSON(http.StatusBadRequest, map[string]string{
		"message":   message,
		"errorType": apperr.KindValidation,
	})
}

// FromError converts a tagged operation error into the response envelope,
// attaching the upstream payload when one was captured.
func FromError(e *apperr.Error) events.APIGatewayProxyResponse {
	body := map[string]interface{}{
		"message":   e.Message,
		"errorType": e.Kind,
	}
	if len(e.Details) > 0 {
		body["details"] = e.Details
	}
	return JSON(e.Status, body)
}
