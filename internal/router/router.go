package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/rcw/client-backend/internal/models"
)

// HandlerFunc handles one matched route. Handlers own required-field
// validation; the router only parses.
type HandlerFunc func(ctx context.Context, req models.Request) events.APIGatewayProxyResponse

type route struct {
	path   string
	method string
}

// Router dispatches on an exact (path, method) match. No patterns, no
// wildcards. OPTIONS is intercepted before lookup and answered for any path.
type Router struct {
	routes map[route]HandlerFunc
	logger *zap.Logger
}

func New(logger *zap.Logger) *Router {
	return &Router{
		routes: make(map[route]HandlerFunc),
		logger: logger,
	}
}

func (r *Router) Register(method, path string, h HandlerFunc) {
	r.routes[route{path: path, method: method}] = h
}

// Handle is the Lambda entrypoint. Any failure that escapes a handler is
// converted to a 500 here; nothing propagates to the runtime as a crash.
func (r *Router) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic during dispatch", zap.Any("panic", rec))
			resp = models.Message(http.StatusInternalServerError, fmt.Sprintf("%v", rec))
			err = nil
		}
	}()

	if event.HTTPMethod == http.MethodOptions {
		return models.JSON(http.StatusOK, map[string]string{}), nil
	}

	req := models.Request{
		Method: event.HTTPMethod,
		Path:   event.Path,
		Query:  event.QueryStringParameters,
	}
	if req.Query == nil {
		req.Query = map[string]string{}
	}

	// GET and DELETE read from the query string; everything else carries a
	// JSON body. An absent field is an empty value, not an error.
	if event.HTTPMethod != http.MethodGet && event.HTTPMethod != http.MethodDelete && event.Body != "" {
		if jsonErr := json.Unmarshal([]byte(event.Body), &req.Body); jsonErr != nil {
			r.logger.Error("failed to parse request body", zap.Error(jsonErr))
			return models.Message(http.StatusInternalServerError, jsonErr.Error()), nil
		}
	}

	handler, ok := r.routes[route{path: event.Path, method: event.HTTPMethod}]
	if !ok {
		return models.Message(http.StatusNotFound, "Resource not found"), nil
	}

	r.logger.Info("dispatching request",
		zap.String("method", event.HTTPMethod),
		zap.String("path", event.Path))

	return handler(ctx, req), nil
}
