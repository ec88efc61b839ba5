// Package lambda adapts the person service to API Gateway proxy events.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/person-service/backend/internal/infrastructure/logger"
	"github.com/person-service/backend/internal/interfaces/http/dto"
	"github.com/person-service/backend/internal/interfaces/http/handler"
	"go.uber.org/zap"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// CreatePersonHandler serves POST /person from API Gateway
type CreatePersonHandler struct {
	creator handler.PersonCreator
	logger  *zap.Logger
}

// NewCreatePersonHandler creates a CreatePersonHandler
func NewCreatePersonHandler(creator handler.PersonCreator, logger *zap.Logger) *CreatePersonHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreatePersonHandler{creator: creator, logger: logger}
}

// Handle runs the creation saga for one proxy request. It never returns an
// error: every failure is reported through the response status and body so
// API Gateway does not replace it with a generic 502.
func (h *CreatePersonHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx, log := logger.WithRequestID(ctx, h.logger, requestID(ctx, req))

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			log.Info("Rejected undecodable base64 body", zap.Error(err))
			return respond(log, dto.NewError(http.StatusBadRequest, dto.MsgInvalidJSON)), nil
		}
		body = decoded
	}

	return respond(log, dto.FromOutcome(h.creator.Create(ctx, body))), nil
}

func respond(log *zap.Logger, res dto.Result) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(res.Body)
	if err != nil {
		log.Error("Failed to encode response", zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    jsonHeaders,
			Body:       `{"error":"` + dto.MsgCreateFailed + `"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: res.Status,
		Headers:    jsonHeaders,
		Body:       string(payload),
	}
}

// requestID prefers the Lambda invocation id and falls back to the API
// Gateway request id.
func requestID(ctx context.Context, req events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return req.RequestContext.RequestID
}
