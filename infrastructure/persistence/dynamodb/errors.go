package dynamodb

import (
	"errors"

	"github.com/aws/smithy-go"

	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// fromAPIError classifies a failed DynamoDB call. Throttling is reported as
// UNAVAILABLE so callers answer 503 and the breaker counts it; a missing table
// or index is a deployment mistake. Anything else stays DATABASE.
func fromAPIError(operation string, err error) *pkgerrors.AppError {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return pkgerrors.NewDatabaseError(operation, err)
	}

	switch code := ae.ErrorCode(); code {
	case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded":
		return pkgerrors.NewUnavailableError("dynamodb").
			WithCode(code).
			WithDetail("operation", operation).
			WithCause(err)
	case "ResourceNotFoundException":
		return pkgerrors.NewConfigurationError("almanac table or index not found during "+operation).
			WithCode(code).
			WithCause(err)
	default:
		return pkgerrors.NewDatabaseError(operation, err).WithCode(code)
	}
}
