package dynamodb

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// isConditionalCheckFailure unwraps DynamoDB's conditional-update rejection.
// The schedule slot claim and idempotent creates both rely on it.
func isConditionalCheckFailure(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}
