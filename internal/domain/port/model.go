package port

import (
	"context"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// ModelProvider exposes the process-wide trained model. An error means no
// model is usable and callers must take the rule-based path.
type ModelProvider interface {
	Model(ctx context.Context) (*model.LoadedModel, error)
}
