package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/watchparty/server/pkg/wsconn"
)

func (c controller) broadcast(ctx context.Context, conns []*wsconn.Conn, output *Output) {
	for _, conn := range conns {
		if err := conn.WriteJSON(output); err != nil {
			c.logger.InfoContext(ctx, "failed to write to connection", "error", err)
		}
	}
}

func (c controller) unmarshalAndValidate(ctx context.Context, conn *wsconn.Conn, payload json.RawMessage, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		if err := conn.WriteJSON(&Output{
			Type:    "error",
			Payload: map[string]string{"message": "invalid payload"},
		}); err != nil {
			c.logger.InfoContext(ctx, "failed to write error output", "error", err)
		}

		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if validationErrors, ok := c.validate.Validate(dst); !ok {
		if err := conn.WriteJSON(&Output{
			Type:    "error",
			Payload: map[string]any{"errors": validationErrors},
		}); err != nil {
			c.logger.InfoContext(ctx, "failed to write error output", "error", err)
		}

		return ErrValidationError
	}

	return nil
}
