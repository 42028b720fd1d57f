package controller

import "context"

type ctxKey int

const participantIdCtxKey ctxKey = iota

func (c controller) getParticipantIdFromCtx(ctx context.Context) string {
	participantId, ok := ctx.Value(participantIdCtxKey).(string)
	if !ok {
		return ""
	}

	return participantId
}
